package answercache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newMiniCache(t *testing.T, collection string, ttl time.Duration) (*Cache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewTestCache(client, collection, ttl), mr
}

func TestCache_RoundTrip(t *testing.T) {
	cache, _ := newMiniCache(t, "uk_talent_visa", time.Hour)
	ctx := context.Background()

	question := "What is the endorsement requirement?"
	answer := "An endorsement from a recognized body is required."

	if _, ok := cache.Get(ctx, question); ok {
		t.Fatal("expected a miss before any Set")
	}
	if err := cache.Set(ctx, question, answer); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, ok := cache.Get(ctx, question)
	if !ok {
		t.Fatal("expected a hit after Set")
	}
	if got != answer {
		t.Errorf("Get = %q, want %q", got, answer)
	}
}

func TestCache_KeyNormalization(t *testing.T) {
	cache, _ := newMiniCache(t, "uk_talent_visa", time.Hour)
	ctx := context.Background()

	if err := cache.Set(ctx, "What are the fees?", "answer about fees"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	// Case and surrounding whitespace do not change the key.
	for _, variant := range []string{"what are the fees?", "  What are the fees?  ", "WHAT ARE THE FEES?"} {
		got, ok := cache.Get(ctx, variant)
		if !ok {
			t.Errorf("Get(%q): expected a hit", variant)
			continue
		}
		if got != "answer about fees" {
			t.Errorf("Get(%q) = %q, want %q", variant, got, "answer about fees")
		}
	}

	// A different question is a different key.
	if _, ok := cache.Get(ctx, "What are the requirements?"); ok {
		t.Error("expected a miss for a different question")
	}
}

func TestCache_CollectionScopedKeys(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	old := NewTestCache(client, "uk_talent_visa", time.Hour)
	renewed := NewTestCache(client, "uk_talent_visa_v2", time.Hour)
	ctx := context.Background()

	if err := old.Set(ctx, "What are the fees?", "stale answer"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	if _, ok := renewed.Get(ctx, "What are the fees?"); ok {
		t.Error("answers cached under another collection must not be served")
	}
	if got, ok := old.Get(ctx, "What are the fees?"); !ok || got != "stale answer" {
		t.Errorf("original collection lookup = (%q, %v), want the cached answer", got, ok)
	}
}

func TestCache_TTLExpiry(t *testing.T) {
	cache, mr := newMiniCache(t, "uk_talent_visa", time.Minute)
	ctx := context.Background()

	if err := cache.Set(ctx, "How long is the visa valid?", "Up to five years."); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, ok := cache.Get(ctx, "How long is the visa valid?"); !ok {
		t.Fatal("expected a hit before expiry")
	}

	mr.FastForward(2 * time.Minute)

	if _, ok := cache.Get(ctx, "How long is the visa valid?"); ok {
		t.Error("expected a miss after the TTL elapsed")
	}
}
