package answercache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/avasani/visarag/internal/config"
	"github.com/avasani/visarag/pkg/logging"
)

// Cache is an exact-match question -> answer cache on redis. The serving
// pipeline is deterministic (temperature 0 over a read-only collection), so
// an identical question maps to an identical answer until the collection is
// re-ingested. Keys carry the collection name so a re-ingest under a new
// collection never serves stale answers.
type Cache struct {
	client     *redis.Client
	collection string
	ttl        time.Duration
	logger     *logging.Logger
}

// New connects to redis and pings it. Returns (nil, err) when redis is
// unreachable; the caller decides whether to run without a cache.
func New(ctx context.Context, cfg config.RedisConfig, collection string) (*Cache, error) {
	logger := logging.NewLogger("answer_cache")

	client := redis.NewClient(&redis.Options{
		Addr:                  cfg.Addr,
		Password:              cfg.Password,
		DB:                    cfg.DB,
		ContextTimeoutEnabled: true,
	})

	pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout())
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, err
	}

	cache := &Cache{
		client:     client,
		collection: collection,
		ttl:        cfg.AnswerTTL(),
		logger:     logger,
	}
	go cache.closeOnCancel(ctx)
	return cache, nil
}

func (c *Cache) closeOnCancel(ctx context.Context) {
	<-ctx.Done()
	c.logger.Info("Closing redis client")
	if err := c.client.Close(); err != nil {
		c.logger.Error("error closing redis client", "error", err)
	}
}

func (c *Cache) Get(ctx context.Context, question string) (string, bool) {
	answer, err := c.client.Get(ctx, c.key(question)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false
	}
	if err != nil {
		c.logger.Error("cache get failed", "error", err)
		return "", false
	}
	return answer, true
}

func (c *Cache) Set(ctx context.Context, question, answer string) error {
	return c.client.Set(ctx, c.key(question), answer, c.ttl).Err()
}

func (c *Cache) key(question string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(strings.ToLower(question))))
	return "answer:" + c.collection + ":" + hex.EncodeToString(sum[:])
}

// NewTestCache wires an existing client, for miniredis-backed tests.
func NewTestCache(client *redis.Client, collection string, ttl time.Duration) *Cache {
	return &Cache{
		client:     client,
		collection: collection,
		ttl:        ttl,
		logger:     logging.NewLogger("answer_cache_test"),
	}
}
