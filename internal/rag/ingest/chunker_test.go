package ingest

import (
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/avasani/visarag/internal/domain"
)

func TestSplitFixed_Lossless(t *testing.T) {
	tests := []struct {
		name string
		text string
		size int
	}{
		{"exact multiple", strings.Repeat("abcd", 100), 80},
		{"with remainder", strings.Repeat("x", 1001), 500},
		{"smaller than size", "short text", 800},
		{"size one", "abc", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := SplitFixed(tt.text, tt.size)

			if got := strings.Join(chunks, ""); got != tt.text {
				t.Errorf("concatenated chunks do not reproduce input: got %d bytes, want %d", len(got), len(tt.text))
			}

			wantCount := (len(tt.text) + tt.size - 1) / tt.size
			if len(chunks) != wantCount {
				t.Errorf("chunk count = %d, want ceil(%d/%d) = %d", len(chunks), len(tt.text), tt.size, wantCount)
			}

			for i, c := range chunks {
				if i < len(chunks)-1 && len(c) != tt.size {
					t.Errorf("chunk %d has length %d, want exactly %d", i, len(c), tt.size)
				}
				if len(c) > tt.size {
					t.Errorf("chunk %d exceeds size: %d > %d", i, len(c), tt.size)
				}
			}
		})
	}
}

func TestSplitFixed_MultiByteRunes(t *testing.T) {
	// UK guidance text carries pound signs and curly quotes; a boundary
	// must never land inside one of those runes.
	text := "a" + strings.Repeat("£", 400) + "…" + strings.Repeat("“endorsement”", 50)

	for _, size := range []int{800, 401, 7, 3} {
		t.Run(fmt.Sprintf("size %d", size), func(t *testing.T) {
			chunks := SplitFixed(text, size)

			if got := strings.Join(chunks, ""); got != text {
				t.Errorf("concatenated chunks do not reproduce input")
			}

			for i, c := range chunks {
				if !utf8.ValidString(c) {
					t.Errorf("chunk %d is not valid UTF-8", i)
				}
				runeCount := utf8.RuneCountInString(c)
				if i < len(chunks)-1 && runeCount != size {
					t.Errorf("chunk %d holds %d characters, want exactly %d", i, runeCount, size)
				}
				if runeCount > size {
					t.Errorf("chunk %d exceeds size: %d > %d", i, runeCount, size)
				}
			}
		})
	}
}

func TestSplitFixed_Deterministic(t *testing.T) {
	text := strings.Repeat("The quick brown fox. ", 200)

	first := SplitFixed(text, 800)
	second := SplitFixed(text, 800)

	if len(first) != len(second) {
		t.Fatalf("two runs produced different chunk counts: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("chunk %d differs between runs", i)
		}
	}
}

func TestSplitFixed_DegenerateInputs(t *testing.T) {
	if got := SplitFixed("", 800); got != nil {
		t.Errorf("empty text should yield no chunks, got %d", len(got))
	}
	if got := SplitFixed("some text", 0); got != nil {
		t.Errorf("non-positive size should yield no chunks, got %d", len(got))
	}
	if got := SplitFixed("some text", -5); got != nil {
		t.Errorf("negative size should yield no chunks, got %d", len(got))
	}
}

func TestPrepareChunks_Ids(t *testing.T) {
	doc := domain.Document{
		Source:  "guidance.pdf",
		Content: strings.Repeat("z", 1700),
	}

	chunks := PrepareChunks(doc, 800)

	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}

	for i, c := range chunks {
		wantID := fmt.Sprintf("doc_%d", i)
		if c.ID != wantID {
			t.Errorf("chunk %d id = %q, want %q", i, c.ID, wantID)
		}
		if c.Index != i {
			t.Errorf("chunk %d index = %d", i, c.Index)
		}
		if c.Source != "guidance.pdf" {
			t.Errorf("chunk %d source = %q", i, c.Source)
		}
	}

	// Last chunk holds the remainder.
	if len(chunks[2].Text) != 100 {
		t.Errorf("last chunk length = %d, want 100", len(chunks[2].Text))
	}
}
