package ingest

import (
	"fmt"

	"github.com/avasani/visarag/internal/domain"
)

// SplitFixed cuts text into consecutive chunks of exactly size characters,
// the last one holding the remainder. No overlap, no boundary awareness: a
// chunk may split mid-sentence, which costs retrieval quality but keeps
// the function pure and the output lossless (the concatenation of the
// result is the input). Slicing is by rune, never by byte, so a multi-byte
// character cannot straddle a boundary and every chunk is valid UTF-8.
func SplitFixed(text string, size int) []string {
	if size <= 0 || text == "" {
		return nil
	}

	runes := []rune(text)
	chunks := make([]string, 0, len(runes)/size+1)
	for i := 0; i < len(runes); i += size {
		end := i + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[i:end]))
	}
	return chunks
}

// PrepareChunks maps the raw slices onto domain chunks with doc_<index>
// ids. The id scheme is deliberately positional: re-running ingestion over
// an unchanged document reproduces the same ids.
func PrepareChunks(doc domain.Document, size int) []domain.Chunk {
	texts := SplitFixed(doc.Content, size)

	chunks := make([]domain.Chunk, 0, len(texts))
	for i, text := range texts {
		chunks = append(chunks, domain.Chunk{
			ID:     fmt.Sprintf("doc_%d", i),
			Index:  i,
			Text:   text,
			Source: doc.Source,
		})
	}
	return chunks
}
