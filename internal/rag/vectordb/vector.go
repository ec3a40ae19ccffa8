package vectordb

import (
	"context"
	"errors"

	"github.com/avasani/visarag/internal/domain"
)

var (
	// ErrUnavailable means the store itself could not be reached or opened.
	ErrUnavailable = errors.New("vector store unavailable")
	// ErrCollectionNotFound means a query hit a collection that was never
	// populated. Usually the operator forgot to run the ingest step.
	ErrCollectionNotFound = errors.New("collection not found")
	// ErrDimensionMismatch means the collection was built with a different
	// embedding dimension than the one configured. Mixing vector spaces
	// silently degrades relevance, so we refuse instead.
	ErrDimensionMismatch = errors.New("collection dimension mismatch")
)

// Store is the nearest-neighbor contract the pipeline depends on. One
// collection name stays bound to one embedding model; EnsureCollection
// enforces the dimension half of that contract.
type Store interface {
	EnsureCollection(ctx context.Context, name string, dimension uint64) error
	ReplaceCollection(ctx context.Context, name string, dimension uint64) error
	UpsertBatch(ctx context.Context, name string, chunks []domain.Chunk, vectors [][]float32) error
	Search(ctx context.Context, name string, vector []float32, topK int) ([]string, error)
	Count(ctx context.Context, name string) (uint64, error)
}
