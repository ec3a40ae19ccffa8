package embedding

import (
	"context"
	"errors"
)

// ErrService wraps every provider-side failure: auth, quota, network. The
// caller decides whether to retry; this layer never does.
var ErrService = errors.New("embedding service failure")

// Embedder turns text into fixed-length vectors. EmbedBatch must preserve
// input order and the vectors must come from the same model used to build
// the collection being queried.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	// Dimension is the vector length this embedder produces; collections
	// are validated against it.
	Dimension() uint64
}
