package rag

import (
	"context"

	"github.com/avasani/visarag/internal/rag/embedding"
	"github.com/avasani/visarag/internal/rag/vectordb"
)

// Retriever answers "which stored chunks are closest to this question".
// No deduplication, no re-ranking: the store's similarity order is the
// contract the generator receives.
type Retriever struct {
	embedder   embedding.Embedder
	store      vectordb.Store
	collection string
}

func NewRetriever(embedder embedding.Embedder, store vectordb.Store, collection string) *Retriever {
	return &Retriever{
		embedder:   embedder,
		store:      store,
		collection: collection,
	}
}

// Retrieve returns at most topK chunk texts ordered by descending
// similarity; fewer only when the collection holds fewer entries. Embedder
// and store failures propagate unchanged.
func (r *Retriever) Retrieve(ctx context.Context, question string, topK int) ([]string, error) {
	vector, err := r.embedder.Embed(ctx, question)
	if err != nil {
		return nil, err
	}
	return r.store.Search(ctx, r.collection, vector, topK)
}
