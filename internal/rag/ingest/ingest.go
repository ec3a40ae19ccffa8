package ingest

import (
	"context"
	"fmt"

	"github.com/avasani/visarag/internal/domain"
	"github.com/avasani/visarag/internal/rag/embedding"
	"github.com/avasani/visarag/internal/rag/vectordb"
	"github.com/avasani/visarag/pkg/logging"
)

// embeddingBatchSize keeps each provider call well under request limits.
const embeddingBatchSize = 100

// Options control one ingestion run.
type Options struct {
	Collection string
	ChunkSize  int
	// Append skips the collection replace and upserts on top of whatever
	// is already there. Default is replace: re-running on an unchanged
	// document then yields an equivalent collection instead of duplicates.
	Append bool
	// Progress, when set, is called after each persisted batch with the
	// number of chunks done and the total.
	Progress func(done, total int)
}

// Ingestor runs the offline pipeline: load -> chunk -> embed -> upsert.
// It is single-writer and run-to-completion; serving reads only.
type Ingestor struct {
	embedder embedding.Embedder
	store    vectordb.Store
	logger   *logging.Logger
}

func NewIngestor(embedder embedding.Embedder, store vectordb.Store) *Ingestor {
	return &Ingestor{
		embedder: embedder,
		store:    store,
		logger:   logging.NewLogger("ingest"),
	}
}

// Run ingests one document and returns the number of chunks stored.
func (in *Ingestor) Run(ctx context.Context, path string, opts Options) (int, error) {
	doc, err := LoadDocument(path)
	if err != nil {
		return 0, err
	}
	in.logger.Info("Loaded document", "source", doc.Source, "bytes", len(doc.Content))

	chunks := PrepareChunks(doc, opts.ChunkSize)
	in.logger.Info("Chunked document", "chunks", len(chunks), "chunk_size", opts.ChunkSize)

	dimension := in.embedder.Dimension()
	if opts.Append {
		err = in.store.EnsureCollection(ctx, opts.Collection, dimension)
	} else {
		err = in.store.ReplaceCollection(ctx, opts.Collection, dimension)
	}
	if err != nil {
		return 0, err
	}

	if err := in.ingestBatches(ctx, chunks, opts); err != nil {
		return 0, err
	}
	return len(chunks), nil
}

func (in *Ingestor) ingestBatches(ctx context.Context, chunks []domain.Chunk, opts Options) error {
	for start := 0; start < len(chunks); start += embeddingBatchSize {
		end := start + embeddingBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[start:end]

		texts := make([]string, len(batch))
		for i, c := range batch {
			texts[i] = c.Text
		}

		vectors, err := in.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return fmt.Errorf("embedding batch failed: %w", err)
		}

		if err := in.store.UpsertBatch(ctx, opts.Collection, batch, vectors); err != nil {
			return fmt.Errorf("upserting batch failed: %w", err)
		}

		if opts.Progress != nil {
			opts.Progress(end, len(chunks))
		}
	}
	return nil
}
