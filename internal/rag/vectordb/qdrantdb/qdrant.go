package qdrantdb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/qdrant/go-client/qdrant"

	"github.com/avasani/visarag/internal/config"
	"github.com/avasani/visarag/internal/domain"
	"github.com/avasani/visarag/internal/rag/vectordb"
	"github.com/avasani/visarag/pkg/logging"
)

// DB adapts the qdrant gRPC client to the vectordb.Store contract.
type DB struct {
	client         *qdrant.Client
	embeddingModel string
	logger         *logging.Logger
}

// New dials qdrant and verifies connectivity. The embedding model name is
// written into every point payload so a collection can be audited for the
// model it was built with.
func New(ctx context.Context, cfg config.QdrantConfig, embeddingModel string) (*DB, error) {
	logger := logging.NewLogger("qdrant")

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:     cfg.Host,
		Port:     cfg.GrpcPort,
		UseTLS:   cfg.UseTLS,
		PoolSize: uint(cfg.PoolSize),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", vectordb.ErrUnavailable, err)
	}

	healthCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if _, err := client.HealthCheck(healthCtx); err != nil {
		return nil, fmt.Errorf("%w: %v", vectordb.ErrUnavailable, err)
	}

	db := &DB{client: client, embeddingModel: embeddingModel, logger: logger}
	go db.closeOnCancel(ctx)
	return db, nil
}

func (db *DB) closeOnCancel(ctx context.Context) {
	<-ctx.Done()
	db.logger.Info("Shutting down qdrant client")
	if err := db.client.Close(); err != nil {
		db.logger.Error("could not close qdrant client", "error", err)
	}
}

func (db *DB) EnsureCollection(ctx context.Context, name string, dimension uint64) error {
	if name == "" {
		return errors.New("empty collection name")
	}

	exists, err := db.client.CollectionExists(ctx, name)
	if err != nil {
		return fmt.Errorf("%w: %v", vectordb.ErrUnavailable, err)
	}
	if exists {
		return db.checkDimension(ctx, name, dimension)
	}

	err = db.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: name,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     dimension,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("%w: %v", vectordb.ErrUnavailable, err)
	}
	db.logger.Info("Created collection", "name", name, "dimension", dimension)
	return nil
}

// ReplaceCollection drops and recreates, so re-ingesting an unchanged
// document yields the same collection instead of duplicated ids.
func (db *DB) ReplaceCollection(ctx context.Context, name string, dimension uint64) error {
	exists, err := db.client.CollectionExists(ctx, name)
	if err != nil {
		return fmt.Errorf("%w: %v", vectordb.ErrUnavailable, err)
	}
	if exists {
		if err := db.client.DeleteCollection(ctx, name); err != nil {
			return fmt.Errorf("%w: %v", vectordb.ErrUnavailable, err)
		}
		db.logger.Info("Dropped collection for replace", "name", name)
	}
	return db.EnsureCollection(ctx, name, dimension)
}

func (db *DB) UpsertBatch(ctx context.Context, name string, chunks []domain.Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("mismatch: got %d chunks but %d vectors", len(chunks), len(vectors))
	}

	points := make([]*qdrant.PointStruct, len(chunks))
	for i, chunk := range chunks {
		points[i] = &qdrant.PointStruct{
			Id:      qdrant.NewIDNum(uint64(chunk.Index)),
			Vectors: qdrant.NewVectors(vectors[i]...),
			Payload: qdrant.NewValueMap(map[string]any{
				"content":         chunk.Text,
				"chunk_id":        chunk.ID,
				"chunk_index":     chunk.Index,
				"source_doc":      chunk.Source,
				"embedding_model": db.embeddingModel,
				"ingested_at":     time.Now().Unix(),
			}),
		}
	}

	_, err := db.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: name,
		Points:         points,
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		return fmt.Errorf("qdrant upsert failed: %w", err)
	}
	return nil
}

func (db *DB) Search(ctx context.Context, name string, vector []float32, topK int) ([]string, error) {
	exists, err := db.client.CollectionExists(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", vectordb.ErrUnavailable, err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", vectordb.ErrCollectionNotFound, name)
	}

	result, err := db.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: name,
		Query:          qdrant.NewQuery(vector...),
		Limit:          qdrant.PtrOf(uint64(topK)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", vectordb.ErrUnavailable, err)
	}

	matches := make([]string, 0, len(result))
	for _, hit := range result {
		matches = append(matches, hit.Payload["content"].GetStringValue())
	}
	return matches, nil
}

func (db *DB) Count(ctx context.Context, name string) (uint64, error) {
	count, err := db.client.Count(ctx, &qdrant.CountPoints{CollectionName: name})
	if err != nil {
		return 0, fmt.Errorf("%w: %v", vectordb.ErrUnavailable, err)
	}
	return count, nil
}

func (db *DB) checkDimension(ctx context.Context, name string, dimension uint64) error {
	info, err := db.client.GetCollectionInfo(ctx, name)
	if err != nil {
		return fmt.Errorf("%w: %v", vectordb.ErrUnavailable, err)
	}

	params := info.GetConfig().GetParams().GetVectorsConfig().GetParams()
	if params == nil {
		// Named-vector collections are not created by this service.
		return nil
	}
	if params.Size != dimension {
		return fmt.Errorf("%w: collection %q holds %d-d vectors, embedder produces %d-d",
			vectordb.ErrDimensionMismatch, name, params.Size, dimension)
	}
	return nil
}
