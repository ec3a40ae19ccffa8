package geminiembed

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/avasani/visarag/internal/config"
	"github.com/avasani/visarag/internal/rag/embedding"
	"github.com/avasani/visarag/pkg/logging"
)

type client struct {
	genAI     *genai.Client
	model     string
	dimension int32
	logger    *logging.Logger
}

// New builds a Gemini embedder on the genai SDK.
func New(ctx context.Context, cfg config.GeminiConfig) (embedding.Embedder, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: missing Gemini api key", embedding.ErrService)
	}

	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: cfg.APIKey})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", embedding.ErrService, err)
	}

	return &client{
		genAI:     c,
		model:     cfg.EmbeddingModel,
		dimension: int32(cfg.EmbeddingDim),
		logger:    logging.NewLogger("gemini_embedding"),
	}, nil
}

func (c *client) Dimension() uint64 { return uint64(c.dimension) }

func (c *client) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := c.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (c *client) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	contents := make([]*genai.Content, 0, len(texts))
	for _, text := range texts {
		contents = append(contents, &genai.Content{
			Parts: []*genai.Part{{Text: text}},
		})
	}

	result, err := c.genAI.Models.EmbedContent(ctx, c.model, contents, &genai.EmbedContentConfig{
		OutputDimensionality: &c.dimension,
		TaskType:             "RETRIEVAL_DOCUMENT",
	})
	if err != nil {
		c.logger.Error("embedding call failed", "model", c.model, "error", err)
		return nil, fmt.Errorf("%w: %v", embedding.ErrService, err)
	}
	if len(result.Embeddings) != len(texts) {
		return nil, fmt.Errorf("%w: sent %d inputs, got %d embeddings",
			embedding.ErrService, len(texts), len(result.Embeddings))
	}

	vectors := make([][]float32, 0, len(result.Embeddings))
	for _, e := range result.Embeddings {
		vectors = append(vectors, e.Values)
	}
	return vectors, nil
}
