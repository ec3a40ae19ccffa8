package openaiembed

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/avasani/visarag/internal/config"
	"github.com/avasani/visarag/internal/rag/embedding"
	"github.com/avasani/visarag/pkg/logging"
)

type client struct {
	api       openai.Client
	model     string
	dimension uint64
	logger    *logging.Logger
}

// New builds an OpenAI embedder. BaseURL may point at any OpenAI-compatible
// endpoint (Azure deployments included).
func New(cfg config.OpenAIConfig) (embedding.Embedder, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: missing OpenAI api key", embedding.ErrService)
	}

	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &client{
		api:       openai.NewClient(opts...),
		model:     cfg.EmbeddingModel,
		dimension: uint64(cfg.EmbeddingDim),
		logger:    logging.NewLogger("openai_embedding"),
	}, nil
}

func (c *client) Dimension() uint64 { return c.dimension }

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

	resp, err := c.api.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Model: openai.EmbeddingModel(c.model),
		Input: openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: texts},
	})
	if err != nil {
		c.logger.Error("embedding call failed", "model", c.model, "error", err)
		return nil, fmt.Errorf("%w: %v", embedding.ErrService, err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("%w: sent %d inputs, got %d embeddings",
			embedding.ErrService, len(texts), len(resp.Data))
	}

	// The API reports an index per item; order by it rather than trusting
	// response order.
	vectors := make([][]float32, len(texts))
	for _, item := range resp.Data {
		vec := make([]float32, len(item.Embedding))
		for i, v := range item.Embedding {
			vec[i] = float32(v)
		}
		vectors[item.Index] = vec
	}
	return vectors, nil
}
