package bootstrap

import (
	"context"
	"fmt"

	"github.com/avasani/visarag/internal/config"
	"github.com/avasani/visarag/internal/rag/embedding"
	"github.com/avasani/visarag/internal/rag/embedding/geminiembed"
	"github.com/avasani/visarag/internal/rag/embedding/openaiembed"
	"github.com/avasani/visarag/internal/rag/llm"
	"github.com/avasani/visarag/internal/rag/llm/geminillm"
	"github.com/avasani/visarag/internal/rag/llm/openaillm"
	"github.com/avasani/visarag/internal/rag/vectordb"
	"github.com/avasani/visarag/internal/rag/vectordb/qdrantdb"
)

// NewEmbedder picks the embedding client for the configured provider. The
// embedder and the chat provider always come from the same vendor so a
// collection stays bound to one embedding model.
func NewEmbedder(ctx context.Context, cfg *config.Config) (embedding.Embedder, error) {
	switch cfg.Pipeline.Provider {
	case "openai":
		return openaiembed.New(cfg.OpenAI)
	case "gemini":
		return geminiembed.New(ctx, cfg.Gemini)
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Pipeline.Provider)
	}
}

func NewLLMProvider(ctx context.Context, cfg *config.Config) (llm.Provider, error) {
	switch cfg.Pipeline.Provider {
	case "openai":
		return openaillm.New(cfg.OpenAI)
	case "gemini":
		return geminillm.New(ctx, cfg.Gemini)
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Pipeline.Provider)
	}
}

func NewVectorStore(ctx context.Context, cfg *config.Config) (vectordb.Store, error) {
	model := cfg.OpenAI.EmbeddingModel
	if cfg.Pipeline.Provider == "gemini" {
		model = cfg.Gemini.EmbeddingModel
	}
	return qdrantdb.New(ctx, cfg.Qdrant, model)
}
