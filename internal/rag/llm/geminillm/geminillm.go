package geminillm

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/avasani/visarag/internal/config"
	"github.com/avasani/visarag/internal/rag/llm"
	"github.com/avasani/visarag/pkg/logging"
)

type client struct {
	genAI  *genai.Client
	model  string
	logger *logging.Logger
}

func New(ctx context.Context, cfg config.GeminiConfig) (llm.Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: missing Gemini api key", llm.ErrService)
	}

	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: cfg.APIKey})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", llm.ErrService, err)
	}

	return &client{
		genAI:  c,
		model:  cfg.ChatModel,
		logger: logging.NewLogger("gemini_llm"),
	}, nil
}

func (c *client) Generate(ctx context.Context, question string, contextChunks []string) (string, error) {
	temperature := float32(0)
	contentConfig := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: llm.SystemInstruction}},
		},
		Temperature: &temperature,
	}

	result, err := c.genAI.Models.GenerateContent(
		ctx,
		c.model,
		genai.Text(llm.BuildUserPrompt(question, contextChunks)),
		contentConfig,
	)
	if err != nil {
		c.logger.Error("generate content failed", "model", c.model, "error", err)
		return "", fmt.Errorf("%w: %v", llm.ErrService, err)
	}
	return result.Text(), nil
}
