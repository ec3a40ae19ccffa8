package openaillm

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/avasani/visarag/internal/config"
	"github.com/avasani/visarag/internal/rag/llm"
	"github.com/avasani/visarag/pkg/logging"
)

type client struct {
	api    openai.Client
	model  string
	logger *logging.Logger
}

func New(cfg config.OpenAIConfig) (llm.Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: missing OpenAI api key", llm.ErrService)
	}

	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &client{
		api:    openai.NewClient(opts...),
		model:  cfg.ChatModel,
		logger: logging.NewLogger("openai_llm"),
	}, nil
}

func (c *client) Generate(ctx context.Context, question string, contextChunks []string) (string, error) {
	resp, err := c.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(llm.SystemInstruction),
			openai.UserMessage(llm.BuildUserPrompt(question, contextChunks)),
		},
		// Deterministic decoding; the refusal sentence must come back verbatim.
		Temperature: openai.Float(0),
	})
	if err != nil {
		c.logger.Error("chat completion failed", "model", c.model, "error", err)
		return "", fmt.Errorf("%w: %v", llm.ErrService, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: empty choices", llm.ErrService)
	}
	return resp.Choices[0].Message.Content, nil
}
