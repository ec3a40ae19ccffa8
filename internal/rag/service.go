package rag

import (
	"context"
	"time"

	"github.com/avasani/visarag/internal/config"
	"github.com/avasani/visarag/internal/metrics"
	"github.com/avasani/visarag/internal/rag/llm"
	"github.com/avasani/visarag/pkg/logging"
)

// Service is the sole entry point the HTTP layer depends on. Handlers never
// touch the retriever or the provider directly.
type Service interface {
	Answer(ctx context.Context, question string, topK int) (string, error)
}

// AnswerCache is the optional exact-match cache in front of the pipeline.
// answercache.Cache satisfies it; tests swap in a map.
type AnswerCache interface {
	Get(ctx context.Context, question string) (string, bool)
	Set(ctx context.Context, question, answer string) error
}

type service struct {
	retriever *Retriever
	provider  llm.Provider
	cache     AnswerCache // nil when redis is not configured
	topK      int
	timeout   time.Duration
	logger    *logging.Logger
}

func NewService(retriever *Retriever, provider llm.Provider, cache AnswerCache, cfg config.PipelineConfig) Service {
	return &service{
		retriever: retriever,
		provider:  provider,
		cache:     cache,
		topK:      cfg.TopK,
		timeout:   cfg.RequestTimeout(),
		logger:    logging.NewLogger("rag_service"),
	}
}

// Answer runs retrieve -> generate for one question. topK <= 0 falls back
// to the configured default.
func (s *service) Answer(ctx context.Context, question string, topK int) (string, error) {
	log := s.logger.With("traceId", ctx.Value(config.TraceIDKey))
	start := time.Now()
	outcome := "error"
	defer func() { metrics.CaptureAnswerDuration(outcome, time.Since(start)) }()

	if topK <= 0 {
		topK = s.topK
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if answer, found := s.cacheLookup(ctx, question); found {
		log.Debug("answer cache hit")
		outcome = "cached"
		return answer, nil
	}

	chunks, err := s.retrieveStep(ctx, question, topK)
	if err != nil {
		log.Error("retrieval failed", "error", err)
		return "", err
	}
	log.Debug("retrieved context", "chunks", len(chunks))

	answer, err := s.generateStep(ctx, question, chunks)
	if err != nil {
		log.Error("generation failed", "error", err)
		return "", err
	}

	if answer == llm.RefusalAnswer {
		outcome = "refused"
	} else {
		outcome = "answered"
	}

	s.cacheSave(ctx, question, answer)
	return answer, nil
}

func (s *service) cacheLookup(ctx context.Context, question string) (string, bool) {
	if s.cache == nil {
		return "", false
	}
	start := time.Now()
	defer func() { metrics.CaptureDependencyLatency("cache_lookup", time.Since(start)) }()

	answer, found := s.cache.Get(ctx, question)
	metrics.CountCacheLookup(found)
	return answer, found
}

func (s *service) retrieveStep(ctx context.Context, question string, topK int) ([]string, error) {
	start := time.Now()
	defer func() { metrics.CaptureDependencyLatency("retrieval", time.Since(start)) }()
	return s.retriever.Retrieve(ctx, question, topK)
}

func (s *service) generateStep(ctx context.Context, question string, chunks []string) (string, error) {
	start := time.Now()
	defer func() { metrics.CaptureDependencyLatency("generation", time.Since(start)) }()
	return s.provider.Generate(ctx, question, chunks)
}

func (s *service) cacheSave(ctx context.Context, question, answer string) {
	if s.cache == nil {
		return
	}
	// The save must not hold up or fail the response.
	go func(ctx context.Context) {
		saveCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := s.cache.Set(saveCtx, question, answer); err != nil {
			s.logger.Error("failed to save answer to cache", "error", err)
		}
	}(context.WithoutCancel(ctx))
}
