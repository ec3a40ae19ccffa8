package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/avasani/visarag/internal/bootstrap"
	"github.com/avasani/visarag/internal/config"
	"github.com/avasani/visarag/internal/data/answercache"
	"github.com/avasani/visarag/internal/handlers"
	"github.com/avasani/visarag/internal/rag"
	"github.com/avasani/visarag/internal/server"
	"github.com/avasani/visarag/pkg/logging"
)

func main() {
	logging.Init(slog.LevelDebug)
	logger := logging.NewLogger("main")

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	var listenAddr string
	flag.StringVar(&listenAddr, "listen-addr", cfg.Server.ListenAddr, "server listen address")
	flag.Parse()
	cfg.Server.ListenAddr = listenAddr

	serviceCtx, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	store, err := bootstrap.NewVectorStore(serviceCtx, cfg)
	if err != nil {
		logger.Error("vector store init failed", "error", err)
		os.Exit(1)
	}
	embedder, err := bootstrap.NewEmbedder(serviceCtx, cfg)
	if err != nil {
		logger.Error("embedder init failed", "error", err)
		os.Exit(1)
	}
	provider, err := bootstrap.NewLLMProvider(serviceCtx, cfg)
	if err != nil {
		logger.Error("llm provider init failed", "error", err)
		os.Exit(1)
	}

	// The cache is a nice-to-have: run without it when redis is not
	// configured or not reachable.
	var cache rag.AnswerCache
	if cfg.Redis.Addr != "" {
		redisCache, err := answercache.New(serviceCtx, cfg.Redis, cfg.Pipeline.Collection)
		if err != nil {
			logger.Warn("redis offline, serving without answer cache", "error", err)
		} else {
			cache = redisCache
		}
	}

	retriever := rag.NewRetriever(embedder, store, cfg.Pipeline.Collection)
	ragService := rag.NewService(retriever, provider, cache, cfg.Pipeline)

	srv := server.New(cfg.Server, handlers.New(ragService))

	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)
	stopExecution := make(chan bool, 1)

	go srv.ShutdownHandler(server.ShutdownParams{
		GracefulShutdown: gracefulShutdown,
		StopExecution:    stopExecution,
		CloseServices:    closeExternalServices,
	})
	go srv.ListenAndServe()

	<-stopExecution
	logger.Info("Server stopped")
}
