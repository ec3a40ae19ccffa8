// Command ingest is the one-shot operator entry point that feeds a source
// document into the vector collection: load -> chunk -> embed -> upsert.
// It is not part of the request-serving path and assumes a single writer.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/schollz/progressbar/v3"

	"github.com/avasani/visarag/internal/bootstrap"
	"github.com/avasani/visarag/internal/config"
	"github.com/avasani/visarag/internal/rag/ingest"
	"github.com/avasani/visarag/pkg/logging"
)

func main() {
	logging.Init(slog.LevelInfo)
	logger := logging.NewLogger("ingest_cli")

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	var (
		filePath   string
		collection string
		chunkSize  int
		appendMode bool
	)
	flag.StringVar(&filePath, "file", "", "path to the source document (pdf, txt, docx, rtf)")
	flag.StringVar(&collection, "collection", cfg.Pipeline.Collection, "target collection name")
	flag.IntVar(&chunkSize, "chunk-size", cfg.Pipeline.ChunkSize, "chunk size in characters")
	flag.BoolVar(&appendMode, "append", false, "append to the collection instead of replacing it")
	flag.Parse()

	if filePath == "" {
		fmt.Fprintln(os.Stderr, "usage: ingest -file <document> [-collection name] [-chunk-size n] [-append]")
		os.Exit(2)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := bootstrap.NewVectorStore(ctx, cfg)
	if err != nil {
		logger.Error("vector store init failed", "error", err)
		os.Exit(1)
	}
	embedder, err := bootstrap.NewEmbedder(ctx, cfg)
	if err != nil {
		logger.Error("embedder init failed", "error", err)
		os.Exit(1)
	}

	var bar *progressbar.ProgressBar
	count, err := ingest.NewIngestor(embedder, store).Run(ctx, filePath, ingest.Options{
		Collection: collection,
		ChunkSize:  chunkSize,
		Append:     appendMode,
		Progress: func(done, total int) {
			if bar == nil {
				bar = progressbar.Default(int64(total), "embedding chunks")
			}
			_ = bar.Set(done)
		},
	})
	if err != nil {
		logger.Error("ingestion failed", "file", filePath, "error", err)
		os.Exit(1)
	}

	logger.Info("Ingestion complete", "collection", collection, "chunks", count)
}
