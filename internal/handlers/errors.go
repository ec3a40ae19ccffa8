package handlers

import (
	"errors"
	"net/http"

	"github.com/avasani/visarag/internal/rag/embedding"
	"github.com/avasani/visarag/internal/rag/llm"
	"github.com/avasani/visarag/internal/rag/vectordb"
)

// Client-visible error codes. Each entry of the pipeline's failure taxonomy
// maps to exactly one of these, so callers can tell a misconfigured store
// from a flaky provider without parsing messages.
const (
	CodeBadRequest         = "BAD_REQUEST"
	CodeEmbeddingFailure   = "EMBEDDING_FAILURE"
	CodeGenerationFailure  = "GENERATION_FAILURE"
	CodeStoreUnavailable   = "VECTOR_STORE_UNAVAILABLE"
	CodeCollectionNotFound = "COLLECTION_NOT_FOUND"
	CodeInternal           = "INTERNAL"
)

// mapPipelineError translates a pipeline failure into an HTTP status and a
// stable code. The refusal answer is not an error and never reaches this.
func mapPipelineError(err error) (int, string, string) {
	switch {
	case errors.Is(err, embedding.ErrService):
		return http.StatusBadGateway, CodeEmbeddingFailure, "embedding provider failed"
	case errors.Is(err, llm.ErrService):
		return http.StatusBadGateway, CodeGenerationFailure, "chat completion provider failed"
	case errors.Is(err, vectordb.ErrCollectionNotFound):
		return http.StatusServiceUnavailable, CodeCollectionNotFound, "collection is not populated; run ingestion first"
	case errors.Is(err, vectordb.ErrUnavailable), errors.Is(err, vectordb.ErrDimensionMismatch):
		return http.StatusServiceUnavailable, CodeStoreUnavailable, "vector store unavailable"
	default:
		return http.StatusInternalServerError, CodeInternal, "internal server error"
	}
}
