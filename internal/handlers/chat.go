package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/avasani/visarag/internal/api"
	"github.com/avasani/visarag/internal/config"
	"github.com/avasani/visarag/internal/rag"
	"github.com/avasani/visarag/pkg/logging"
)

const serviceName = "UK Global Talent Visa RAG API"

// Handler owns the HTTP endpoints. It only talks to the rag.Service; the
// retriever and the provider stay behind that interface.
type Handler struct {
	service rag.Service
	logger  *logging.Logger
}

func New(service rag.Service) *Handler {
	return &Handler{
		service: service,
		logger:  logging.NewLogger("handlers"),
	}
}

// Health is the fixed probe on GET /.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, api.HealthResponse{
		Status:  "healthy",
		Service: serviceName,
	})
}

// Chat answers POST /chat. A refusal is a normal 200 answer; only service
// failures produce error responses.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	traceID, _ := r.Context().Value(config.TraceIDKey).(string)
	log := h.logger.With("traceId", traceID)

	var req api.ChatRequest
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("undecodable chat request", "error", err)
		writeError(w, http.StatusBadRequest, CodeBadRequest, "body must be JSON with a message field", traceID)
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "message must not be empty", traceID)
		return
	}

	answer, err := h.service.Answer(r.Context(), req.Message, req.TopK)
	if err != nil {
		status, code, message := mapPipelineError(err)
		log.Error("chat pipeline failed", "code", code, "error", err)
		writeError(w, status, code, message, traceID)
		return
	}

	writeJSON(w, http.StatusOK, api.ChatResponse{
		Question: req.Message,
		Answer:   answer,
	})
}

func writeJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logging.NewLogger("handlers").Error("error encoding response", "error", err)
	}
}

func writeError(w http.ResponseWriter, statusCode int, code, message, traceID string) {
	writeJSON(w, statusCode, api.ErrorResponse{
		Code:    code,
		Message: message,
		TraceID: traceID,
	})
}
