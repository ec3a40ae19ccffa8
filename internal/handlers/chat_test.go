package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/avasani/visarag/internal/api"
	"github.com/avasani/visarag/internal/config"
	"github.com/avasani/visarag/internal/rag/embedding"
	"github.com/avasani/visarag/internal/rag/llm"
	"github.com/avasani/visarag/internal/rag/vectordb"
)

type stubService struct {
	OnAnswer func(ctx context.Context, question string, topK int) (string, error)
}

func (s *stubService) Answer(ctx context.Context, question string, topK int) (string, error) {
	return s.OnAnswer(ctx, question, topK)
}

func TestHealth(t *testing.T) {
	h := New(&stubService{})

	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var resp api.HealthResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding health response: %v", err)
	}
	if resp.Status != "healthy" {
		t.Errorf("status = %q, want %q", resp.Status, "healthy")
	}
	if resp.Service != serviceName {
		t.Errorf("service = %q, want %q", resp.Service, serviceName)
	}
}

func TestChat(t *testing.T) {
	pipelineErr := func(err error) func(context.Context, string, int) (string, error) {
		return func(context.Context, string, int) (string, error) {
			return "", fmt.Errorf("answering: %w", err)
		}
	}

	tests := []struct {
		name       string
		body       string
		answer     func(ctx context.Context, question string, topK int) (string, error)
		wantStatus int
		wantCode   string
		wantAnswer string
	}{
		{
			name: "successful answer",
			body: `{"message": "What is the endorsement requirement?"}`,
			answer: func(_ context.Context, question string, _ int) (string, error) {
				return "An endorsement from a recognized body is required.", nil
			},
			wantStatus: http.StatusOK,
			wantAnswer: "An endorsement from a recognized body is required.",
		},
		{
			name: "refusal is a normal answer",
			body: `{"message": "What is the capital of France?"}`,
			answer: func(context.Context, string, int) (string, error) {
				return llm.RefusalAnswer, nil
			},
			wantStatus: http.StatusOK,
			wantAnswer: llm.RefusalAnswer,
		},
		{
			name:       "malformed json",
			body:       `{"message": `,
			wantStatus: http.StatusBadRequest,
			wantCode:   CodeBadRequest,
		},
		{
			name:       "empty message",
			body:       `{"message": "   "}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   CodeBadRequest,
		},
		{
			name:       "empty collection maps to a stable code",
			body:       `{"message": "Tell me about fees"}`,
			answer:     pipelineErr(vectordb.ErrCollectionNotFound),
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   CodeCollectionNotFound,
		},
		{
			name:       "vector store down",
			body:       `{"message": "Tell me about fees"}`,
			answer:     pipelineErr(vectordb.ErrUnavailable),
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   CodeStoreUnavailable,
		},
		{
			name:       "embedding provider failure",
			body:       `{"message": "Tell me about fees"}`,
			answer:     pipelineErr(embedding.ErrService),
			wantStatus: http.StatusBadGateway,
			wantCode:   CodeEmbeddingFailure,
		},
		{
			name:       "chat completion failure",
			body:       `{"message": "Tell me about fees"}`,
			answer:     pipelineErr(llm.ErrService),
			wantStatus: http.StatusBadGateway,
			wantCode:   CodeGenerationFailure,
		},
		{
			name:       "unclassified failure",
			body:       `{"message": "Tell me about fees"}`,
			answer:     pipelineErr(errors.New("boom")),
			wantStatus: http.StatusInternalServerError,
			wantCode:   CodeInternal,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := New(&stubService{OnAnswer: tc.answer})

			req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(tc.body))
			req = req.WithContext(context.WithValue(req.Context(), config.TraceIDKey, "trace-123"))
			rec := httptest.NewRecorder()

			h.Chat(rec, req)

			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tc.wantStatus, rec.Body.String())
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q, want application/json", ct)
			}

			if tc.wantCode != "" {
				var resp api.ErrorResponse
				if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
					t.Fatalf("decoding error response: %v", err)
				}
				if resp.Code != tc.wantCode {
					t.Errorf("code = %q, want %q", resp.Code, tc.wantCode)
				}
				if resp.TraceID != "trace-123" {
					t.Errorf("traceId = %q, want %q", resp.TraceID, "trace-123")
				}
				return
			}

			var resp api.ChatResponse
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("decoding chat response: %v", err)
			}
			if resp.Answer != tc.wantAnswer {
				t.Errorf("answer = %q, want %q", resp.Answer, tc.wantAnswer)
			}
		})
	}
}

func TestChat_EchoesQuestion(t *testing.T) {
	h := New(&stubService{OnAnswer: func(_ context.Context, question string, _ int) (string, error) {
		return "ok", nil
	}})

	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"message": "How long is the visa valid?"}`))
	rec := httptest.NewRecorder()
	h.Chat(rec, req)

	var resp api.ChatResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding chat response: %v", err)
	}
	if resp.Question != "How long is the visa valid?" {
		t.Errorf("question = %q, want the request message echoed back", resp.Question)
	}
}
