package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/avasani/visarag/internal/config"
	"github.com/avasani/visarag/internal/metrics"
	"github.com/avasani/visarag/pkg/logging"
)

// Trace honors an inbound X-Trace-Id or mints one, and parks it on the
// request context for every downstream logger.
func Trace(next http.Handler) http.Handler {
	logger := logging.NewLogger("middleware")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		trace := r.Header.Get("X-Trace-Id")
		if trace == "" {
			trace = uuid.New().String()
		}
		w.Header().Set("X-Trace-Id", trace)
		ctx := context.WithValue(r.Context(), config.TraceIDKey, trace)
		logger.Debug("request received", "traceId", trace, "path", r.URL.Path)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Metrics counts every request by path and final status.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &metrics.HttpStatusRecorder{ResponseWriter: w, Status: http.StatusOK}
		next.ServeHTTP(rec, r)
		metrics.HttpRequestsTotal.WithLabelValues(r.URL.Path, strconv.Itoa(rec.Status)).Inc()
	})
}

// CORS answers preflights and stamps the allow headers. Defaults to fully
// open; restrict the origin list in production.
func CORS(allowOrigins []string) func(http.Handler) http.Handler {
	origins := strings.Join(allowOrigins, ", ")
	if origins == "" {
		origins = "*"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", origins)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Trace-Id")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
