package server

import (
	"context"
	"errors"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/avasani/visarag/internal/config"
	"github.com/avasani/visarag/internal/handlers"
	"github.com/avasani/visarag/internal/middleware"
	"github.com/avasani/visarag/pkg/logging"
)

// Server wraps the http.Server lifecycle: route wiring, serve, graceful
// shutdown.
type Server struct {
	httpServer *http.Server
	cfg        config.ServerConfig
	logger     *logging.Logger
}

func New(cfg config.ServerConfig, handler *handlers.Handler) *Server {
	r := chi.NewRouter()
	r.Use(middleware.Trace)
	r.Use(middleware.Metrics)
	r.Use(middleware.CORS(cfg.CORSAllowOrigins))
	r.Use(middleware.BearerAuth(cfg.AuthToken))
	r.Use(middleware.RateLimit(middleware.NewIPRateLimiter(rate.Limit(cfg.RateLimitPerSecond), cfg.RateLimitBurst)))

	r.Get("/", handler.Health)
	r.Post("/chat", handler.Chat)
	r.Handle("/metrics", promhttp.Handler())

	return &Server{
		httpServer: &http.Server{
			Addr:         cfg.ListenAddr,
			Handler:      r,
			ReadTimeout:  cfg.ReadTimeout(),
			WriteTimeout: cfg.WriteTimeout(),
			IdleTimeout:  cfg.IdleTimeout(),
		},
		cfg:    cfg,
		logger: logging.NewLogger("server"),
	}
}

func (s *Server) ListenAndServe() {
	s.logger.Info("Server is listening", "address", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.logger.Error("Server crashed", "error", err, "addr", s.httpServer.Addr)
	}
}

// ShutdownParams bundles the channels main uses to coordinate teardown.
type ShutdownParams struct {
	GracefulShutdown chan os.Signal
	StopExecution    chan bool
	CloseServices    context.CancelFunc
}

// ShutdownHandler drains in-flight requests, then cancels the service
// context so the qdrant and redis clients close.
func (s *Server) ShutdownHandler(params ShutdownParams) {
	sig := <-params.GracefulShutdown
	s.logger.Info("Server is shutting down", "signal", sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout())
	defer cancel()

	done := make(chan struct{})
	go func() {
		s.httpServer.SetKeepAlivesEnabled(false)
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.logger.Error("could not shut down gracefully", "error", err)
		}
		params.CloseServices()
		close(params.StopExecution)
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Graceful shutdown complete")
	case <-ctx.Done():
		s.logger.Info("Forced shutdown")
		os.Exit(1)
	}
}
