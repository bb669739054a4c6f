// ABOUTME: HTTP check service exposing the markup validation pass over a chi router.
// ABOUTME: Assigns ULID request ids and logs each request via slog with method, path, status, and duration.
package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/oklog/ulid/v2"
)

// Option configures optional Server behavior.
type Option func(*Server)

// WithVoidElements marks additional tag names as void elements for every
// check handled by this server.
func WithVoidElements(names ...string) Option {
	return func(s *Server) {
		s.voidTags = append(s.voidTags, names...)
	}
}

// Server wires the check pass into an HTTP API. The service is stateless:
// each request is compiled independently, matching the per-template
// isolation of the underlying pass.
type Server struct {
	router   chi.Router
	logger   *slog.Logger
	voidTags []string
}

// New creates a Server with all routes configured. A nil logger falls back
// to slog.Default().
func New(logger *slog.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		router: chi.NewRouter(),
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.routes()
	return s
}

// Handler returns the root http.Handler for the service.
func (s *Server) Handler() http.Handler {
	return s.router
}

// routes configures all endpoints.
func (s *Server) routes() {
	s.router.Use(s.requestLogger)
	s.router.Get("/healthz", s.handleHealth)
	s.router.Post("/v1/check", s.handleCheck)
}

// handleHealth reports service liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// statusRecorder captures the response status code for request logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// requestLogger assigns each request a ULID and logs its outcome.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := ulid.Make()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(rec, r)

		s.logger.Info("request",
			"id", id.String(),
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}
