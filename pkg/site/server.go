package site

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/goliatone/go-formcheck/pkg/form"
	"github.com/goliatone/go-formcheck/pkg/metrics"
	"github.com/goliatone/go-formcheck/pkg/orchestrator"
)

const (
	defaultMaxBodyBytes    = 1 << 20
	defaultShutdownTimeout = 5 * time.Second
)

// Option customises a Server.
type Option func(*Server)

// WithOrchestrator supplies the form source and renderers.
func WithOrchestrator(orch *orchestrator.Orchestrator) Option {
	return func(s *Server) {
		s.orch = orch
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetricsRegistry registers the site's collectors with registry and
// serves it on /metrics.
func WithMetricsRegistry(registry *prometheus.Registry) Option {
	return func(s *Server) {
		s.registry = registry
	}
}

// WithRuntimeMetrics adds the Go runtime and process collectors.
func WithRuntimeMetrics(enabled bool) Option {
	return func(s *Server) {
		s.runtimeMetrics = enabled
	}
}

// WithCORSOrigins enables CORS for the listed origins.
func WithCORSOrigins(origins ...string) Option {
	return func(s *Server) {
		s.corsOrigins = append(s.corsOrigins, origins...)
	}
}

// WithSubmitter forwards valid server-side submissions.
func WithSubmitter(submitter form.Submitter) Option {
	return func(s *Server) {
		s.submitter = submitter
	}
}

// WithMaxBodyBytes caps submission bodies.
func WithMaxBodyBytes(limit int64) Option {
	return func(s *Server) {
		if limit > 0 {
			s.maxBodyBytes = limit
		}
	}
}

// Server hosts the forms.
type Server struct {
	orch           *orchestrator.Orchestrator
	logger         *zap.Logger
	registry       *prometheus.Registry
	runtimeMetrics bool
	collector      *metrics.Collector
	httpMetrics    *metrics.HTTP
	corsOrigins    []string
	submitter      form.Submitter
	maxBodyBytes   int64
	router         chi.Router
}

// New builds a Server and its router.
func New(options ...Option) (*Server, error) {
	s := &Server{
		logger:       zap.NewNop(),
		maxBodyBytes: defaultMaxBodyBytes,
	}
	for _, option := range options {
		if option != nil {
			option(s)
		}
	}

	if s.orch == nil {
		s.orch = orchestrator.New(orchestrator.WithLogger(s.logger))
	}
	if err := s.orch.Err(); err != nil {
		return nil, fmt.Errorf("site: %w", err)
	}
	if s.registry == nil {
		s.registry = prometheus.NewRegistry()
	}
	s.collector = metrics.NewCollector(s.registry)
	s.httpMetrics = metrics.NewHTTP(s.registry, s.runtimeMetrics)
	s.router = s.routes()
	return s, nil
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(Recoverer(s.logger))
	r.Use(s.httpMetrics.Middleware)
	r.Use(RequestLogger(s.logger))
	r.Use(CORS(s.corsOrigins))

	r.Get("/", s.pageHandler("registration"))
	r.Get("/contact", s.pageHandler("contact"))
	r.Get("/forms", s.listForms)
	r.Get("/forms/{name}", s.showForm)
	r.Post("/forms/{name}", s.submitForm)
	r.Get("/schema/{name}.json", s.showSchema)
	r.Method(http.MethodGet, "/metrics", metrics.Handler(s.registry))
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("site: listen %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if stdlog, err := zap.NewStdLogAt(s.logger, zapcore.WarnLevel); err == nil {
		srv.ErrorLog = stdlog
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Serve(ln)
	}()
	s.logger.Info("serving forms", zap.String("addr", ln.Addr().String()))

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("site: shutdown: %w", err)
		}
		s.logger.Info("server stopped gracefully")
		return nil
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("site: serve: %w", err)
		}
		return nil
	}
}
