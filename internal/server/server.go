package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/thomas-vilte/devrecap/internal/cache"
	"github.com/thomas-vilte/devrecap/internal/logger"
	"github.com/thomas-vilte/devrecap/internal/services"
	"github.com/thomas-vilte/devrecap/internal/store"
)

const (
	DefaultAddr     = ":8080"
	maxBodyBytes    = 10 << 20
	shutdownTimeout = 10 * time.Second
	readTimeout     = 30 * time.Second
)

// Dependencies is what the HTTP layer needs from the application container.
type Dependencies interface {
	RepositoryService() (*services.RepositoryService, error)
	SearchService(ctx context.Context) (*services.SearchService, error)
	ReportService(ctx context.Context) (*services.ReportService, error)
	Store() (*store.Store, error)
	Cache() *cache.Cache
	GitHubCache() *cache.GitHubCache
}

type Server struct {
	deps     Dependencies
	addr     string
	registry *prometheus.Registry
	metrics  *metrics
	handler  http.Handler
}

type Option func(*Server)

func WithAddr(addr string) Option {
	return func(s *Server) {
		if addr != "" {
			s.addr = addr
		}
	}
}

// WithRegistry uses reg instead of a private registry.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(s *Server) {
		s.registry = reg
	}
}

func New(deps Dependencies, opts ...Option) *Server {
	s := &Server{deps: deps, addr: DefaultAddr}
	for _, opt := range opts {
		opt(s)
	}
	if s.registry == nil {
		s.registry = prometheus.NewRegistry()
	}
	s.metrics = newMetrics(s.registry, deps.Cache())
	s.handler = s.routes()
	return s
}

func (s *Server) Addr() string {
	return s.addr
}

func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) routes() http.Handler {
	router := chi.NewRouter()
	router.Use(s.instrument)

	router.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{EnableOpenMetrics: true}))
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Route("/api", func(r chi.Router) {
		r.Get("/repositories", s.handleRepositories)
		r.Post("/search", s.handleSearch)
		r.Post("/reports", s.handleReport)
		r.Post("/parse", s.handleParse)
		r.Post("/export/{format}", s.handleExport)
		r.Get("/drafts", s.handleListDrafts)
		r.Put("/drafts", s.handleSaveDraft)
		r.Get("/drafts/{id}", s.handleGetDraft)
		r.Delete("/drafts/{id}", s.handleDeleteDraft)
		r.Get("/history", s.handleHistory)
		r.Delete("/history", s.handleClearHistory)
		r.Get("/cache/stats", s.handleCacheStats)
		r.Delete("/cache", s.handleCacheClear)
	})
	return router
}

// instrument records request count and latency by route pattern, so path
// parameters do not blow up label cardinality.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		writer := &statusCapturingResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(writer, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		s.metrics.requests.WithLabelValues(route, r.Method, strconv.Itoa(writer.statusCode)).Inc()
		s.metrics.duration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())

		logger.Debug(r.Context(), "http request",
			"method", r.Method,
			"route", route,
			"status", writer.statusCode,
			"duration_ms", time.Since(start).Milliseconds())
	})
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.handler,
		ReadHeaderTimeout: readTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info(ctx, "http server listening", "addr", s.addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	logger.Info(ctx, "http server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

type statusCapturingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusCapturingResponseWriter) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}
