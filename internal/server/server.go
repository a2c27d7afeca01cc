// Package server exposes the chart pipeline and stateful chart instances
// over HTTP.
//
// Stateless rendering goes through POST /v1/render. Chart instances that
// animate across requests live under /v1/charts: the server keeps each
// instance's snapshots in a [session.Store] so any replica can continue the
// transition.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/chartcore/pkg/observability"
	"github.com/matzehuels/chartcore/pkg/pipeline"
	"github.com/matzehuels/chartcore/pkg/session"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	DefaultAddr            = ":8080"
	DefaultMaxBodyBytes    = 8 << 20
	DefaultCleanupInterval = 10 * time.Minute

	shutdownTimeout = 10 * time.Second
)

// =============================================================================
// Config
// =============================================================================

// Config wires the server to its dependencies.
type Config struct {
	Runner     *pipeline.Runner
	Sessions   session.Store
	SessionTTL time.Duration
	Logger     *log.Logger

	// Gatherer serves /metrics when set.
	Gatherer prometheus.Gatherer

	MaxBodyBytes    int64
	CleanupInterval time.Duration
}

// SetDefaults fills unset fields.
func (c *Config) SetDefaults() {
	if c.Logger == nil {
		c.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if c.Runner == nil {
		c.Runner = pipeline.NewRunner(nil, nil, c.Logger)
	}
	if c.Sessions == nil {
		c.Sessions = session.NewMemoryStore()
	}
	if c.SessionTTL <= 0 {
		c.SessionTTL = session.DefaultTTL
	}
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if c.CleanupInterval <= 0 {
		c.CleanupInterval = DefaultCleanupInterval
	}
}

// =============================================================================
// Server
// =============================================================================

// Server is the chartcore HTTP API.
type Server struct {
	cfg    Config
	router chi.Router
}

// New builds a server and its routes.
func New(cfg Config) *Server {
	cfg.SetDefaults()
	s := &Server{cfg: cfg}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.instrument)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	if cfg.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/v1", func(r chi.Router) {
		r.Post("/render", s.handleRender)
		r.Post("/charts", s.handleCreate)
		r.Route("/charts/{id}", func(r chi.Router) {
			r.Get("/", s.handleGet)
			r.Delete("/", s.handleDelete)
			r.Put("/data", s.handleUpdate)
			r.Put("/scroll", s.handleScroll)
			r.Get("/frame", s.handleFrame)
			r.Post("/frame", s.handleFrame)
		})
	})

	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully. Expired sessions are swept in the background.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	if addr == "" {
		addr = DefaultAddr
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go s.sweep(ctx)

	errCh := make(chan error, 1)
	go func() {
		s.cfg.Logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.cfg.Logger.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}

// Close releases the session store and the runner's cache.
func (s *Server) Close() error {
	return errors.Join(s.cfg.Sessions.Close(), s.cfg.Runner.Close())
}

func (s *Server) sweep(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.CleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.cfg.Sessions.Cleanup(ctx); err != nil {
				s.cfg.Logger.Warn("session cleanup failed", "err", err)
			}
		}
	}
}

// instrument reports every request to the HTTP hooks under its route
// pattern.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		observability.HTTP().OnRequest(r.Context(), r.Method, "")

		defer func() {
			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				route = rctx.RoutePattern()
			}
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			observability.HTTP().OnResponse(r.Context(), r.Method, route, status, time.Since(start))
			s.cfg.Logger.Debug("request",
				"method", r.Method,
				"route", route,
				"status", status,
				"request_id", middleware.GetReqID(r.Context()),
				"duration", time.Since(start))
		}()

		next.ServeHTTP(ww, r)
	})
}
