// Package server exposes the layout pipeline and persisted cluster state
// over HTTP.
//
// Routes:
//
//	POST /api/v1/layout                               raw graph -> positioned graph
//	GET  /api/v1/strategies                           strategy names
//	GET  /api/v1/repos/{repo}/clusters/state          saved expand/collapse flags
//	PUT  /api/v1/repos/{repo}/clusters/state          replace flags
//	POST /api/v1/repos/{repo}/clusters/{id}/toggle    flip one cluster
//	POST /api/v1/repos/{repo}/clusters/expand-all     body: ["cluster-src", ...]
//	POST /api/v1/repos/{repo}/clusters/collapse-all   body: ["cluster-src", ...]
//	GET  /healthz
//	GET  /metrics
//
// Repository identities and cluster ids contain slashes and must be
// path-escaped in URLs.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Arch-Mind/frontend-sub001/pkg/pipeline"
	"github.com/Arch-Mind/frontend-sub001/pkg/state"
)

// MaxBodyBytes bounds request bodies.
const MaxBodyBytes = 64 << 20

// Server serves the HTTP API.
type Server struct {
	Runner *pipeline.Runner
	Store  *state.Store

	// Defaults seeds the pipeline options of every layout request.
	Defaults pipeline.Options

	// CORSOrigins lists allowed origins. Empty allows all.
	CORSOrigins []string

	// Gatherer backs /metrics. Nil uses the default registry.
	Gatherer prometheus.Gatherer

	// Logger receives one line per request. Nil is silent.
	Logger *log.Logger
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(s.observe)

	origins := s.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID", HeaderCache},
		MaxAge:         300,
	}))

	r.Get("/healthz", s.healthz)
	gatherer := s.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/layout", s.layout)
		r.Get("/strategies", s.strategies)

		r.Route("/repos/{repo}/clusters", func(r chi.Router) {
			r.Get("/state", s.getState)
			r.Put("/state", s.putState)
			r.Post("/expand-all", s.setAll(true))
			r.Post("/collapse-all", s.setAll(false))
			r.Post("/{id}/toggle", s.toggle)
		})
	})
	return r
}

// ListenAndServe serves on addr until ctx ends, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if s.Logger != nil {
			s.Logger.Info("listening", "addr", addr)
		}
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	}
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) logger() *log.Logger {
	if s.Logger == nil {
		return log.NewWithOptions(io.Discard, log.Options{})
	}
	return s.Logger
}
