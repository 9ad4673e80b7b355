// Package api serves the layout engine over HTTP.
//
// # Routes
//
//	GET  /healthz             liveness and build information
//	GET  /v1/schemes          named colour schemes
//	GET  /v1/examples         bundled datasets
//	GET  /v1/examples/{id}    one dataset, ?format=json|csv|tsv
//	GET  /v1/stats            cache and request counters
//	POST /v1/layout           geometry payload for a flow graph
//	POST /v1/render           rendered artifact, ?format=svg|png|pdf|json|dot|nodelink
//
// Both POST routes take a JSON body:
//
//	{
//	  "data": "source,target,value\nA,B,10",
//	  "format": "csv",
//	  "options": {"layout": {"width": 800}, "style": {"palette": "ocean"}}
//	}
//
// data is either a string holding JSON, CSV or TSV text, or a JSON graph
// object. Errors are reported as
//
//	{"code": "VALIDATION_ERROR", "kind": "validation", "message": "...", "suggestion": "...", "request_id": "..."}
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/singleflight"

	"github.com/matzehuels/sankeyflow/pkg/config"
	"github.com/matzehuels/sankeyflow/pkg/observability"
	"github.com/matzehuels/sankeyflow/pkg/pipeline"
)

// Options configures a Server.
type Options struct {
	// Runner executes pipeline stages. Nil means an uncached runner.
	Runner *pipeline.Runner

	// Logger receives access and error logs. Nil means log.Default().
	Logger *log.Logger

	// Config holds the listen address, timeouts and body limit. Zero
	// fields fall back to the config package defaults.
	Config config.Server

	// Defaults are the pipeline options every request starts from.
	// The zero value means pipeline.DefaultOptions().
	Defaults *pipeline.Options

	// Counters, when set, is exposed at /v1/stats.
	Counters *observability.Counters
}

// Server is the HTTP API. It is safe for concurrent use.
type Server struct {
	runner   *pipeline.Runner
	logger   *log.Logger
	cfg      config.Server
	defaults pipeline.Options
	counters *observability.Counters
	layouts  singleflight.Group
	router   chi.Router
}

// New builds a Server and its routes.
func New(opts Options) *Server {
	s := &Server{
		runner:   opts.Runner,
		logger:   opts.Logger,
		cfg:      opts.Config,
		counters: opts.Counters,
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	if s.runner == nil {
		s.runner = pipeline.NewRunner(nil, nil, s.logger)
	}
	if opts.Defaults != nil {
		s.defaults = *opts.Defaults
	} else {
		s.defaults = pipeline.DefaultOptions()
	}

	d := config.Default().Server
	if s.cfg.Addr == "" {
		s.cfg.Addr = d.Addr
	}
	if s.cfg.ReadTimeout.Duration <= 0 {
		s.cfg.ReadTimeout = d.ReadTimeout
	}
	if s.cfg.WriteTimeout.Duration <= 0 {
		s.cfg.WriteTimeout = d.WriteTimeout
	}
	if s.cfg.MaxBodyBytes <= 0 {
		s.cfg.MaxBodyBytes = d.MaxBodyBytes
	}

	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(requestID)
	r.Use(s.accessLog)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.cfg.WriteTimeout.Duration))

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/schemes", s.handleSchemes)
		r.Get("/examples", s.handleExamples)
		r.Get("/examples/{id}", s.handleExample)
		if s.counters != nil {
			r.Get("/stats", s.handleStats)
		}
		r.Post("/layout", s.handleLayout)
		r.Post("/render", s.handleRender)
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, r, notFound("no route for %s %s", r.Method, r.URL.Path))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, r, &statusError{status: http.StatusMethodNotAllowed,
			msg: r.Method + " is not allowed on " + r.URL.Path})
	})
	return r
}

// Handler returns the root handler, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.router }

// Addr returns the configured listen address.
func (s *Server) Addr() string { return s.cfg.Addr }

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadTimeout:       s.cfg.ReadTimeout.Duration,
		ReadHeaderTimeout: s.cfg.ReadTimeout.Duration,
		WriteTimeout:      s.cfg.WriteTimeout.Duration + 5*time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errc
}
