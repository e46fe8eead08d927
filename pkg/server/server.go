// Package server exposes the solve pipeline over HTTP.
//
// Routes:
//
//	GET  /healthz        liveness and build info
//	POST /v1/solve       solve a network, returns a [pipeline.Result]
//	POST /v1/distances   distance table of a network from a start node
//	POST /v1/render      diagram of a network (dot or svg)
//
// Request bodies carry the network in canonical JSON form, the same shape
// [scan.ReadJSON] accepts. Errors are returned as {"error": ..., "code": ...}
// with 400 for invalid input, 422 for configuration errors (missing start
// node, too many positive-rate nodes) and 500 otherwise.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/ventgraph/pkg/observability"
	"github.com/matzehuels/ventgraph/pkg/pipeline"
)

const (
	// DefaultMaxBody caps request bodies.
	DefaultMaxBody = 4 << 20

	// DefaultMaxSplitPositives caps the positive-rate nodes a request may
	// split between two agents. The split is exponential in this count.
	DefaultMaxSplitPositives = 24
)

// Server serves the HTTP API. It holds no per-request state; one Server
// handles concurrent requests.
type Server struct {
	runner   *pipeline.Runner
	logger   *log.Logger
	router   chi.Router
	maxBody  int64
	maxSplit int
	timeout  time.Duration
}

// Option configures a Server.
type Option func(*Server)

// WithMaxBody sets the request body limit in bytes.
func WithMaxBody(n int64) Option { return func(s *Server) { s.maxBody = n } }

// WithMaxSplitPositives sets the split size limit. Zero or less lifts it.
func WithMaxSplitPositives(n int) Option { return func(s *Server) { s.maxSplit = max(n, 0) } }

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option { return func(s *Server) { s.timeout = d } }

// New returns a server backed by runner. A nil logger uses the runner's.
func New(runner *pipeline.Runner, logger *log.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = runner.Logger
	}
	s := &Server{
		runner:   runner,
		logger:   logger,
		maxBody:  DefaultMaxBody,
		maxSplit: DefaultMaxSplitPositives,
		timeout:  time.Minute,
	}
	for _, o := range opts {
		o(s)
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.instrument)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.timeout))

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.AllowContentType("application/json"))
		r.Post("/solve", s.handleSolve)
		r.Post("/distances", s.handleDistances)
		r.Post("/render", s.handleRender)
	})
	return r
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return ctx.Err()
}

// instrument logs every request and reports it to the HTTP hooks.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		hooks := observability.HTTP()
		hooks.OnRequest(ctx, r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		d := time.Since(start)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		hooks.OnResponse(ctx, r.Method, r.URL.Path, status, d)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", d,
			"request_id", middleware.GetReqID(ctx))
	})
}
