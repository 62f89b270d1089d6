// Package server is orbit's HTTP API.
//
// It hosts live layout sessions (create, reconcile, resize, drag, reset,
// poll positions), headless settle-and-render requests, snapshot lookups
// and the Prometheus endpoint. Every error is answered as JSON with the
// status derived from its error code.
package server

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/orbit/pkg/layout/force"
	"github.com/matzehuels/orbit/pkg/observability"
	"github.com/matzehuels/orbit/pkg/session"
	"github.com/matzehuels/orbit/pkg/settle"
	"github.com/matzehuels/orbit/pkg/source"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 8 << 20

// Options configures a [Server].
type Options struct {
	Registry *session.Registry // required
	Runner   *settle.Runner    // defaults to an uncached runner
	Source   source.Source     // optional; enables /api/snapshots and by-name sessions
	Metrics  http.Handler      // optional; served on /metrics
	Canvas   force.Size        // canvas for sessions that do not name one
	Version  string
	Logger   *log.Logger
}

// Server is the orbit HTTP API server.
type Server struct {
	sessions *session.Registry
	runner   *settle.Runner
	source   source.Source
	metrics  http.Handler
	canvas   force.Size
	version  string
	logger   *log.Logger
	started  time.Time
	router   chi.Router
}

// New creates a Server.
func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Runner == nil {
		opts.Runner = settle.NewRunner(nil, nil, opts.Logger)
	}
	if opts.Canvas == (force.Size{}) {
		opts.Canvas = force.Size{Width: settle.DefaultWidth, Height: settle.DefaultHeight}
	}
	s := &Server{
		sessions: opts.Registry,
		runner:   opts.Runner,
		source:   opts.Source,
		metrics:  opts.Metrics,
		canvas:   opts.Canvas,
		version:  opts.Version,
		logger:   opts.Logger,
		started:  time.Now(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(s.observe)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Get("/sessions", s.handleListSessions)
		r.Post("/sessions", s.handleCreateSession)
		r.Route("/sessions/{sessionID}", func(r chi.Router) {
			r.Get("/", s.handleGetSession)
			r.Delete("/", s.handleDeleteSession)
			r.Get("/positions", s.handlePositions)
			r.Put("/nodes", s.handleReconcile)
			r.Put("/canvas", s.handleResize)
			r.Post("/drag/{nodeID}", s.handleDrag)
			r.Post("/reset", s.handleReset)
		})

		r.Post("/settle", s.handleSettle)

		r.Get("/snapshots", s.handleListSnapshots)
		r.Get("/snapshots/{name}", s.handleGetSnapshot)
	})

	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}

	s.router = r
}

// observe reports every response to the HTTP hooks, labelled by route
// pattern rather than raw path, and logs it.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		d := time.Since(start)
		observability.HTTP().OnResponse(r.Context(), r.Method, route, status, d)
		s.logger.Debug("request", "method", r.Method, "route", route, "status", status, "duration", d)
	})
}
