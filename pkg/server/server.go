// Package server exposes the treemap pipeline over HTTP.
//
// Routes:
//
//	POST   /api/trees               upload a JSON tree, returns its ID
//	GET    /api/trees/{id}          the uploaded tree
//	DELETE /api/trees/{id}          forget an uploaded tree
//	GET    /api/trees/{id}/layout   lay out and render an uploaded tree
//	GET    /healthz                 liveness and build version
//	GET    /metrics                 Prometheus metrics
//
// Uploaded trees are kept in the runner's cache, so the server needs a real
// backend (file or redis); with a null cache every lookup misses.
//
// The layout route accepts the query parameters width, height, depth,
// start, border, palette and format (json, svg, png or dot). A client
// that disconnects cancels the running layout.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/treemap/pkg/buildinfo"
	"github.com/matzehuels/treemap/pkg/errors"
	"github.com/matzehuels/treemap/pkg/pipeline"
)

// DefaultMaxUploadBytes limits the size of uploaded trees.
const DefaultMaxUploadBytes = 32 << 20

// Config configures a [Server].
type Config struct {
	// Runner executes layouts and stores uploads in its cache. Required.
	Runner *pipeline.Runner

	// Defaults supplies option values that requests leave unset, such as
	// size and palette.
	Defaults pipeline.Options

	// Gatherer serves /metrics. Nil means prometheus.DefaultGatherer.
	Gatherer prometheus.Gatherer

	// MaxUploadBytes limits upload bodies. Zero means DefaultMaxUploadBytes.
	MaxUploadBytes int64

	// Timeout bounds each request. Zero disables the limit.
	Timeout time.Duration

	// Logger receives request logs. Nil uses the runner's logger.
	Logger *log.Logger
}

// Server is the HTTP front end of the pipeline.
type Server struct {
	cfg    Config
	router chi.Router
}

// New creates a server and registers its routes.
func New(cfg Config) *Server {
	if cfg.Gatherer == nil {
		cfg.Gatherer = prometheus.DefaultGatherer
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if cfg.Logger == nil {
		cfg.Logger = cfg.Runner.Logger
	}

	s := &Server{cfg: cfg}
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	if cfg.Timeout > 0 {
		r.Use(middleware.Timeout(cfg.Timeout))
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, health{Status: "ok", Info: buildinfo.Get()})
	})
	r.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))

	r.Route("/api/trees", func(r chi.Router) {
		r.Post("/", s.uploadTree)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.getTree)
			r.Delete("/", s.deleteTree)
			r.Get("/layout", s.layoutTree)
		})
	})

	s.router = r
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.cfg.Logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.cfg.Logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.cfg.Logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type health struct {
	Status string `json:"status"`
	buildinfo.Info
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.HTTPStatus(err)
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	if status >= http.StatusInternalServerError {
		s.cfg.Logger.Error("request failed", "path", r.URL.Path, "error", err)
	}
	writeJSON(w, status, errorResponse{Error: string(code), Message: errors.UserMessage(err)})
}
