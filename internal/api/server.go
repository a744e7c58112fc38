// Package api serves the derived views as JSON.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gustycube/neoview/internal/catalog"
	"github.com/gustycube/neoview/internal/logging"
	"github.com/gustycube/neoview/internal/metrics"
	"github.com/gustycube/neoview/internal/neo"
	"github.com/gustycube/neoview/internal/rate"
)

// Snapshotter exposes the current dataset. Current may return nil.
type Snapshotter interface {
	Current() *neo.Dataset
}

// Refresher loads a new dataset from the source.
type Refresher interface {
	Reload(ctx context.Context) (*neo.Dataset, error)
}

// Server holds the HTTP server and its dependencies.
type Server struct {
	httpServer *http.Server
	snapshots  Snapshotter
	refresher  Refresher
	catalog    *catalog.Catalog
	log        *logging.Logger
}

// NewServer creates a configured HTTP server. limiter may be nil.
func NewServer(addr string, snapshots Snapshotter, refresher Refresher, cat *catalog.Catalog, limiter *rate.PerClient, log *logging.Logger) *Server {
	s := &Server{
		snapshots: snapshots,
		refresher: refresher,
		catalog:   cat,
		log:       log,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/charts", s.handleCharts)
	mux.HandleFunc("GET /api/views", s.handleViews)
	mux.HandleFunc("GET /api/views/{chart}", s.handleView)
	mux.HandleFunc("GET /api/summary", s.handleSummary)
	mux.HandleFunc("GET /api/stats", s.handleStats)
	mux.HandleFunc("GET /api/top", s.handleTop)
	mux.HandleFunc("POST /api/refresh", s.handleRefresh)

	// metrics -> logging -> limiter -> mux
	var handler http.Handler = mux
	if limiter != nil {
		handler = limiter.Middleware(handler)
	}
	handler = loggingMiddleware(log)(handler)
	handler = metrics.Middleware(handler)

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

// Handler returns the full middleware chain.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// HTTPServer returns the underlying *http.Server for shutdown.
func (s *Server) HTTPServer() *http.Server {
	return s.httpServer
}

func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.statusCode = code
	sr.ResponseWriter.WriteHeader(code)
}

func loggingMiddleware(log *logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sr := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(sr, r)

			log.Debugw("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", sr.statusCode,
				"duration_ms", time.Since(start).Milliseconds(),
				"remote_ip", rate.ClientIP(r),
			)
		})
	}
}
