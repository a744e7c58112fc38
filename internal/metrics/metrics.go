package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/gustycube/neoview/internal/health"
)

var (
	IngestionsTotal     = prometheus.NewCounterVec(prometheus.CounterOpts{Name: "neoview_ingestions_total", Help: "dataset loads by result"}, []string{"result"})
	FeedRequestsTotal   = prometheus.NewCounterVec(prometheus.CounterOpts{Name: "neoview_feed_requests_total", Help: "requests to the source feed by outcome"}, []string{"outcome"})
	FeedRequestDuration = prometheus.NewHistogram(prometheus.HistogramOpts{Name: "neoview_feed_request_duration_seconds", Help: "source feed request latency", Buckets: prometheus.DefBuckets})
	CacheLookupsTotal   = prometheus.NewCounterVec(prometheus.CounterOpts{Name: "neoview_cache_lookups_total", Help: "payload cache lookups"}, []string{"result"})
	DatasetRecords      = prometheus.NewGauge(prometheus.GaugeOpts{Name: "neoview_dataset_records", Help: "records in the current dataset"})
	DatasetHazardous    = prometheus.NewGauge(prometheus.GaugeOpts{Name: "neoview_dataset_hazardous_records", Help: "hazardous records in the current dataset"})
	DatasetAge          = prometheus.NewGauge(prometheus.GaugeOpts{Name: "neoview_dataset_age_seconds", Help: "seconds since the current dataset was fetched"})
	ViewBuildsTotal     = prometheus.NewCounterVec(prometheus.CounterOpts{Name: "neoview_view_builds_total", Help: "chart views materialized"}, []string{"chart"})
	RateLimitedTotal    = prometheus.NewCounter(prometheus.CounterOpts{Name: "neoview_rate_limited_total", Help: "API requests rejected by the per-client limiter"})

	httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{Name: "neoview_http_requests_total", Help: "API requests"}, []string{"route", "method", "code"})
	httpDuration      = prometheus.NewHistogramVec(prometheus.HistogramOpts{Name: "neoview_http_duration_seconds", Help: "API request duration", Buckets: prometheus.DefBuckets}, []string{"route", "method"})
)

func init() {
	prometheus.MustRegister(
		IngestionsTotal, FeedRequestsTotal, FeedRequestDuration, CacheLookupsTotal,
		DatasetRecords, DatasetHazardous, DatasetAge, ViewBuildsTotal, RateLimitedTotal,
		httpRequestsTotal, httpDuration,
	)
}

// Handler returns the Prometheus scrape handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// NewMux serves /metrics alongside the health, readiness and liveness endpoints.
func NewMux(healthHandler *health.Handler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", healthHandler.HealthHandler)
	mux.HandleFunc("/ready", healthHandler.ReadinessHandler)
	mux.HandleFunc("/live", healthHandler.LivenessHandler)
	return mux
}

func ServeWithHealth(addr string, healthHandler *health.Handler, log *zap.SugaredLogger) {
	srv := &http.Server{
		Addr:              addr,
		Handler:           NewMux(healthHandler),
		ReadHeaderTimeout: 5 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Warnw("metrics server stopped", "err", err)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.statusCode = code
	sr.ResponseWriter.WriteHeader(code)
}

// Middleware records request count and duration per normalized route.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rec, r)

		route := normalizeRoute(r.URL.Path)
		httpRequestsTotal.WithLabelValues(route, r.Method, strconv.Itoa(rec.statusCode)).Inc()
		httpDuration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}

var knownRoutes = map[string]bool{
	"/api/charts":  true,
	"/api/views":   true,
	"/api/summary": true,
	"/api/stats":   true,
	"/api/top":     true,
	"/api/refresh": true,
}

// normalizeRoute keeps label cardinality bounded: chart names collapse to a
// single label and unknown paths to "other".
func normalizeRoute(path string) string {
	if knownRoutes[path] {
		return path
	}
	if rest, ok := strings.CutPrefix(path, "/api/views/"); ok && rest != "" && !strings.Contains(rest, "/") {
		return "/api/views/{chart}"
	}
	return "other"
}
