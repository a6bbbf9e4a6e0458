package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "method", "status"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"route", "method"},
	)

	EmbeddingRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "embedding_requests_total",
			Help: "Total number of embedding backend requests by outcome",
		},
		[]string{"outcome"},
	)
	EmbeddingRequestDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "embedding_request_duration_seconds",
			Help:    "Embedding backend request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
	)
	EmbeddingCacheHitsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "embedding_cache_hits_total",
			Help: "Total number of embedding cache hits",
		},
	)
	EmbeddingCacheMissesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "embedding_cache_misses_total",
			Help: "Total number of embedding cache misses",
		},
	)

	AnalysesCompletedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "analyses_completed_total",
			Help: "Total number of analyses completed",
		},
	)
	AnalysesFailedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "analyses_failed_total",
			Help: "Total number of analyses rejected before scoring",
		},
	)
	SemanticFallbacksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "semantic_fallbacks_total",
			Help: "Total number of analyses that fell back to lexical scoring",
		},
	)

	// Outcome distributions
	MatchScoreHistogram = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "analysis_match_score",
			Help:    "Distribution of final match scores ([0,100])",
			Buckets: []float64{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		},
	)
	ShortlistProbabilityHistogram = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "analysis_shortlist_probability",
			Help:    "Distribution of shortlist probabilities ([5,98])",
			Buckets: []float64{5, 10, 20, 30, 40, 50, 60, 70, 80, 90, 98},
		},
	)
)

func InitMetrics() {
	prometheus.MustRegister(HTTPRequestsTotal)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(EmbeddingRequestsTotal)
	prometheus.MustRegister(EmbeddingRequestDuration)
	prometheus.MustRegister(EmbeddingCacheHitsTotal)
	prometheus.MustRegister(EmbeddingCacheMissesTotal)
	prometheus.MustRegister(AnalysesCompletedTotal)
	prometheus.MustRegister(AnalysesFailedTotal)
	prometheus.MustRegister(SemanticFallbacksTotal)
	prometheus.MustRegister(MatchScoreHistogram)
	prometheus.MustRegister(ShortlistProbabilityHistogram)
}

// ObserveAnalysis records outcome distributions for one completed analysis.
func ObserveAnalysis(matchScore int, shortlistProbability float64) {
	AnalysesCompletedTotal.Inc()
	MatchScoreHistogram.Observe(float64(matchScore))
	ShortlistProbabilityHistogram.Observe(shortlistProbability)
}

// HTTPMetricsMiddleware records Prometheus metrics for each request.
func HTTPMetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		dur := time.Since(start).Seconds()
		// Route pattern may be unavailable outside chi router; guard nil
		var route string
		if rc := chi.RouteContext(r.Context()); rc != nil {
			route = rc.RoutePattern()
		}
		if route == "" {
			route = r.URL.Path
		}
		HTTPRequestsTotal.WithLabelValues(route, r.Method, strconv.Itoa(ww.Status())).Inc()
		HTTPRequestDuration.WithLabelValues(route, r.Method).Observe(dur)
	})
}
