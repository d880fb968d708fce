package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "spectrum_cache_hits_total",
		Help: "The total number of cache hits",
	}, []string{"type"})

	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "spectrum_cache_misses_total",
		Help: "The total number of cache misses",
	}, []string{"type"})

	CacheEvictions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "spectrum_cache_evictions_total",
		Help: "The total number of cache evictions",
	}, []string{"type"})

	ArticlesFetched = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "spectrum_articles_fetched_total",
		Help: "The total number of article fetch attempts",
	}, []string{"status"})

	AIRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "spectrum_ai_request_duration_seconds",
		Help:    "Duration of AI provider requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"provider", "task"})

	AIRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "spectrum_ai_requests_total",
		Help: "The total number of AI provider requests",
	}, []string{"provider", "task", "status"})

	AggregatorRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "spectrum_aggregator_requests_total",
		Help: "The total number of news aggregator requests",
	}, []string{"aggregator", "status"})

	AnalysesCompleted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "spectrum_analyses_total",
		Help: "The total number of completed article analyses",
	}, []string{"provider", "cached"})

	ComparisonsCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "spectrum_comparisons_total",
		Help: "The total number of completed multi-article comparisons",
	})

	ComparisonDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "spectrum_comparison_duration_seconds",
		Help:    "Duration of multi-article comparisons",
		Buckets: []float64{1, 2, 5, 10, 20, 30, 60, 120},
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "spectrum_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method", "status"})
)
