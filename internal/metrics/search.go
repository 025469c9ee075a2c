package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search Prometheus metrics.
var (
	SourceFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cookfind",
			Name:      "source_failures_total",
			Help:      "Fetcher failures and timeouts during unified search",
		},
		[]string{"kind"},
	)

	FetchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "cookfind",
			Name:      "fetch_duration_seconds",
			Help:      "Per-kind fetch duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"kind"},
	)

	CursorDecodeFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "cookfind",
			Name:      "cursor_decode_failures_total",
			Help:      "Continuation tokens rejected and restarted from the first page",
		},
	)

	DegradedResponsesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "cookfind",
			Name:      "degraded_responses_total",
			Help:      "Search pages served with at least one failed source",
		},
	)

	CacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cookfind",
			Name:      "cache_total",
			Help:      "Cache hits, misses and errors",
		},
		[]string{"cache", "result"}, // cache: "page" / "candidates"; result: "hit" / "miss" / "error"
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers Prometheus search metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SourceFailuresTotal)
	prometheus.MustRegister(FetchDuration)
	prometheus.MustRegister(CursorDecodeFailuresTotal)
	prometheus.MustRegister(DegradedResponsesTotal)
	prometheus.MustRegister(CacheTotal)
	searchMetricsRegistered = true
}
