package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search Prometheus metrics.
var (
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "forumsearch",
			Name:      "search_requests_total",
			Help:      "Total number of searches",
		},
		[]string{"domain", "outcome"},
	)

	SearchRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "forumsearch",
			Name:      "search_duration_seconds",
			Help:      "Search duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"domain"},
	)

	SearchFastPathTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "forumsearch",
			Name:      "search_fast_path_total",
			Help:      "Searches that skipped hydration, filtering and sorting",
		},
	)

	SearchBookmarkBatchesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "forumsearch",
			Name:      "search_bookmark_batches_total",
			Help:      "Bookmark batches scanned by bookmark searches",
		},
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers Prometheus search metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchRequestsTotal)
	prometheus.MustRegister(SearchRequestDuration)
	prometheus.MustRegister(SearchFastPathTotal)
	prometheus.MustRegister(SearchBookmarkBatchesTotal)
	searchMetricsRegistered = true
}
