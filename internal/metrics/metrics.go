// Package metrics exposes Prometheus metrics for search and HTTP traffic.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gitscout",
			Name:      "search_requests_total",
			Help:      "Total number of search requests",
		},
		[]string{"mode", "status"},
	)

	SearchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "gitscout",
			Name:      "search_duration_seconds",
			Help:      "Search request duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"mode"},
	)

	IndexedItemsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gitscout",
			Name:      "indexed_items_total",
			Help:      "Total number of items written to the indices",
		},
		[]string{"item_type"},
	)
)

var registered bool

// Register registers the search metrics. Must be called once from main.
func Register() {
	if registered {
		return
	}
	prometheus.MustRegister(SearchRequestsTotal)
	prometheus.MustRegister(SearchDuration)
	prometheus.MustRegister(IndexedItemsTotal)
	registered = true
}
