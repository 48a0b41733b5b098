package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	CacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "catalog",
		Name:      "movie_cache_hits_total",
		Help:      "Total number of detail-cache hits.",
	})

	CacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "catalog",
		Name:      "movie_cache_misses_total",
		Help:      "Total number of detail-cache misses.",
	})

	SearchesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "catalog",
		Name:      "searches_total",
		Help:      "Total searches by result classification.",
	}, []string{"type"})

	SearchDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "catalog",
		Name:      "search_duration_seconds",
		Help:      "End-to-end search planning and ranking duration in seconds.",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.3, 0.5, 1, 2, 5},
	})

	DownloadIncrementsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "catalog",
		Name:      "download_increments_total",
		Help:      "Total download-counter increments.",
	})
)

func Register(reg prometheus.Registerer) {
	reg.MustRegister(
		CacheHitsTotal,
		CacheMissesTotal,
		SearchesTotal,
		SearchDuration,
		DownloadIncrementsTotal,
	)
}
