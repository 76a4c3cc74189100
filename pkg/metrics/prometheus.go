package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all prometheus metrics for the aggregation layer.
type Metrics struct {
	SearchesTotal       prometheus.Counter
	ProviderErrors      *prometheus.CounterVec
	FallbacksTotal      prometheus.Counter
	AirportCacheLookups *prometheus.CounterVec
	SearchDuration      prometheus.Histogram
}

// NewMetrics creates new prometheus metrics registered on the default
// registry. Call once per process.
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		SearchesTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_total",
			Help:      "The total number of flight searches served",
		}),
		ProviderErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_errors_total",
			Help:      "Provider failures by provider and error kind",
		}, []string{"provider", "kind"}),
		FallbacksTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "local_fallbacks_total",
			Help:      "Searches answered from local data instead of a provider",
		}),
		AirportCacheLookups: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "airport_cache_lookups_total",
			Help:      "Airport resolution cache lookups by result",
		}, []string{"result"}),
		SearchDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_duration_seconds",
			Help:      "Time taken to serve a flight search",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}
