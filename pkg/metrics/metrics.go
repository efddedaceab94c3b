package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Buckets sized for remote API round trips, from fast cached responses
	// up to the transport timeout.
	apiBuckets = []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30}

	// Remote gateway metrics
	RemoteCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pokedex_remote_call_duration_seconds",
			Help:    "Remote gateway call duration in seconds",
			Buckets: apiBuckets,
		},
		[]string{"gateway", "operation", "status"},
	)

	RemoteCallTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pokedex_remote_call_total",
			Help: "Total number of remote gateway calls",
		},
		[]string{"gateway", "operation", "status"},
	)

	// Coordinator metrics
	StaleResponsesDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pokedex_stale_responses_dropped_total",
			Help: "Responses discarded because a newer request superseded them",
		},
		[]string{"coordinator"},
	)

	OptimisticRollbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pokedex_optimistic_rollbacks_total",
			Help: "Optimistic mutations rolled back after a remote failure",
		},
		[]string{"collection"},
	)

	// Reference data cache metrics
	ReferenceCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pokedex_reference_cache_hits_total",
			Help: "Reference lookups served from the local cache",
		},
	)

	ReferenceCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pokedex_reference_cache_misses_total",
			Help: "Reference lookups that fell through to PokeAPI",
		},
	)
)

// ObserveRemoteCall records one remote gateway call outcome.
func ObserveRemoteCall(gateway, operation, status string, start time.Time) {
	elapsed := time.Since(start).Seconds()
	RemoteCallDuration.WithLabelValues(gateway, operation, status).Observe(elapsed)
	RemoteCallTotal.WithLabelValues(gateway, operation, status).Inc()
}
