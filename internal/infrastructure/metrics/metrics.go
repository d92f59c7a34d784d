package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Media studio metrics
var (
	// Request counters
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "media",
			Subsystem: "studio",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// Request duration histogram
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "media",
			Subsystem: "studio",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.5, 1, 2, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	// Lifecycle operations by outcome (ok or the error type)
	OperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "media",
			Subsystem: "studio",
			Name:      "operations_total",
			Help:      "Total media lifecycle operations",
		},
		[]string{"operation", "outcome"},
	)

	// Asset store calls
	AssetStoreOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "media",
			Subsystem: "studio",
			Name:      "asset_store_operations_total",
			Help:      "Total remote asset store operations",
		},
		[]string{"backend", "operation", "status"},
	)

	AssetStoreDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "media",
			Subsystem: "studio",
			Name:      "asset_store_duration_seconds",
			Help:      "Remote asset store operation duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.5, 1, 2, 5, 10},
		},
		[]string{"backend", "operation"},
	)

	RateLimitedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "media",
			Subsystem: "studio",
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the rate limiter",
		},
		[]string{"operation"},
	)

	RemoteFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "media",
			Subsystem: "studio",
			Name:      "remote_failures_total",
			Help:      "Asset store failures absorbed by the lifecycle manager",
		},
		[]string{"operation"},
	)

	SelfHealedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "media",
			Subsystem: "studio",
			Name:      "self_healed_total",
			Help:      "Index rows marked deleted after the asset store reported them absent",
		},
	)

	ReclaimedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "media",
			Subsystem: "studio",
			Name:      "reclaimed_total",
			Help:      "Temporary media records reclaimed",
		},
	)

	ReclaimRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "media",
			Subsystem: "studio",
			Name:      "reclaim_runs_total",
			Help:      "Reclamation runs by status",
		},
		[]string{"status"},
	)
)

// RecordRequest records an HTTP request
func RecordRequest(method, endpoint, status string, durationSec float64) {
	RequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	RequestDuration.WithLabelValues(method, endpoint).Observe(durationSec)
}

// RecordAssetStoreOperation records a remote asset store call
func RecordAssetStoreOperation(backend, operation, status string, durationSec float64) {
	AssetStoreOperationsTotal.WithLabelValues(backend, operation, status).Inc()
	AssetStoreDuration.WithLabelValues(backend, operation).Observe(durationSec)
}
