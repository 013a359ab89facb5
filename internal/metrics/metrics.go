package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Values of the outcome label.
const (
	OutcomeSuccess  = "success"
	OutcomeFallback = "fallback"
	OutcomeError    = "error"
)

var (
	// Requests counts answered requests by operation and outcome.
	Requests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_navigation_requests_total",
			Help: "Total number of navigation requests by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	// UpstreamDuration observes inference server latency.
	UpstreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ai_navigation_upstream_duration_seconds",
			Help:    "Duration of calls to the inference server in seconds",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
		},
		[]string{"operation", "provider"},
	)
)

// ObserveRequest counts one answered request. fallback marks answers built
// from the deterministic fallback instead of the model reply.
func ObserveRequest(operation string, fallback bool) {
	outcome := OutcomeSuccess
	if fallback {
		outcome = OutcomeFallback
	}
	Requests.WithLabelValues(operation, outcome).Inc()
}
