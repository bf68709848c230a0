package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gmx_gateway",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status code.",
		},
		[]string{"route", "method", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "gmx_gateway",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	UpstreamCallDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "gmx_gateway",
			Name:      "upstream_call_duration_seconds",
			Help:      "Latency of oracle and RPC calls by operation and outcome.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"operation", "outcome"},
	)

	KnownLimitationTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gmx_gateway",
			Name:      "known_limitation_degradations_total",
			Help:      "Position reads degraded to an empty result because of the empty-price-array revert.",
		},
		[]string{"path"},
	)

	NormalizedPositionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gmx_gateway",
			Name:      "normalized_positions_total",
			Help:      "Position records by normalization outcome.",
		},
		[]string{"outcome"},
	)
)

var registerOnce sync.Once

// MustRegisterMetrics registers all collectors with the default registry. Safe to call more than once.
func MustRegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			HTTPRequestsTotal,
			HTTPRequestDuration,
			UpstreamCallDuration,
			KnownLimitationTotal,
			NormalizedPositionsTotal,
		)
	})
}

// Outcome maps an error onto the outcome label.
func Outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
