package engine

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeOK       = "ok"
	outcomeAbsent   = "absent"
	outcomeDeclined = "declined"
	outcomeError    = "error"
)

var (
	operationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "celerix_keystore_operations_total",
		Help: "Secure store operations by operation and outcome",
	}, []string{"op", "outcome"})
	operationSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "celerix_keystore_operation_seconds",
		Help:    "Secure store operation latency including lock wait and any credential challenge",
		Buckets: prometheus.DefBuckets,
	}, []string{"op"})
	challengeDeclined = promauto.NewCounter(prometheus.CounterOpts{
		Name: "celerix_keystore_challenge_declined_total",
		Help: "Reads that resolved as absent because the user declined the challenge",
	})
	policyFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "celerix_keystore_policy_fallback_total",
		Help: "Gated writes stored without access control because no descriptor could be built",
	})
)

func observe(op, outcome string, start time.Time) {
	operationsTotal.WithLabelValues(op, outcome).Inc()
	operationSeconds.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

func outcomeOf(err error) string {
	if err != nil {
		return outcomeError
	}
	return outcomeOK
}
