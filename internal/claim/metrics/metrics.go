package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics for the claim registry.
type Metrics struct {
	ClaimsCreated     prometheus.Counter
	ClaimsTransferred prometheus.Counter
	ClaimsRevoked     prometheus.Counter
	OperationsFailed  *prometheus.CounterVec
	OperationLatency  *prometheus.HistogramVec
}

// New creates and registers all claim metrics on the default registerer.
func New() *Metrics {
	return &Metrics{
		ClaimsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "proofmark_claims_created_total",
			Help: "Total number of proofs successfully claimed",
		}),
		ClaimsTransferred: promauto.NewCounter(prometheus.CounterOpts{
			Name: "proofmark_claims_transferred_total",
			Help: "Total number of claim ownership transfers",
		}),
		ClaimsRevoked: promauto.NewCounter(prometheus.CounterOpts{
			Name: "proofmark_claims_revoked_total",
			Help: "Total number of claims revoked",
		}),
		OperationsFailed: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "proofmark_claim_operations_failed_total",
			Help: "Claim operations rejected, by operation and error code",
		}, []string{"operation", "code"}),
		OperationLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "proofmark_claim_operation_seconds",
			Help:    "Latency of claim operations",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
	}
}

// RecordFailure increments the failure counter for an operation/code pair.
func (m *Metrics) RecordFailure(operation, code string) {
	if m == nil {
		return
	}
	m.OperationsFailed.WithLabelValues(operation, code).Inc()
}
