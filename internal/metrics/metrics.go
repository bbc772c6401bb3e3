package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Outcome label values.
const (
	OutcomeSuccess = "success"
	OutcomeNoop    = "noop"
	OutcomeError   = "error"
)

var (
	VersioningOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "docman", Name: "versioning_operations_total", Help: "Number of draft, publish and revert operations by outcome."},
		[]string{"operation", "outcome"},
	)
	BlobOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "docman", Name: "blob_operations_total", Help: "Number of blob store reads and writes by backend and outcome."},
		[]string{"backend", "operation", "outcome"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(VersioningOperations)
	reg.MustRegister(BlobOperations)
}

// ObserveVersioning records one versioning operation.
func ObserveVersioning(operation, outcome string) {
	VersioningOperations.WithLabelValues(operation, outcome).Inc()
}
