package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRegisterCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	RegisterCollectors(reg)

	ObserveVersioning("publish", OutcomeSuccess)
	BlobOperations.WithLabelValues("local", "put", OutcomeSuccess).Inc()

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	names := map[string]bool{}
	for _, mf := range mfs {
		names[mf.GetName()] = true
	}
	for _, want := range []string{"docman_versioning_operations_total", "docman_blob_operations_total"} {
		if !names[want] {
			t.Errorf("expected metric %s to be registered", want)
		}
	}
}

func TestObserveVersioning(t *testing.T) {
	before := testutil.ToFloat64(VersioningOperations.WithLabelValues("revert", OutcomeNoop))
	ObserveVersioning("revert", OutcomeNoop)
	after := testutil.ToFloat64(VersioningOperations.WithLabelValues("revert", OutcomeNoop))

	if after-before != 1 {
		t.Errorf("expected counter to grow by 1, got %f", after-before)
	}
}
