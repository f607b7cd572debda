package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.Transition("APPROVED")
	m.Cascade(3)
	m.Failure("approve", "lead_time")
	m.NotifyFailed()
	m.Observe("approve", 0.1)
}

func TestCounters(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.Transition("APPROVED")
	m.Transition("APPROVED")
	m.Cascade(2)
	m.Cascade(0)
	if got := testutil.ToFloat64(m.Transitions.WithLabelValues("APPROVED")); got != 2 {
		t.Fatalf("approved transitions = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.CascadeRejected); got != 2 {
		t.Fatalf("cascade = %v, want 2", got)
	}
}
