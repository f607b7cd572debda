// Package metrics exposes Prometheus instruments for the booking flow.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics groups every instrument the services update.  A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	Transitions      *prometheus.CounterVec
	CascadeRejected  prometheus.Counter
	Failures         *prometheus.CounterVec
	NotifyFailures   prometheus.Counter
	OperationSeconds *prometheus.HistogramVec
}

// New registers the instruments with reg.  Pass prometheus.DefaultRegisterer
// in production and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Transitions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "hall_booking_transitions_total",
			Help: "Booking requests that reached a state, by state",
		}, []string{"state"}),

		CascadeRejected: f.NewCounter(prometheus.CounterOpts{
			Name: "hall_booking_cascade_rejections_total",
			Help: "Pending requests rejected because a conflicting request was approved",
		}),

		Failures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "hall_booking_failures_total",
			Help: "Failed booking operations by operation and error kind",
		}, []string{"op", "kind"}),

		NotifyFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "hall_booking_notify_failures_total",
			Help: "Notifications that could not be published",
		}),

		OperationSeconds: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "hall_booking_operation_duration_seconds",
			Help:    "Duration of booking operations",
			Buckets: prometheus.DefBuckets,
		}, []string{"op"}),
	}
}

func (m *Metrics) Transition(state string) {
	if m != nil {
		m.Transitions.WithLabelValues(state).Inc()
	}
}

func (m *Metrics) Cascade(n int) {
	if m != nil && n > 0 {
		m.CascadeRejected.Add(float64(n))
	}
}

func (m *Metrics) Failure(op, kind string) {
	if m != nil {
		m.Failures.WithLabelValues(op, kind).Inc()
	}
}

func (m *Metrics) NotifyFailed() {
	if m != nil {
		m.NotifyFailures.Inc()
	}
}

func (m *Metrics) Observe(op string, seconds float64) {
	if m != nil {
		m.OperationSeconds.WithLabelValues(op).Observe(seconds)
	}
}
