package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// SchedulerMetrics records reconciliation run outcomes.
type SchedulerMetrics struct {
	duration *prometheus.HistogramVec
	success  *prometheus.CounterVec
	failure  *prometheus.CounterVec
	created  *prometheus.CounterVec
}

// NewSchedulerMetrics registers the scheduler metrics on the provided
// registerer. A nil registerer yields a no-op collector, which keeps tests
// and optional wiring simple.
func NewSchedulerMetrics(reg prometheus.Registerer) *SchedulerMetrics {
	if reg == nil {
		return &SchedulerMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "reconciliation_duration_seconds",
		Help:    "Duration of notification reconciliation runs in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"trigger"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "reconciliation_success",
		Help: "Successful reconciliation runs.",
	}, []string{"trigger"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "reconciliation_failure",
		Help: "Failed reconciliation runs.",
	}, []string{"trigger"})
	created := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "notifications_created_total",
		Help: "Notifications created by reconciliation runs, by type.",
	}, []string{"type"})
	reg.MustRegister(duration, success, failure, created)
	return &SchedulerMetrics{
		duration: duration,
		success:  success,
		failure:  failure,
		created:  created,
	}
}

// ObserveDuration records the duration of a run for the given trigger kind.
func (m *SchedulerMetrics) ObserveDuration(trigger string, duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(trigger)).Observe(duration.Seconds())
}

// IncSuccess increments the success counter for the given trigger kind.
func (m *SchedulerMetrics) IncSuccess(trigger string) {
	if m == nil || m.success == nil {
		return
	}
	m.success.WithLabelValues(normalizeLabel(trigger)).Inc()
}

// IncFailure increments the failure counter for the given trigger kind.
func (m *SchedulerMetrics) IncFailure(trigger string) {
	if m == nil || m.failure == nil {
		return
	}
	m.failure.WithLabelValues(normalizeLabel(trigger)).Inc()
}

// AddCreated counts notifications created during a run, labeled by type.
func (m *SchedulerMetrics) AddCreated(notificationType string, n int) {
	if m == nil || m.created == nil || n <= 0 {
		return
	}
	m.created.WithLabelValues(normalizeLabel(notificationType)).Add(float64(n))
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
