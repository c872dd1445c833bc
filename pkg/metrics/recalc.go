package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// RecalcMetrics records metadata for vendor performance recalculations.
type RecalcMetrics struct {
	duration *prometheus.HistogramVec
	success  *prometheus.CounterVec
	failure  *prometheus.CounterVec
}

// NewRecalcMetrics registers the recalculation metrics on the provided registerer.
func NewRecalcMetrics(reg prometheus.Registerer) *RecalcMetrics {
	if reg == nil {
		return &RecalcMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "vendor_recalc_duration_seconds",
		Help:    "Duration of vendor performance recalculations in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"trigger"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "vendor_recalc_success",
		Help: "Successful vendor performance recalculations.",
	}, []string{"trigger"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "vendor_recalc_failure",
		Help: "Failed vendor performance recalculations.",
	}, []string{"trigger"})
	reg.MustRegister(duration, success, failure)
	return &RecalcMetrics{
		duration: duration,
		success:  success,
		failure:  failure,
	}
}

// ObserveDuration records the duration for the named trigger.
func (m *RecalcMetrics) ObserveDuration(trigger string, duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(trigger)).Observe(duration.Seconds())
}

// IncSuccess increments the success counter for the named trigger.
func (m *RecalcMetrics) IncSuccess(trigger string) {
	if m == nil || m.success == nil {
		return
	}
	m.success.WithLabelValues(normalizeLabel(trigger)).Inc()
}

// IncFailure increments the failure counter for the named trigger.
func (m *RecalcMetrics) IncFailure(trigger string) {
	if m == nil || m.failure == nil {
		return
	}
	m.failure.WithLabelValues(normalizeLabel(trigger)).Inc()
}

func normalizeLabel(trigger string) string {
	if trigger == "" {
		return "unknown"
	}
	return trigger
}
