package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gatherCounter(t *testing.T, reg *prometheus.Registry, name, trigger string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		for _, metric := range family.GetMetric() {
			for _, label := range metric.GetLabel() {
				if label.GetName() == "trigger" && label.GetValue() == trigger {
					return metric.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}

func TestRecalcMetricsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewRecalcMetrics(reg)

	m.IncSuccess("create")
	m.IncSuccess("create")
	m.IncFailure("update")
	m.ObserveDuration("create", 25*time.Millisecond)

	assert.Equal(t, 2.0, gatherCounter(t, reg, "vendor_recalc_success", "create"))
	assert.Equal(t, 1.0, gatherCounter(t, reg, "vendor_recalc_failure", "update"))
}

func TestRecalcMetricsNormalizesEmptyTrigger(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewRecalcMetrics(reg)

	m.IncSuccess("")
	assert.Equal(t, 1.0, gatherCounter(t, reg, "vendor_recalc_success", "unknown"))
}

func TestRecalcMetricsNilSafe(t *testing.T) {
	var m *RecalcMetrics
	m.IncSuccess("create")
	m.IncFailure("create")
	m.ObserveDuration("create", time.Second)

	unregistered := NewRecalcMetrics(nil)
	unregistered.IncSuccess("create")
}

func TestRecalcMetricsHistogramObserved(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewRecalcMetrics(reg)

	m.ObserveDuration("acknowledge", 10*time.Millisecond)
	m.ObserveDuration("acknowledge", 20*time.Millisecond)

	families, err := reg.Gather()
	require.NoError(t, err)

	var family *dto.MetricFamily
	for _, f := range families {
		if f.GetName() == "vendor_recalc_duration_seconds" {
			family = f
		}
	}
	require.NotNil(t, family)
	require.Len(t, family.GetMetric(), 1)
	assert.Equal(t, uint64(2), family.GetMetric()[0].GetHistogram().GetSampleCount())
}
