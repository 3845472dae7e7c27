package libemit

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	captureLogs(t)
	metrics := NewMetrics("libemit")
	emitter := NewEmitter[string, int](WithMetrics(metrics))

	emitter.On("save", func(int) {})
	emitter.On("save", func(int) { panic("boom") })
	emitter.OnWildcard(func(string, int) {})

	emitter.Emit("save", 1)
	emitter.Emit("load", 1)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.emits.WithLabelValues("save")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.emits.WithLabelValues("load")))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.calls.WithLabelValues("save", scopeExact)))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.calls.WithLabelValues("save", scopeWildcard)))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.calls.WithLabelValues("load", scopeWildcard)))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.panics.WithLabelValues("save")))
}

func TestMetricsRegister(t *testing.T) {
	reg := prometheus.NewPedanticRegistry()
	metrics := NewMetrics("libemit")
	require.NoError(t, reg.Register(metrics))

	emitter := NewEmitter[string, int](WithMetrics(metrics))
	emitter.Emit("tick", 0)

	count, err := testutil.GatherAndCount(reg, "libemit_emits_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestNilMetricsRecordNothing(t *testing.T) {
	var metrics *Metrics

	assert.NotPanics(t, func() {
		metrics.observeEmit("a")
		metrics.observeCall("a", true)
		metrics.observePanic("a")
	})

	descs := make(chan *prometheus.Desc, 8)
	collected := make(chan prometheus.Metric, 8)

	assert.NotPanics(t, func() {
		metrics.Describe(descs)
		metrics.Collect(collected)
	})
	assert.Empty(t, descs)
	assert.Empty(t, collected)
}
