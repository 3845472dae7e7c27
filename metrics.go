package libemit

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	scopeExact    = "exact"
	scopeWildcard = "wildcard"
)

// Metrics counts dispatch activity. It implements prometheus.Collector and is
// attached to an Emitter with WithMetrics. A nil *Metrics records nothing.
type Metrics struct {
	emits  *prometheus.CounterVec
	calls  *prometheus.CounterVec
	panics *prometheus.CounterVec
}

// NewMetrics creates the collectors under the given namespace.
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		emits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "emits_total",
			Help:      "Number of emitted events.",
		}, []string{"event"}),
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "listener_calls_total",
			Help:      "Number of listener invocations.",
		}, []string{"event", "scope"}),
		panics: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "listener_panics_total",
			Help:      "Number of listener invocations that panicked.",
		}, []string{"event"}),
	}
}

func (m *Metrics) Describe(ch chan<- *prometheus.Desc) {
	if m == nil {
		return
	}
	m.emits.Describe(ch)
	m.calls.Describe(ch)
	m.panics.Describe(ch)
}

func (m *Metrics) Collect(ch chan<- prometheus.Metric) {
	if m == nil {
		return
	}
	m.emits.Collect(ch)
	m.calls.Collect(ch)
	m.panics.Collect(ch)
}

func (m *Metrics) observeEmit(event any) {
	if m == nil {
		return
	}
	m.emits.WithLabelValues(fmt.Sprint(event)).Inc()
}

func (m *Metrics) observeCall(event any, wildcard bool) {
	if m == nil {
		return
	}
	scope := scopeExact
	if wildcard {
		scope = scopeWildcard
	}
	m.calls.WithLabelValues(fmt.Sprint(event), scope).Inc()
}

func (m *Metrics) observePanic(event any) {
	if m == nil {
		return
	}
	m.panics.WithLabelValues(fmt.Sprint(event)).Inc()
}

var _ prometheus.Collector = (*Metrics)(nil)
