package libemit

type (
	// Option configures an Emitter.
	Option func(*options)

	options struct {
		metrics *Metrics
	}
)

// WithMetrics reports emits, listener calls and listener panics to m.
func WithMetrics(m *Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

func newOptions(opts ...Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
