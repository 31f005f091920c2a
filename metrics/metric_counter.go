package metrics

import (
	vm "github.com/VictoriaMetrics/metrics"
)

// Counter is a counter metric.
type Counter struct {
	*metricBase
	*vm.Counter
}

// NewCounter registers a new counter metric.
func NewCounter(id string, labels map[string]string, opts *Options) (*Counter, error) {
	if opts == nil {
		opts = &Options{}
	}

	base, err := newMetricBase(id, labels, *opts)
	if err != nil {
		return nil, err
	}

	c := &Counter{
		metricBase: base,
	}
	c.Counter = base.set.NewCounter(base.LabeledID())

	if err := register(c); err != nil {
		return nil, err
	}
	return c, nil
}

// FetchingCounter is a counter whose value is fetched from elsewhere on export.
type FetchingCounter struct {
	*metricBase
	fetch func() uint64
}

// NewFetchingCounter registers a new counter metric that reads its value from fn.
func NewFetchingCounter(id string, labels map[string]string, fn func() uint64, opts *Options) (*FetchingCounter, error) {
	if opts == nil {
		opts = &Options{}
	}

	base, err := newMetricBase(id, labels, *opts)
	if err != nil {
		return nil, err
	}

	fc := &FetchingCounter{
		metricBase: base,
		fetch:      fn,
	}
	base.set.NewGauge(base.LabeledID(), func() float64 {
		return float64(fc.fetch())
	})

	if err := register(fc); err != nil {
		return nil, err
	}
	return fc, nil
}
