package metrics

import (
	vm "github.com/VictoriaMetrics/metrics"
)

// Gauge is a gauge metric.
type Gauge struct {
	*metricBase
	*vm.Gauge
}

// NewGauge registers a new gauge metric that reads its value from fn on export.
func NewGauge(id string, labels map[string]string, fn func() float64, opts *Options) (*Gauge, error) {
	if opts == nil {
		opts = &Options{}
	}

	base, err := newMetricBase(id, labels, *opts)
	if err != nil {
		return nil, err
	}

	g := &Gauge{
		metricBase: base,
	}
	g.Gauge = base.set.NewGauge(base.LabeledID(), fn)

	if err := register(g); err != nil {
		return nil, err
	}
	return g, nil
}
