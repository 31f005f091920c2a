package metrics

import (
	"context"

	"github.com/safing/poolrand/modules"
)

var module *modules.Module

func init() {
	module = modules.Register("metrics", prep, start, nil, "config", "info")
}

func prep() error {
	if err := prepConfig(); err != nil {
		return err
	}
	if err := registerProcessMetrics(); err != nil {
		return err
	}
	if err := registerLogMetrics(); err != nil {
		return err
	}
	return registerAPI()
}

func start() error {
	if err := registerInfoMetric(); err != nil {
		return err
	}

	if pushURL := pushOption(); pushURL != "" {
		module.StartServiceWorker("metric pusher", 0, func(ctx context.Context) error {
			return metricsWriter(ctx, pushURL)
		})
	}
	return nil
}
