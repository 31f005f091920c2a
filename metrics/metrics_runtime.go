package metrics

import (
	"io"

	vm "github.com/VictoriaMetrics/metrics"

	"github.com/safing/poolrand/config"
)

// processMetrics exposes the Go runtime and process metrics collected by
// VictoriaMetrics. They are only written when enabled via core/metrics/process.
type processMetrics struct {
	*metricBase
}

func registerProcessMetrics() error {
	base, err := newMetricBase("_process", nil, Options{
		Name:           "Go Runtime and Process",
		Description:    "Memory, GC, goroutine and file descriptor statistics.",
		ExpertiseLevel: config.ExpertiseLevelDeveloper,
	})
	if err != nil {
		return err
	}
	return register(&processMetrics{metricBase: base})
}

func (pm *processMetrics) WritePrometheus(w io.Writer) {
	if processOption != nil && !processOption() {
		return
	}
	vm.WriteProcessMetrics(w)
}
