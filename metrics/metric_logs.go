package metrics

import (
	"github.com/safing/poolrand/log"
)

func registerLogMetrics() error {
	for _, counter := range []struct {
		severity string
		name     string
		fetch    func() uint64
	}{
		{"warning", "Total Warning Log Lines", log.TotalWarningLogLines},
		{"error", "Total Error Log Lines", log.TotalErrorLogLines},
		{"critical", "Total Critical Log Lines", log.TotalCriticalLogLines},
	} {
		_, err := NewFetchingCounter(
			"logs/"+counter.severity+"/total",
			nil,
			counter.fetch,
			&Options{
				Name: counter.name,
			},
		)
		if err != nil {
			return err
		}
	}

	return nil
}
