package metrics

import (
	"runtime"
	"strings"

	"github.com/safing/poolrand/info"
)

func registerInfoMetric() error {
	meta := info.GetInfo()
	_, err := NewGauge(
		"info",
		map[string]string{
			"instance":    instanceOption(),
			"version":     checkUnknown(meta.Version),
			"commit":      checkUnknown(meta.Commit),
			"build_time":  checkUnknown(meta.BuildTime),
			"go_os":       runtime.GOOS,
			"go_arch":     runtime.GOARCH,
			"go_version":  meta.GoVersion,
			"go_compiler": runtime.Compiler,
		},
		func() float64 {
			return 1
		},
		&Options{
			Name:        "Build Info",
			Description: "Always 1, carries build information as labels.",
		},
	)
	return err
}

func checkUnknown(s string) string {
	if strings.Contains(s, "unknown") {
		return "unknown"
	}
	return s
}
