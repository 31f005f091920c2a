package metrics

import (
	"flag"
	"os"
	"strings"

	"github.com/safing/poolrand/config"
)

// Configuration Keys.
const (
	CfgOptionInstanceKey = "core/metrics/instance"
	CfgOptionPushKey     = "core/metrics/push"
	CfgOptionProcessKey  = "core/metrics/process"
)

var (
	instanceOption config.StringOption
	pushOption     config.StringOption
	processOption  config.BoolOption

	pushFlag        string
	instanceFlag    string
	defaultInstance string
)

func init() {
	hostname, err := os.Hostname()
	if err == nil {
		hostname = strings.ReplaceAll(hostname, "-", "")
		if prometheusFormat.MatchString(hostname) {
			defaultInstance = hostname
		}
	}

	flag.StringVar(&pushFlag, "push-metrics", "", "set default URL to push prometheus metrics to")
	flag.StringVar(&instanceFlag, "metrics-instance", defaultInstance, "set the default global instance label")
}

func prepConfig() error {
	err := config.Register(&config.Option{
		Name:            "Metrics Instance Name",
		Key:             CfgOptionInstanceKey,
		Description:     "Define the prometheus instance label for exported metrics.",
		OptType:         config.OptTypeString,
		ExpertiseLevel:  config.ExpertiseLevelExpert,
		ReleaseLevel:    config.ReleaseLevelStable,
		DefaultValue:    instanceFlag,
		RequiresRestart: true,
		ValidationRegex: "^(" + prometheusBaseFormt + ")?$",
	})
	if err != nil {
		return err
	}
	instanceOption = config.Concurrent.GetAsString(CfgOptionInstanceKey, instanceFlag)

	err = config.Register(&config.Option{
		Name:            "Push Prometheus Metrics",
		Key:             CfgOptionPushKey,
		Description:     "Push metrics to this URL in the prometheus format.",
		OptType:         config.OptTypeString,
		ExpertiseLevel:  config.ExpertiseLevelExpert,
		ReleaseLevel:    config.ReleaseLevelStable,
		DefaultValue:    pushFlag,
		RequiresRestart: true,
		ValidationRegex: "^(https?://.+)?$",
	})
	if err != nil {
		return err
	}
	pushOption = config.Concurrent.GetAsString(CfgOptionPushKey, pushFlag)

	err = config.Register(&config.Option{
		Name:           "Export Process Metrics",
		Key:            CfgOptionProcessKey,
		Description:    "Export Go runtime and process metrics, such as memory usage and goroutine counts.",
		OptType:        config.OptTypeBool,
		ExpertiseLevel: config.ExpertiseLevelDeveloper,
		ReleaseLevel:   config.ReleaseLevelStable,
		DefaultValue:   true,
	})
	if err != nil {
		return err
	}
	processOption = config.Concurrent.GetAsBool(CfgOptionProcessKey, true)

	return nil
}
