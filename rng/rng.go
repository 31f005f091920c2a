package rng

import (
	"context"
	"time"

	"github.com/tevino/abool"

	"github.com/safing/poolrand/config"
	"github.com/safing/poolrand/log"
	"github.com/safing/poolrand/modules"
)

// Configuration Keys.
const (
	CfgPoolSizeKey         = "random/pool_size"
	CfgFeederIntervalKey   = "random/feeder_interval_ms"
	CfgMaxAPIBytesKey      = "random/max_api_bytes"
	defaultFeederInterval  = 10
	defaultMaxAPIBytes     = 4096
	minFeederIntervalMsecs = 1
)

var (
	module *modules.Module

	defaultSource *Source
	sourceReady   = abool.New()

	poolSizeOption       config.IntOption
	feederIntervalOption config.IntOption
	maxAPIBytesOption    config.IntOption
)

func init() {
	module = modules.Register("random", prep, start, stop, "config")
}

func prep() error {
	err := config.Register(&config.Option{
		Name:            "Entropy Pool Size",
		Key:             CfgPoolSizeKey,
		Description:     "Capacity of the entropy pool in bytes. The pool keys the generator once, on first use.",
		OptType:         config.OptTypeInt,
		ExpertiseLevel:  config.ExpertiseLevelDeveloper,
		ReleaseLevel:    config.ReleaseLevelExperimental,
		RequiresRestart: true,
		DefaultValue:    PoolSize,
		ValidationRegex: "^(64|128|256|512|1024)$",
	})
	if err != nil {
		return err
	}
	poolSizeOption = config.GetAsInt(CfgPoolSizeKey, PoolSize)

	err = config.Register(&config.Option{
		Name:            "Entropy Feeder Interval",
		Key:             CfgFeederIntervalKey,
		Description:     "Milliseconds between scheduler jitter samples mixed into the pool before it is consumed.",
		OptType:         config.OptTypeInt,
		ExpertiseLevel:  config.ExpertiseLevelDeveloper,
		ReleaseLevel:    config.ReleaseLevelStable,
		DefaultValue:    defaultFeederInterval,
		ValidationRegex: "^[1-9][0-9]{0,4}$",
	})
	if err != nil {
		return err
	}
	feederIntervalOption = config.Concurrent.GetAsInt(CfgFeederIntervalKey, defaultFeederInterval)

	err = config.Register(&config.Option{
		Name:            "Maximum API Request Size",
		Key:             CfgMaxAPIBytesKey,
		Description:     "Maximum amount of random bytes a single API request may fetch.",
		OptType:         config.OptTypeInt,
		ExpertiseLevel:  config.ExpertiseLevelExpert,
		ReleaseLevel:    config.ReleaseLevelStable,
		DefaultValue:    defaultMaxAPIBytes,
		ValidationRegex: "^[1-9][0-9]{0,6}$",
	})
	if err != nil {
		return err
	}
	maxAPIBytesOption = config.Concurrent.GetAsInt(CfgMaxAPIBytesKey, defaultMaxAPIBytes)

	if err := registerMetrics(); err != nil {
		return err
	}
	return registerAPIEndpoints()
}

func feederTickDuration() time.Duration {
	msecs := feederIntervalOption()
	if msecs < minFeederIntervalMsecs {
		msecs = minFeederIntervalMsecs
	}
	return time.Duration(msecs) * time.Millisecond
}

// start creates the process wide Source. Normally, this should be only called by the modules package.
func start() error {
	src, err := NewSource(
		WithPoolSize(int(poolSizeOption())),
		WithObserver(metricsObserver{}),
	)
	if err != nil {
		return err
	}

	defaultSource = src
	sourceReady.Set()
	log.Infof("rng: entropy pool ready (%d bytes)", src.PoolSize())

	// random source: goroutine ticks, until first use
	module.StartWorker("tick feeder", func(ctx context.Context) error {
		return tickFeeder(ctx, src, feederTickDuration)
	})

	return nil
}

func stop() error {
	sourceReady.UnSet()
	return nil
}
