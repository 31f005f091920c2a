package rng

import (
	"github.com/safing/poolrand/metrics"
)

var (
	bytesGenerated *metrics.Counter
	poolMixes      *metrics.Counter
	seedFills      = make(map[Tier]*metrics.Counter)
)

func registerMetrics() (err error) {
	bytesGenerated, err = metrics.NewCounter(
		"random/bytes/total",
		nil,
		&metrics.Options{
			Name:        "Generated Random Bytes",
			Description: "Total amount of bytes emitted by the keystream generator.",
		},
	)
	if err != nil {
		return err
	}

	poolMixes, err = metrics.NewCounter(
		"random/pool/mixes/total",
		nil,
		&metrics.Options{
			Name:        "Entropy Pool Mixes",
			Description: "Total amount of values mixed into the entropy pool.",
		},
	)
	if err != nil {
		return err
	}

	for _, tier := range []Tier{TierSecure, TierPlatform, TierPad} {
		seedFills[tier], err = metrics.NewCounter(
			"random/pool/fills/total",
			map[string]string{"tier": tier.String()},
			&metrics.Options{
				Name:        "Entropy Pool Fills",
				Description: "Pool fills by the best seed source tier that contributed.",
			},
		)
		if err != nil {
			return err
		}
	}

	_, err = metrics.NewGauge(
		"random/seeded",
		nil,
		func() float64 {
			if sourceReady.IsSet() && defaultSource.Seeded() {
				return 1
			}
			return 0
		},
		&metrics.Options{
			Name:        "Generator Seeded",
			Description: "Whether the process wide generator has been keyed.",
		},
	)
	return err
}

// metricsObserver feeds Source activity into the metrics registry.
type metricsObserver struct{}

func (metricsObserver) Seeded(report SeedReport) {
	if c, ok := seedFills[report.Tier]; ok {
		c.Inc()
	}
}

func (metricsObserver) Mixed() {
	poolMixes.Inc()
}

func (metricsObserver) Generated(n int) {
	bytesGenerated.Add(n)
}
