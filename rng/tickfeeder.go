package rng

import (
	"context"
	"runtime"
	"time"
)

// JitterSource extracts entropy from goroutine scheduling delays. One bit is
// taken from every yield, so the quality improves the more work the program does.
type JitterSource struct{}

// Name implements SeedSource.
func (JitterSource) Name() string { return "jitter" }

// Tier implements SeedSource.
func (JitterSource) Tier() Tier { return TierPlatform }

// Available implements SeedSource.
func (JitterSource) Available() bool { return true }

func (JitterSource) Read(p []byte) (int, error) {
	for i := range p {
		var b byte
		for bit := 0; bit < 8; bit++ {
			start := time.Now()
			runtime.Gosched()
			b = b<<1 | byte(time.Since(start)&1)
		}
		p[i] = b
	}
	return len(p), nil
}

// tickFeeder is a really simple entropy feeder that collects the least significant
// bit of the current nanosecond unixtime every time it 'ticks' and mixes every full
// 32 bit word into the pool. It exits once the pool has keyed the stream, as later
// mixing cannot influence the output anymore.
func tickFeeder(ctx context.Context, src *Source, tickDuration func() time.Duration) error {
	var value int32
	var pushes int

	for {
		select {
		case <-time.After(tickDuration()):
			if src.Seeded() {
				return nil
			}

			value = (value << 1) | int32(time.Now().UnixNano()%2)
			pushes++
			if pushes >= 32 {
				src.MixInt32(value)
				pushes = 0
			}

		case <-ctx.Done():
			return nil
		}
	}
}
