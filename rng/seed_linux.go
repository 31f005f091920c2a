package rng

import (
	"golang.org/x/sys/unix"
)

// PlatformSource reads from getrandom(2) with GRND_INSECURE. The kernel may
// hand out these bytes before its CRNG is fully initialized, so they only count
// as platform quality.
type PlatformSource struct{}

// Name implements SeedSource.
func (PlatformSource) Name() string { return "getrandom-insecure" }

// Tier implements SeedSource.
func (PlatformSource) Tier() Tier { return TierPlatform }

// Available implements SeedSource. Kernels before 5.6 reject the flag with EINVAL.
func (PlatformSource) Available() bool {
	var probe [1]byte
	_, err := unix.Getrandom(probe[:], unix.GRND_INSECURE)
	return err == nil
}

func (PlatformSource) Read(p []byte) (int, error) {
	return unix.Getrandom(p, unix.GRND_INSECURE)
}
