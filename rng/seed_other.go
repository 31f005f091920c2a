//go:build !linux

package rng

// PlatformSource is not available on this platform.
type PlatformSource struct{}

// Name implements SeedSource.
func (PlatformSource) Name() string { return "getrandom-insecure" }

// Tier implements SeedSource.
func (PlatformSource) Tier() Tier { return TierPlatform }

// Available implements SeedSource.
func (PlatformSource) Available() bool { return false }

func (PlatformSource) Read(p []byte) (int, error) {
	return 0, errSourceUnavailable
}
