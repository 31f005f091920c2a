package rng

import (
	"crypto/rand"
	"io"

	"github.com/valyala/fastrand"
)

// Tier describes the quality class of a SeedSource.
type Tier uint8

// Seed source tiers, best first.
const (
	TierSecure   Tier = 1
	TierPlatform Tier = 2
	TierPad      Tier = 3
)

func (t Tier) String() string {
	switch t {
	case TierSecure:
		return "secure"
	case TierPlatform:
		return "platform"
	case TierPad:
		return "pad"
	default:
		return "unknown"
	}
}

// SeedSource supplies initial pool contents.
// Available is a capability check and must not block.
type SeedSource interface {
	Name() string
	Tier() Tier
	Available() bool
	Read(p []byte) (n int, err error)
}

// DefaultSeedSources returns the seed sources used when none are configured, in order of preference.
func DefaultSeedSources() []SeedSource {
	return []SeedSource{
		OSSource{},
		PlatformSource{},
		JitterSource{},
		PadSource{},
	}
}

// OSSource reads from the operating system CSPRNG.
type OSSource struct{}

// Name implements SeedSource.
func (OSSource) Name() string { return "os" }

// Tier implements SeedSource.
func (OSSource) Tier() Tier { return TierSecure }

// Available implements SeedSource.
func (OSSource) Available() bool {
	var probe [1]byte
	_, err := rand.Read(probe[:])
	return err == nil
}

func (OSSource) Read(p []byte) (int, error) {
	return io.ReadFull(rand.Reader, p)
}

// PadSource fills with non-cryptographic 16 bit draws, high byte first.
// It is always available and never fails.
type PadSource struct{}

// Name implements SeedSource.
func (PadSource) Name() string { return "pad" }

// Tier implements SeedSource.
func (PadSource) Tier() Tier { return TierPad }

// Available implements SeedSource.
func (PadSource) Available() bool { return true }

func (PadSource) Read(p []byte) (int, error) {
	for i := 0; i < len(p); i += 2 {
		t := fastrand.Uint32n(65536)
		p[i] = byte(t >> 8)
		if i+1 < len(p) {
			p[i+1] = byte(t)
		}
	}
	return len(p), nil
}
