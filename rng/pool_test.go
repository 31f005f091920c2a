package rng

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	name      string
	tier      Tier
	available bool
	data      []byte
	err       error
	reads     int
}

func (f *fakeSource) Name() string    { return f.name }
func (f *fakeSource) Tier() Tier      { return f.tier }
func (f *fakeSource) Available() bool { return f.available }

func (f *fakeSource) Read(p []byte) (int, error) {
	f.reads++
	if f.err != nil {
		return 0, f.err
	}
	return copy(p, f.data), nil
}

// constPad fills with a single byte value.
type constPad byte

func (constPad) Name() string    { return "const-pad" }
func (constPad) Tier() Tier      { return TierPad }
func (constPad) Available() bool { return true }

func (c constPad) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = byte(c)
	}
	return len(p), nil
}

func epochClock() time.Time {
	return time.UnixMilli(0)
}

func fixedClock(ms int64) func() time.Time {
	return func() time.Time {
		return time.UnixMilli(ms)
	}
}

func sequence(start byte, n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = start + byte(i)
	}
	return b
}

func TestPoolFillSecure(t *testing.T) {
	t.Parallel()

	secure := &fakeSource{name: "secure", tier: TierSecure, available: true, data: sequence(1, 64)}
	platform := &fakeSource{name: "platform", tier: TierPlatform, available: true, data: sequence(100, 32)}
	p := NewPool(PoolSize, []SeedSource{secure, platform, constPad(0xAB)}, epochClock)

	_, filled := p.Report()
	assert.False(t, filled)

	p.FillIfEmpty()
	assert.Equal(t, sequence(1, 32), p.buf[:32])
	assert.Equal(t, bytes.Repeat([]byte{0xAB}, PoolSize-32), p.buf[32:])
	assert.Equal(t, 4, p.Cursor())
	assert.Equal(t, 0, platform.reads)

	report, filled := p.Report()
	assert.True(t, filled)
	assert.Equal(t, SeedReport{Source: "secure", Tier: TierSecure, SourceBytes: 32, PadBytes: PoolSize - 32}, report)

	// Filling is single-shot.
	p.FillIfEmpty()
	assert.Equal(t, 1, secure.reads)
}

func TestPoolFillFallback(t *testing.T) {
	t.Parallel()

	sources := []SeedSource{
		&fakeSource{name: "missing", tier: TierSecure, available: false},
		&fakeSource{name: "short", tier: TierSecure, available: true, data: sequence(1, 10)},
		&fakeSource{name: "broken", tier: TierPlatform, available: true, err: errors.New("boom")},
		&fakeSource{name: "partial", tier: TierPlatform, available: true, data: sequence(50, 16)},
		constPad(0xAB),
	}
	p := NewPool(PoolSize, sources, epochClock)
	p.FillIfEmpty()

	assert.Equal(t, sequence(50, 16), p.buf[:16])
	assert.Equal(t, bytes.Repeat([]byte{0xAB}, PoolSize-16), p.buf[16:])

	report, _ := p.Report()
	assert.Equal(t, SeedReport{Source: "partial", Tier: TierPlatform, SourceBytes: 16, PadBytes: PoolSize - 16}, report)
}

func TestPoolFillPadOnly(t *testing.T) {
	t.Parallel()

	p := NewPool(64, []SeedSource{
		&fakeSource{name: "missing", tier: TierSecure, available: false},
		constPad(0xAB),
	}, epochClock)
	p.FillIfEmpty()

	assert.Equal(t, bytes.Repeat([]byte{0xAB}, 64), p.buf)
	report, _ := p.Report()
	assert.Equal(t, SeedReport{Tier: TierPad, PadBytes: 64}, report)
}

func TestPoolSmallerThanSeed(t *testing.T) {
	t.Parallel()

	secure := &fakeSource{name: "secure", tier: TierSecure, available: true, data: sequence(1, 32)}
	p := NewPool(8, []SeedSource{secure, constPad(0xAB)}, epochClock)
	p.FillIfEmpty()

	assert.Equal(t, sequence(1, 8), p.buf)
	report, _ := p.Report()
	assert.Equal(t, 8, report.SourceBytes)
	assert.Equal(t, 0, report.PadBytes)
}

func TestPoolMixing(t *testing.T) {
	t.Parallel()

	// The fill mixes the timestamp at 0..3, the explicit mix follows at 4..7.
	p := NewPool(PoolSize, []SeedSource{constPad(0xAB)}, fixedClock(0x01020304))
	p.MixInt32(0x0A0B0C0D)

	assert.Equal(t, []byte{
		0xAB ^ 0x04, 0xAB ^ 0x03, 0xAB ^ 0x02, 0xAB ^ 0x01,
		0xAB ^ 0x0D, 0xAB ^ 0x0C, 0xAB ^ 0x0B, 0xAB ^ 0x0A,
		0xAB,
	}, p.buf[:9])
	assert.Equal(t, 8, p.Cursor())

	p.MixTimestamp()
	assert.Equal(t, []byte{0xAB ^ 0x04, 0xAB ^ 0x03, 0xAB ^ 0x02, 0xAB ^ 0x01}, p.buf[8:12])
	assert.Equal(t, 12, p.Cursor())

	// Mixing the same value twice cancels out.
	before := append([]byte(nil), p.buf...)
	p.MixInt32(-1)
	p.ptr = 12
	p.MixInt32(-1)
	assert.Equal(t, before, p.buf)
}

func TestPoolCursorWraps(t *testing.T) {
	t.Parallel()

	p := NewPool(6, []SeedSource{constPad(0xAB)}, epochClock)
	p.FillIfEmpty()
	require.Equal(t, 4, p.Cursor())

	p.MixInt32(-1)
	assert.Equal(t, []byte{0x54, 0x54, 0xAB, 0xAB, 0x54, 0x54}, p.buf)
	assert.Equal(t, 2, p.Cursor())

	for i := 0; i < 100; i++ {
		p.MixTimestamp()
		assert.True(t, p.Cursor() >= 0 && p.Cursor() < p.Size())
	}
}

func TestPoolConsumeAndClear(t *testing.T) {
	t.Parallel()

	secure := &fakeSource{name: "secure", tier: TierSecure, available: true, data: sequence(1, 32)}
	p := NewPool(PoolSize, []SeedSource{secure, constPad(0xAB)}, epochClock)
	p.FillIfEmpty()
	expected := append([]byte(nil), p.buf...)

	key := p.ConsumeAndClear()
	assert.Equal(t, expected, key)
	assert.Equal(t, make([]byte, PoolSize), p.buf)
	assert.Equal(t, 0, p.Cursor())
	assert.True(t, p.Consumed())

	// The key is a copy.
	key[0] ^= 0xFF
	assert.Equal(t, byte(0), p.buf[0])

	// A consumed pool is never refilled, mixing still XORs into it.
	p.FillIfEmpty()
	assert.Equal(t, 1, secure.reads)
	p.MixInt32(0x04030201)
	assert.Equal(t, []byte{1, 2, 3, 4, 0}, p.buf[:5])
}

func TestPadSource(t *testing.T) {
	t.Parallel()

	pad := PadSource{}
	assert.True(t, pad.Available())
	assert.Equal(t, TierPad, pad.Tier())

	for _, size := range []int{0, 1, 5, 256} {
		n, err := pad.Read(make([]byte, size))
		require.NoError(t, err)
		assert.Equal(t, size, n)
	}
}

func TestDefaultSeedSources(t *testing.T) {
	t.Parallel()

	sources := DefaultSeedSources()
	require.Len(t, sources, 4)
	assert.Equal(t, TierSecure, sources[0].Tier())
	assert.Equal(t, TierPad, sources[len(sources)-1].Tier())

	os := OSSource{}
	require.True(t, os.Available())
	buf := make([]byte, 32)
	n, err := os.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, 32, n)

	jitter := JitterSource{}
	n, err = jitter.Read(make([]byte, 2))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// PlatformSource may not be available, but must not fail its capability check.
	_ = PlatformSource{}.Available()
	assert.Equal(t, "platform", Tier(2).String())
	assert.Equal(t, "unknown", Tier(9).String())
}
