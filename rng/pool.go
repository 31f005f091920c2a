package rng

import (
	"time"

	"github.com/safing/poolrand/log"
)

// PoolSize is the default entropy pool capacity in bytes. It matches the
// size of the permutation the pool keys.
const PoolSize = 256

// initialSeedBytes is how much the first usable seed source contributes.
const initialSeedBytes = 32

// SeedReport describes how a pool was filled.
type SeedReport struct {
	// Source is the name of the seed source that supplied the initial bytes, if any.
	Source string `json:"source,omitempty"`
	// Tier is the tier of Source, or TierPad if only the pad was used.
	Tier Tier `json:"tier"`
	// SourceBytes is the amount of bytes Source contributed.
	SourceBytes int `json:"source_bytes"`
	// PadBytes is the amount of bytes the pad source contributed.
	PadBytes int `json:"pad_bytes"`
}

// Pool is a fixed size circular entropy buffer. Mixing only ever XORs into
// existing content. A Pool is not safe for concurrent use; Source guards it.
type Pool struct {
	buf []byte
	ptr int

	sources []SeedSource
	now     func() time.Time

	filled   bool
	consumed bool
	report   SeedReport
}

// NewPool returns an empty pool of the given size. It is filled from sources
// the first time it is touched. A nil clock defaults to time.Now.
func NewPool(size int, sources []SeedSource, now func() time.Time) *Pool {
	if now == nil {
		now = time.Now
	}
	return &Pool{
		buf:     make([]byte, size),
		sources: sources,
		now:     now,
	}
}

// Size returns the capacity of the pool.
func (p *Pool) Size() int {
	return len(p.buf)
}

// Cursor returns the current write position.
func (p *Pool) Cursor() int {
	return p.ptr
}

// Consumed returns whether the pool has been drained.
func (p *Pool) Consumed() bool {
	return p.consumed
}

// Report returns how the pool was filled and whether it was filled yet.
func (p *Pool) Report() (SeedReport, bool) {
	return p.report, p.filled
}

// MixInt32 mixes the 4 little endian bytes of x into the pool.
func (p *Pool) MixInt32(x int32) {
	p.FillIfEmpty()
	p.mixInt32(x)
}

// MixTimestamp mixes the current time in milliseconds, truncated to 32 bits, into the pool.
func (p *Pool) MixTimestamp() {
	p.FillIfEmpty()
	p.mixInt32(int32(p.now().UnixMilli()))
}

func (p *Pool) mixInt32(x int32) {
	v := uint32(x)
	for i := 0; i < 4; i++ {
		p.buf[p.ptr] ^= byte(v >> (8 * i))
		p.ptr++
		if p.ptr >= len(p.buf) {
			p.ptr = 0
		}
	}
}

// FillIfEmpty fills the pool with initial junk, once. The best available seed
// source writes up to 32 bytes directly, the pad fills the remainder, and the
// current time is mixed in last. Unavailable or failing sources are skipped:
// there is no error case, only lower entropy quality. A consumed pool is never refilled.
func (p *Pool) FillIfEmpty() {
	if p.filled || p.consumed {
		return
	}
	p.filled = true
	p.ptr = 0

	// Initial bytes: first working secure source, else first working platform source.
	chunk := make([]byte, initialSeedBytes)
	if len(chunk) > len(p.buf) {
		chunk = chunk[:len(p.buf)]
	}
fill:
	for _, tier := range []Tier{TierSecure, TierPlatform} {
		for _, src := range p.sources {
			if src.Tier() != tier || !src.Available() {
				continue
			}
			n, err := src.Read(chunk)
			if err != nil && n == 0 {
				log.Warningf("rng: seed source %s failed: %s", src.Name(), err)
				continue
			}
			if tier == TierSecure && n < len(chunk) {
				log.Warningf("rng: seed source %s returned only %d of %d bytes", src.Name(), n, len(chunk))
				continue
			}
			p.ptr += copy(p.buf, chunk[:n])
			p.report.Source = src.Name()
			p.report.Tier = tier
			p.report.SourceBytes = n
			break fill
		}
	}
	if p.report.Source == "" {
		p.report.Tier = TierPad
		log.Warning("rng: no platform randomness available, seeding from pad source only")
	}

	// Pad the rest.
	pad := p.padSource()
	if p.ptr < len(p.buf) {
		n, _ := pad.Read(p.buf[p.ptr:])
		p.report.PadBytes = n
	}

	p.ptr = 0
	p.mixInt32(int32(p.now().UnixMilli()))
}

func (p *Pool) padSource() SeedSource {
	for _, src := range p.sources {
		if src.Tier() == TierPad {
			return src
		}
	}
	return PadSource{}
}

// ConsumeAndClear returns a copy of the pool contents and then zeroes the
// pool and resets the cursor. The pool is not refilled afterwards.
func (p *Pool) ConsumeAndClear() []byte {
	key := make([]byte, len(p.buf))
	copy(key, p.buf)

	for i := range p.buf {
		p.buf[i] = 0
	}
	p.ptr = 0
	p.consumed = true

	return key
}
