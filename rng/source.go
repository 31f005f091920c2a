package rng

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/safing/poolrand/log"
)

// Observer is notified about Source activity. Calls happen while the Source
// is locked and must not call back into it.
type Observer interface {
	Seeded(report SeedReport)
	Mixed()
	Generated(n int)
}

type options struct {
	poolSize int
	sources  []SeedSource
	now      func() time.Time
	observer Observer
}

// Option configures a Source.
type Option func(*options)

// WithPoolSize sets the entropy pool capacity. The default is PoolSize.
func WithPoolSize(size int) Option {
	return func(o *options) {
		o.poolSize = size
	}
}

// WithSeedSources replaces the default seed sources. Order matters within a tier.
func WithSeedSources(sources ...SeedSource) Option {
	return func(o *options) {
		o.sources = sources
	}
}

// WithClock sets the clock used for timestamp mixing.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// WithObserver registers an Observer.
func WithObserver(observer Observer) Option {
	return func(o *options) {
		o.observer = observer
	}
}

// Source is the secure random façade: it owns one entropy pool and one
// keystream generator and serializes every access to both with a single lock.
// The pool keys the stream on the first byte request; the stream is never
// reseeded afterwards.
type Source struct {
	lock sync.Mutex

	pool     *Pool
	stream   *Stream
	observer Observer
}

// NewSource returns a new Source. Its pool is filled lazily.
func NewSource(opts ...Option) (*Source, error) {
	o := &options{
		poolSize: PoolSize,
	}
	for _, opt := range opts {
		opt(o)
	}

	if o.poolSize <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidPoolSize, o.poolSize)
	}
	if o.sources == nil {
		o.sources = DefaultSeedSources()
	}
	if o.now == nil {
		o.now = time.Now
	}

	return &Source{
		pool:     NewPool(o.poolSize, o.sources, o.now),
		stream:   NewStream(),
		observer: o.observer,
	}, nil
}

// MixInt32 mixes x into the entropy pool. After the pool keyed the stream this
// still succeeds, but does not affect the output anymore.
func (s *Source) MixInt32(x int32) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.warnIfConsumed()
	s.pool.MixInt32(x)
	if s.observer != nil {
		s.observer.Mixed()
	}
}

// MixTimestamp mixes the current time into the entropy pool. Call it on
// external events, such as incoming requests, to diversify the pool.
func (s *Source) MixTimestamp() {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.warnIfConsumed()
	s.pool.MixTimestamp()
	if s.observer != nil {
		s.observer.Mixed()
	}
}

func (s *Source) warnIfConsumed() {
	if s.pool.Consumed() {
		log.Tracef("rng: mixing into consumed pool, output is unaffected")
	}
}

// NextBytes fills p with pseudo random bytes. An empty p does not key the stream.
func (s *Source) NextBytes(p []byte) {
	if len(p) == 0 {
		return
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	s.seed()
	for i := range p {
		b, err := s.stream.NextByte()
		if err != nil {
			panic(fmt.Sprintf("rng: stream failure after seeding: %s", err))
		}
		p[i] = b
	}

	if s.observer != nil {
		s.observer.Generated(len(p))
	}
}

// seed keys the stream from the pool, once. The lock must be held.
func (s *Source) seed() {
	if s.stream.Seeded() {
		return
	}

	s.pool.FillIfEmpty()
	s.pool.MixTimestamp()
	report, _ := s.pool.Report()

	err := s.stream.Init(s.pool.ConsumeAndClear())
	if err != nil {
		// Only reachable if the pool has no capacity, which NewSource rejects.
		panic(fmt.Sprintf("rng: failed to key stream: %s", err))
	}

	log.Debugf("rng: keyed stream from %d byte pool (source=%s tier=%s pad=%d)",
		s.pool.Size(), report.Source, report.Tier, report.PadBytes)
	if s.observer != nil {
		s.observer.Seeded(report)
	}
}

// Bytes allocates a new byte slice of given length and fills it with random data.
func (s *Source) Bytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCount, n)
	}

	b := make([]byte, n)
	s.NextBytes(b)
	return b, nil
}

// Read implements io.Reader. It always fills p completely and never fails.
func (s *Source) Read(p []byte) (n int, err error) {
	s.NextBytes(p)
	return len(p), nil
}

// Number returns a random number from 0 to (incl.) max.
func (s *Source) Number(max uint64) uint64 {
	var buf [8]byte

	switch max {
	case 0:
		return 0
	case math.MaxUint64:
		s.NextBytes(buf[:])
		return binary.LittleEndian.Uint64(buf[:])
	}

	// Only accept candidates below the largest multiple of max+1 to avoid modulo bias.
	n := max + 1
	secureLimit := math.MaxUint64 - (math.MaxUint64 % n)
	for {
		s.NextBytes(buf[:])
		candidate := binary.LittleEndian.Uint64(buf[:])
		if candidate < secureLimit {
			return candidate % n
		}
	}
}

// Seeded returns whether the pool has keyed the stream.
func (s *Source) Seeded() bool {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.stream.Seeded()
}

// SeedReport returns how the pool was filled, if it was filled yet.
func (s *Source) SeedReport() (SeedReport, bool) {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.pool.Report()
}

// PoolSize returns the entropy pool capacity.
func (s *Source) PoolSize() int {
	return s.pool.Size()
}
