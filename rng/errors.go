package rng

import "errors"

// Errors.
var (
	// ErrInvalidKey is returned when keying a Stream with an empty key.
	ErrInvalidKey = errors.New("rng: key must not be empty")
	// ErrNotSeeded is returned when reading from a Stream that was never keyed.
	ErrNotSeeded = errors.New("rng: stream has not been seeded")
	// ErrInvalidCount is returned when requesting a negative amount of bytes.
	ErrInvalidCount = errors.New("rng: byte count must not be negative")
	// ErrInvalidPoolSize is returned when creating a Source with an unusable pool size.
	ErrInvalidPoolSize = errors.New("rng: pool size must be positive")
	// ErrNotReady is returned by the package level functions before the random module started.
	ErrNotReady = errors.New("rng: not ready yet")

	errSourceUnavailable = errors.New("rng: seed source not available on this platform")
)
