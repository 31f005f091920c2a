// Package rng provides a pooled, lazily keyed pseudo random byte generator.
//
// Entropy is collected into a fixed size pool from tiered seed sources:
//   - the OS CSPRNG (`crypto/rand`),
//   - else a lower quality platform source (getrandom with GRND_INSECURE, scheduler jitter),
//   - and always a non-cryptographic pad (github.com/valyala/fastrand) until the pool is full.
//
// On the first byte request the pool keys an ARC4 keystream generator exactly once and is
// then zeroed. Further mixing into the pool is accepted, but has no effect on the output.
//
// The generator reproduces the classic "entropy pool + arcfour" design. It is not a
// replacement for crypto/rand.
package rng
