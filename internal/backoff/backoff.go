// Package backoff provides delay calculation for retry loops.
package backoff

import (
	"math/rand"
	"time"
)

// Params configures exponential backoff.
type Params struct {
	Base       time.Duration
	Max        time.Duration
	Multiplier float64
	Jitter     float64 // fraction of the delay added as uniform jitter, clamped to [0,1]
}

// Exponential returns the delay for the given zero-indexed attempt:
// Base * Multiplier^attempt capped at Max, plus uniform jitter.
func Exponential(attempt int, p Params) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	// Cap the exponent so the float math cannot overflow into negatives.
	if attempt > 30 {
		attempt = 30
	}

	mult := 1.0
	for i := 0; i < attempt; i++ {
		mult *= p.Multiplier
	}

	delay := time.Duration(float64(p.Base) * mult)
	if delay < 0 || delay > p.Max {
		delay = p.Max
	}
	return Jittered(delay, p.Jitter)
}

// Jittered adds uniform random jitter of up to d*jitter to d. Useful on
// its own for server-specified delays (Retry-After).
func Jittered(d time.Duration, jitter float64) time.Duration {
	if jitter < 0 {
		jitter = 0
	}
	if jitter > 1 {
		jitter = 1
	}
	if jitter == 0 || d <= 0 {
		return d
	}
	return d + time.Duration(float64(d)*jitter*rand.Float64())
}
