package scholargo

import (
	"context"
	"math"
	"sync"
	"time"
)

// TokenBucket is a blocking token bucket rate limiter. It controls request
// frequency before requests are sent rather than reacting to 429 responses.
// One bucket is shared across all calls issued by a Client.
type TokenBucket struct {
	rate     float64 // tokens per second
	capacity float64 // max burst

	mu         sync.Mutex
	tokens     float64
	lastUpdate time.Time
}

// NewTokenBucket creates a token bucket that refills at rate tokens per
// second up to capacity. The bucket starts full.
func NewTokenBucket(rate, capacity float64) *TokenBucket {
	if rate <= 0 {
		rate = 1
	}
	if capacity <= 0 {
		capacity = 1
	}
	return &TokenBucket{
		rate:       rate,
		capacity:   capacity,
		tokens:     capacity,
		lastUpdate: time.Now(),
	}
}

// NewTokenBucketForProfile selects the bucket profile by API key presence.
// A key grants a dedicated 1 request/second allowance; without one the
// shared pool is estimated conservatively at 10 requests/second with burst
// headroom.
func NewTokenBucketForProfile(hasAPIKey bool) *TokenBucket {
	if hasAPIKey {
		return NewTokenBucket(1.0, 1.0)
	}
	return NewTokenBucket(10.0, 20.0)
}

// Acquire blocks until a token is available, consumes it, and returns the
// time spent waiting (zero when a token was immediately available). The
// wait happens outside the bucket's lock so concurrent callers can refill
// and consume independently. A caller cancelled mid-wait consumes nothing.
func (tb *TokenBucket) Acquire(ctx context.Context) (time.Duration, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	tb.mu.Lock()
	now := time.Now()
	elapsed := now.Sub(tb.lastUpdate).Seconds()
	tb.tokens = math.Min(tb.capacity, tb.tokens+elapsed*tb.rate)
	tb.lastUpdate = now

	if tb.tokens >= 1 {
		tb.tokens--
		tb.mu.Unlock()
		return 0, nil
	}

	deficit := 1 - tb.tokens
	wait := time.Duration(deficit / tb.rate * float64(time.Second))
	tb.mu.Unlock()

	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	case <-timer.C:
	}

	// The wait itself paid for the token: everything accumulated plus the
	// remainder we slept for is considered consumed.
	tb.mu.Lock()
	tb.tokens = 0
	tb.lastUpdate = time.Now()
	tb.mu.Unlock()

	return wait, nil
}

// Rate returns the refill rate in tokens per second.
func (tb *TokenBucket) Rate() float64 { return tb.rate }

// Capacity returns the maximum burst size.
func (tb *TokenBucket) Capacity() float64 { return tb.capacity }

// Tokens returns the current token balance after refilling. Intended for
// metrics and tests.
func (tb *TokenBucket) Tokens() float64 {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	now := time.Now()
	elapsed := now.Sub(tb.lastUpdate).Seconds()
	tb.tokens = math.Min(tb.capacity, tb.tokens+elapsed*tb.rate)
	tb.lastUpdate = now
	return tb.tokens
}
