package scholargo

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ambiyansyah-risyal/scholargo/internal/backoff"
)

// RetryConfig controls retry behavior for rate-limited requests.
type RetryConfig struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
	Multiplier float64
	Jitter     float64
}

// DefaultRetryConfig returns the retry defaults tuned for the Semantic
// Scholar API's 429 behavior.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: 5,
		BaseDelay:  time.Second,
		MaxDelay:   60 * time.Second,
		Multiplier: 2.0,
		Jitter:     0.1,
	}
}

// DoWithRetry executes the request, retrying only rate limit responses.
// A server-provided Retry-After takes precedence over computed backoff.
// Other failures, including circuit open errors, are returned immediately
// so the breaker and caller see them without delay.
func (c *Client) DoWithRetry(ctx context.Context, req Request, cfg RetryConfig) (json.RawMessage, error) {
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}

	params := backoff.Params{
		Base:       cfg.BaseDelay,
		Max:        cfg.MaxDelay,
		Multiplier: cfg.Multiplier,
		Jitter:     cfg.Jitter,
	}

	var lastErr error
	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		result, err := c.Do(ctx, req)
		if err == nil {
			return result, nil
		}
		if !IsRateLimited(err) {
			return nil, err
		}
		lastErr = err

		if attempt == cfg.MaxRetries {
			break
		}

		delay := backoff.Exponential(attempt, params)
		if retryAfter := retryAfterOf(err); retryAfter > 0 {
			delay = backoff.Jittered(retryAfter, cfg.Jitter)
		}

		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		}
	}

	return nil, lastErr
}

func retryAfterOf(err error) time.Duration {
	if apiErr := asAPIError(err); apiErr != nil {
		return apiErr.RetryAfter
	}
	return 0
}
