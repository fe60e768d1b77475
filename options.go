package scholargo

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ambiyansyah-risyal/scholargo/internal/singleflight"
)

// WithAPIKey sets the Semantic Scholar API key sent as x-api-key. Presence
// of a key also selects the stricter authenticated rate limit profile
// unless a custom limiter is configured.
func WithAPIKey(key string) Option {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithGraphBaseURL overrides the Graph API base URL.
func WithGraphBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.graphBaseURL = baseURL
	}
}

// WithRecommendationsBaseURL overrides the Recommendations API base URL.
func WithRecommendationsBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.recoBaseURL = baseURL
	}
}

// WithTimeout sets the underlying HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithRateLimiter sets a custom token bucket, overriding profile selection.
func WithRateLimiter(limiter *TokenBucket) Option {
	return func(c *Client) {
		c.rateLimiter = limiter
	}
}

// WithRateLimit configures the token bucket from a rate and burst capacity.
func WithRateLimit(requestsPerSecond, capacity float64) Option {
	return func(c *Client) {
		c.rateLimiter = NewTokenBucket(requestsPerSecond, capacity)
	}
}

// WithCircuitBreaker configures the circuit breaker.
func WithCircuitBreaker(config CircuitBreakerConfig) Option {
	return func(c *Client) {
		c.circuitBreaker = NewCircuitBreaker(config)
	}
}

// WithCache configures the response cache.
func WithCache(config CacheConfig) Option {
	return func(c *Client) {
		c.cache = NewResponseCache(config)
	}
}

// WithoutCache disables response caching entirely.
func WithoutCache() Option {
	return func(c *Client) {
		cfg := DefaultCacheConfig()
		cfg.Enabled = false
		c.cache = NewResponseCache(cfg)
	}
}

// WithMetrics enables Prometheus metrics on the default registerer.
func WithMetrics() Option {
	return func(c *Client) {
		c.metrics = NewMetricsCollector()
	}
}

// WithMetricsRegistry enables Prometheus metrics on the given registerer.
func WithMetricsRegistry(registry prometheus.Registerer) Option {
	return func(c *Client) {
		c.metrics = NewMetricsCollectorWithRegistry(registry)
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug enables debug logging with default settings and a SimpleLogger
// when no logger is configured.
func WithDebug() Option {
	return func(c *Client) {
		c.debug = DefaultDebugConfig()
		c.debug.Enabled = true
		if c.logger == nil {
			c.logger = NewSimpleLogger()
		}
	}
}

// WithDebugConfig sets a custom debug configuration.
func WithDebugConfig(config *DebugConfig) Option {
	return func(c *Client) {
		c.debug = config
	}
}

// WithRequestIDGenerator sets the generator for per-request correlation IDs.
func WithRequestIDGenerator(generator func() string) Option {
	return func(c *Client) {
		if c.debug == nil {
			c.debug = DefaultDebugConfig()
		}
		c.debug.RequestIDGen = generator
	}
}

// WithDeduplication coalesces concurrent identical cacheable requests into
// a single upstream call.
func WithDeduplication() Option {
	return func(c *Client) {
		c.dedup = singleflight.New()
	}
}

// ValidateConfiguration checks the client configuration for invalid values.
func (c *Client) ValidateConfiguration() error {
	// HTTP client validation
	if c.httpClient == nil {
		return fmt.Errorf("http client cannot be nil")
	}
	if c.httpClient.Timeout < 0 {
		return fmt.Errorf("timeout cannot be negative, got %v", c.httpClient.Timeout)
	}

	// Base URL validation
	for _, baseURL := range []string{c.graphBaseURL, c.recoBaseURL} {
		if baseURL == "" {
			return fmt.Errorf("base URL cannot be empty")
		}
		if _, err := url.ParseRequestURI(baseURL); err != nil {
			return fmt.Errorf("invalid base URL %q: %w", baseURL, err)
		}
	}

	// Rate limiter validation
	if c.rateLimiter != nil {
		if c.rateLimiter.Rate() <= 0 {
			return fmt.Errorf("rate limiter rate must be positive, got %v", c.rateLimiter.Rate())
		}
		if c.rateLimiter.Capacity() < 1 {
			return fmt.Errorf("rate limiter capacity must be at least 1, got %v", c.rateLimiter.Capacity())
		}
	}

	// Circuit breaker validation
	if c.circuitBreaker != nil {
		cfg := c.circuitBreaker.Config()
		if cfg.FailureThreshold < 1 {
			return fmt.Errorf("circuit breaker failure threshold must be at least 1, got %d", cfg.FailureThreshold)
		}
		if cfg.RecoveryTimeout <= 0 {
			return fmt.Errorf("circuit breaker recovery timeout must be positive, got %v", cfg.RecoveryTimeout)
		}
		if cfg.HalfOpenMaxCalls < 1 {
			return fmt.Errorf("circuit breaker half-open max calls must be at least 1, got %d", cfg.HalfOpenMaxCalls)
		}
	}

	// Cache validation
	if c.cache != nil && c.cache.Enabled() {
		cfg := c.cache.Config()
		if cfg.MaxEntries < 1 {
			return fmt.Errorf("cache max entries must be at least 1, got %d", cfg.MaxEntries)
		}
		for _, ttl := range []time.Duration{cfg.DefaultTTL, cfg.PaperTTL, cfg.SearchTTL} {
			if ttl <= 0 {
				return fmt.Errorf("cache TTLs must be positive, got %v", ttl)
			}
		}
	}

	return nil
}
