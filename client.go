package scholargo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ambiyansyah-risyal/scholargo/internal/singleflight"
)

// maxResponseSize bounds how much of an upstream body is read (10 MiB).
const maxResponseSize = 10 * 1024 * 1024

// Client is a resilient Semantic Scholar API client. Every outbound call
// passes through one pipeline: response cache, token bucket, circuit
// breaker, transport. It is safe for concurrent use; construct one Client
// per process and share it.
type Client struct {
	httpClient     *http.Client
	apiKey         string
	graphBaseURL   string
	recoBaseURL    string
	rateLimiter    *TokenBucket
	circuitBreaker *CircuitBreaker
	cache          *ResponseCache
	dedup          *singleflight.Group
	metrics        *MetricsCollector
	debug          *DebugConfig
	logger         Logger

	validationError error
}

// New constructs a Client using the provided functional options. A best
// effort validation is performed; call IsValid / ValidationError for errors.
func New(options ...Option) *Client {
	client := &Client{
		httpClient:     &http.Client{Timeout: 30 * time.Second},
		graphBaseURL:   DefaultGraphBaseURL,
		recoBaseURL:    DefaultRecommendationsBaseURL,
		circuitBreaker: NewCircuitBreaker(CircuitBreakerConfig{}),
		cache:          NewResponseCache(DefaultCacheConfig()),
		debug:          DefaultDebugConfig(),
	}

	for _, option := range options {
		option(client)
	}

	// Bucket profile depends on API key presence; only pick it once all
	// options have been applied, and never override an explicit limiter.
	if client.rateLimiter == nil {
		client.rateLimiter = NewTokenBucketForProfile(client.apiKey != "")
	}
	if client.debug == nil {
		client.debug = DefaultDebugConfig()
	}

	if err := client.ValidateConfiguration(); err != nil {
		client.validationError = err
	}

	return client
}

// Get performs a GET request against the Graph API.
func (c *Client) Get(ctx context.Context, endpoint string, params url.Values) (json.RawMessage, error) {
	return c.Do(ctx, Request{Method: http.MethodGet, Endpoint: endpoint, Params: params})
}

// Post performs a POST request against the Graph API with a JSON body.
func (c *Client) Post(ctx context.Context, endpoint string, params url.Values, body any) (json.RawMessage, error) {
	return c.Do(ctx, Request{Method: http.MethodPost, Endpoint: endpoint, Params: params, Body: body})
}

// Do executes a described call applying all reliability layers: cache
// lookup (a hit bypasses limiter and breaker entirely), token acquisition
// (may block), circuit breaker admission, transport, then outcome
// classification feeding breaker and cache.
func (c *Client) Do(ctx context.Context, req Request) (json.RawMessage, error) {
	if req.Method == "" {
		req.Method = http.MethodGet
	}
	endpoint := req.Endpoint

	var requestID string
	if c.debug != nil && c.debug.Enabled && c.debug.RequestIDGen != nil {
		requestID = c.debug.RequestIDGen()
	}
	if c.debugEnabled(c.debug.LogRequests) {
		c.logger.Debug("starting request", "requestID", requestID, "method", req.Method, "endpoint", endpoint)
	}

	c.metrics.RecordRequestStart(req.Method, endpoint)
	defer c.metrics.RecordRequestEnd(req.Method, endpoint)

	var body []byte
	if req.Body != nil {
		var err error
		body, err = json.Marshal(req.Body)
		if err != nil {
			return nil, &APIError{Type: ErrorTypeValidation, Message: "encoding request body", Endpoint: endpoint, Cause: err}
		}
	}

	cacheable := c.shouldCache(req)

	var key string
	if cacheable {
		key = CacheKey(endpoint, req.Params, body)
		if value, found := c.cache.Get(key); found {
			c.metrics.RecordCacheHit(req.Method, endpoint)
			if c.debugEnabled(c.debug.LogCache) {
				c.logger.Debug("cache hit", "requestID", requestID, "cacheKey", key)
			}
			return value, nil
		}
		c.metrics.RecordCacheMiss(req.Method, endpoint)
	}

	if c.dedup != nil && cacheable {
		val, err, shared := c.dedup.Do(ctx, key, func() (any, error) {
			return c.execute(ctx, req, body, cacheable, key, requestID)
		})
		if shared {
			c.metrics.RecordDeduplicationHit(req.Method, endpoint)
		}
		if err != nil {
			return nil, err
		}
		return val.(json.RawMessage), nil
	}

	return c.execute(ctx, req, body, cacheable, key, requestID)
}

// execute runs the rate limiter, circuit breaker and transport stages.
func (c *Client) execute(ctx context.Context, req Request, body []byte, cacheable bool, key, requestID string) (json.RawMessage, error) {
	start := time.Now()
	endpoint := req.Endpoint

	if c.rateLimiter != nil {
		wait, err := c.rateLimiter.Acquire(ctx)
		if err != nil {
			return nil, err
		}
		c.metrics.RecordRateLimiterWait("default", wait)
		c.metrics.RecordRateLimiterTokens("default", c.rateLimiter.Tokens())
		if wait > 0 && c.debugEnabled(c.debug.LogRateLimit) {
			c.logger.Debug("rate limiter wait", "requestID", requestID, "wait", wait)
		}
	}

	var result json.RawMessage
	var statusCode int
	op := func(ctx context.Context) error {
		raw, status, err := c.roundTrip(ctx, req, body)
		statusCode = status
		if err != nil {
			return err
		}
		result = raw
		return nil
	}

	err := c.circuitBreaker.Call(ctx, op, IsQualifyingFailure)
	c.metrics.RecordCircuitBreakerState("default", c.circuitBreaker.State())

	duration := time.Since(start)

	if errors.Is(err, ErrCircuitOpen) {
		if c.debugEnabled(c.debug.LogCircuit) {
			c.logger.Warn("circuit breaker open", "requestID", requestID, "endpoint", endpoint)
		}
		c.metrics.RecordError(ErrorTypeConnectivity, req.Method, endpoint)
		return nil, &APIError{
			Type:     ErrorTypeConnectivity,
			Message:  "service temporarily unavailable: circuit breaker is open due to repeated failures",
			Endpoint: endpoint,
			Cause:    ErrCircuitOpen,
		}
	}

	c.metrics.RecordRequest(req.Method, endpoint, statusCode, duration)

	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			c.metrics.RecordError(apiErr.Type, req.Method, endpoint)
		}
		return nil, err
	}

	if cacheable {
		c.cache.Set(key, result, endpoint, req.CacheTTL)
		c.metrics.RecordCacheSize("default", c.cache.Len())
		if c.debugEnabled(c.debug.LogCache) {
			c.logger.Debug("response cached", "requestID", requestID, "cacheKey", key)
		}
	}

	return result, nil
}

// roundTrip performs the actual transport call and classifies the outcome.
func (c *Client) roundTrip(ctx context.Context, req Request, body []byte) (json.RawMessage, int, error) {
	base := c.graphBaseURL
	if req.API == RecommendationsAPI {
		base = c.recoBaseURL
	}
	u := base + req.Endpoint
	if len(req.Params) > 0 {
		u += "?" + req.Params.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, u, reader)
	if err != nil {
		return nil, 0, &APIError{Type: ErrorTypeValidation, Message: "building request", Endpoint: req.Endpoint, Cause: err}
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		httpReq.Header.Set("x-api-key", c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		// Caller cancellation is not an upstream failure; leave it
		// unwrapped so the breaker ignores it. Timeouts are connectivity.
		if errors.Is(err, context.Canceled) {
			return nil, 0, fmt.Errorf("request cancelled: %w", err)
		}
		return nil, 0, &APIError{
			Type:     ErrorTypeConnectivity,
			Message:  "request to Semantic Scholar API failed",
			Endpoint: req.Endpoint,
			Cause:    err,
		}
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, resp.StatusCode, &APIError{
			Type:     ErrorTypeConnectivity,
			Message:  "reading response body",
			Endpoint: req.Endpoint,
			Cause:    err,
		}
	}

	if resp.StatusCode >= 400 {
		retryAfter := parseRetryAfter(resp.Header.Get("Retry-After"))
		return nil, resp.StatusCode, newStatusError(resp.StatusCode, req.Endpoint, retryAfter)
	}

	return data, resp.StatusCode, nil
}

// shouldCache reports whether a call's result may be served from and
// stored into the cache: reads always, writes only on the idempotent
// allow-list.
func (c *Client) shouldCache(req Request) bool {
	if req.NoCache || !c.cache.Enabled() {
		return false
	}
	switch req.Method {
	case http.MethodGet:
		return true
	case http.MethodPost:
		for _, prefix := range cacheablePostEndpoints {
			if strings.HasPrefix(req.Endpoint, prefix) {
				return true
			}
		}
	}
	return false
}

func (c *Client) debugEnabled(flag bool) bool {
	return c.debug != nil && c.debug.Enabled && flag && c.logger != nil
}

// Cache exposes the client's response cache for invalidation and stats.
func (c *Client) Cache() *ResponseCache {
	return c.cache
}

// CircuitBreakerState returns the breaker's current state.
func (c *Client) CircuitBreakerState() CircuitState {
	return c.circuitBreaker.State()
}

// IsValid reports whether configuration validation passed at construction.
func (c *Client) IsValid() bool {
	return c.validationError == nil
}

// ValidationError returns the configuration validation error, if any.
func (c *Client) ValidationError() error {
	return c.validationError
}

// parseRetryAfter parses a Retry-After header value, supporting both
// delay-seconds and HTTP-date formats. Capped at one hour.
func parseRetryAfter(value string) time.Duration {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}

	if seconds, err := strconv.Atoi(value); err == nil {
		if seconds <= 0 {
			return 0
		}
		delay := time.Duration(seconds) * time.Second
		if delay > time.Hour {
			delay = time.Hour
		}
		return delay
	}

	if t, err := http.ParseTime(value); err == nil {
		delay := time.Until(t)
		if delay < 0 {
			return 0
		}
		if delay > time.Hour {
			delay = time.Hour
		}
		return delay
	}

	return 0
}
