package scholargo

import (
	"errors"
	"fmt"
	"time"
)

// Error type tags carried by APIError. Classification works on this small
// closed set, never on concrete error hierarchies.
const (
	// ErrorTypeConnectivity covers transport-level failures: unreachable
	// host, timed out request, or a circuit-open fast fail.
	ErrorTypeConnectivity = "Connectivity"
	// ErrorTypeServer covers upstream 5xx responses.
	ErrorTypeServer = "Server"
	// ErrorTypeRateLimit covers upstream throttling (HTTP 429).
	ErrorTypeRateLimit = "RateLimit"
	// ErrorTypeNotFound covers missing resources (HTTP 404).
	ErrorTypeNotFound = "NotFound"
	// ErrorTypeAuth covers rejected credentials (HTTP 401/403).
	ErrorTypeAuth = "Authentication"
	// ErrorTypeClient covers remaining 4xx responses.
	ErrorTypeClient = "Client"
	// ErrorTypeValidation covers invalid client configuration.
	ErrorTypeValidation = "Validation"
)

// Sentinel errors for common failure scenarios
var (
	// ErrCircuitOpen is returned when the circuit breaker rejects a call
	// without invoking it.
	ErrCircuitOpen = errors.New("scholargo: circuit open")

	// ErrCacheDisabled is returned by cache-only helpers when the response
	// cache is turned off.
	ErrCacheDisabled = errors.New("scholargo: cache disabled")
)

// APIError is the error type produced by the request pipeline. Type is one
// of the ErrorType* constants; StatusCode and RetryAfter are populated when
// the upstream responded.
type APIError struct {
	Type       string
	Message    string
	StatusCode int
	Endpoint   string
	RetryAfter time.Duration
	Cause      error
}

// Error implements error interface.
func (e *APIError) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := fmt.Sprintf("%s: %s", e.Type, e.Message)
	if e.StatusCode > 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s (%v)", msg, e.Cause)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *APIError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Is compares error types for errors.Is.
func (e *APIError) Is(target error) bool {
	if e == nil {
		return false
	}
	if targetErr, ok := target.(*APIError); ok {
		return e.Type == targetErr.Type
	}
	return false
}

// IsQualifyingFailure reports whether an error counts toward circuit
// breaker failure accounting. Connectivity and upstream 5xx failures
// qualify; rate limiting, not found, authentication and anything the
// classifier does not recognize (including context cancellation) do not.
// Unknown kinds default to non-qualifying so a misclassified error never
// trips the breaker.
func IsQualifyingFailure(err error) bool {
	if err == nil {
		return false
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Type {
		case ErrorTypeConnectivity, ErrorTypeServer:
			return true
		default:
			return false
		}
	}

	return false
}

// IsRateLimited reports whether err is an upstream throttling error.
// Useful for callers implementing their own retry policy.
func IsRateLimited(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Type == ErrorTypeRateLimit
}

// asAPIError extracts the *APIError from an error chain, or nil.
func asAPIError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return nil
}

// IsNotFound reports whether err is a missing-resource error.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Type == ErrorTypeNotFound
}

// newStatusError maps a non-2xx upstream status to an APIError.
func newStatusError(statusCode int, endpoint string, retryAfter time.Duration) *APIError {
	switch {
	case statusCode == 429:
		return &APIError{
			Type:       ErrorTypeRateLimit,
			Message:    fmt.Sprintf("rate limit exceeded for %s; consider using an API key for higher limits", endpoint),
			StatusCode: statusCode,
			Endpoint:   endpoint,
			RetryAfter: retryAfter,
		}
	case statusCode == 401 || statusCode == 403:
		return &APIError{
			Type:       ErrorTypeAuth,
			Message:    fmt.Sprintf("authentication failed for %s; verify the API key is valid", endpoint),
			StatusCode: statusCode,
			Endpoint:   endpoint,
		}
	case statusCode == 404:
		return &APIError{
			Type:       ErrorTypeNotFound,
			Message:    fmt.Sprintf("resource not found: %s (for DOIs use 'DOI:10.xxxx/xxxxx', for ArXiv IDs 'ARXIV:xxxx.xxxxx')", endpoint),
			StatusCode: statusCode,
			Endpoint:   endpoint,
		}
	case statusCode >= 500 && statusCode < 600:
		return &APIError{
			Type:       ErrorTypeServer,
			Message:    fmt.Sprintf("upstream server error for %s; usually temporary", endpoint),
			StatusCode: statusCode,
			Endpoint:   endpoint,
		}
	default:
		return &APIError{
			Type:       ErrorTypeClient,
			Message:    fmt.Sprintf("API error for %s", endpoint),
			StatusCode: statusCode,
			Endpoint:   endpoint,
		}
	}
}
