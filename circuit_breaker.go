package scholargo

import (
	"context"
	"sync"
	"time"
)

// CircuitState represents the state of the circuit breaker
type CircuitState int

const (
	StateClosed CircuitState = iota
	StateOpen
	StateHalfOpen
)

// String returns the state name.
func (s CircuitState) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// CircuitBreakerConfig holds circuit breaker configuration
type CircuitBreakerConfig struct {
	// FailureThreshold is the number of consecutive qualifying failures
	// that opens the circuit.
	FailureThreshold int
	// RecoveryTimeout is how long the circuit stays open before admitting
	// recovery probes.
	RecoveryTimeout time.Duration
	// HalfOpenMaxCalls caps probe calls admitted while half-open.
	HalfOpenMaxCalls int
}

// CircuitBreaker is a failure-triggered fast-fail state machine. It never
// retries; it only decides whether a call may be attempted and whether its
// outcome affects state. One breaker instance is shared by all pipeline
// invocations of a Client.
type CircuitBreaker struct {
	config CircuitBreakerConfig

	mu            sync.Mutex
	state         CircuitState
	failureCount  int
	openedAt      time.Time
	halfOpenCalls int
}

// NewCircuitBreaker creates a new circuit breaker
func NewCircuitBreaker(config CircuitBreakerConfig) *CircuitBreaker {
	if config.FailureThreshold <= 0 {
		config.FailureThreshold = 5
	}
	if config.RecoveryTimeout <= 0 {
		config.RecoveryTimeout = 30 * time.Second
	}
	if config.HalfOpenMaxCalls <= 0 {
		config.HalfOpenMaxCalls = 1
	}

	return &CircuitBreaker{
		config: config,
		state:  StateClosed,
	}
}

// Call runs op through the breaker. When the circuit is open (or the
// half-open probe budget is spent) it returns ErrCircuitOpen without
// invoking op. Otherwise op runs and its outcome is classified by
// qualifies: qualifying failures advance breaker state, non-qualifying
// failures leave state and counters untouched and propagate unchanged.
func (cb *CircuitBreaker) Call(ctx context.Context, op func(context.Context) error, qualifies func(error) bool) error {
	if !cb.admit() {
		return ErrCircuitOpen
	}

	err := op(ctx)
	cb.record(err, qualifies)
	return err
}

// admit decides whether a call may proceed, performing the open→half-open
// transition when the recovery timeout has elapsed.
func (cb *CircuitBreaker) admit() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state == StateOpen {
		if time.Since(cb.openedAt) < cb.config.RecoveryTimeout {
			return false
		}
		cb.state = StateHalfOpen
		cb.halfOpenCalls = 0
	}

	if cb.state == StateHalfOpen {
		if cb.halfOpenCalls >= cb.config.HalfOpenMaxCalls {
			return false
		}
		cb.halfOpenCalls++
	}

	return true
}

func (cb *CircuitBreaker) record(err error, qualifies func(error) bool) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if err == nil {
		cb.failureCount = 0
		if cb.state == StateHalfOpen {
			cb.state = StateClosed
		}
		return
	}

	if qualifies == nil || !qualifies(err) {
		// Non-qualifying failures preserve the consecutive-failure streak.
		return
	}

	switch cb.state {
	case StateClosed:
		cb.failureCount++
		if cb.failureCount >= cb.config.FailureThreshold {
			cb.state = StateOpen
			cb.openedAt = time.Now()
		}
	case StateHalfOpen:
		cb.state = StateOpen
		cb.openedAt = time.Now()
	}
}

// State returns the current circuit breaker state.
func (cb *CircuitBreaker) State() CircuitState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// FailureCount returns the consecutive qualifying failure count.
func (cb *CircuitBreaker) FailureCount() int {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.failureCount
}

// Config returns the breaker's configuration.
func (cb *CircuitBreaker) Config() CircuitBreakerConfig {
	return cb.config
}
