package scholargo

import (
	"context"
	"errors"
	"testing"
	"time"
)

func alwaysQualifies(error) bool { return true }

func failingOp(err error) func(context.Context) error {
	return func(context.Context) error { return err }
}

func succeedingOp(context.Context) error { return nil }

func TestCircuitBreakerOpensAtThreshold(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		FailureThreshold: 3,
		RecoveryTimeout:  time.Minute,
	})
	ctx := context.Background()
	failure := errors.New("boom")

	for i := 0; i < 2; i++ {
		_ = cb.Call(ctx, failingOp(failure), alwaysQualifies)
		if cb.State() != StateClosed {
			t.Fatalf("breaker opened after %d failures, threshold is 3", i+1)
		}
	}

	_ = cb.Call(ctx, failingOp(failure), alwaysQualifies)
	if cb.State() != StateOpen {
		t.Errorf("breaker state = %v after 3 failures, want open", cb.State())
	}
}

func TestCircuitBreakerFastFailsWithoutInvoking(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		FailureThreshold: 1,
		RecoveryTimeout:  time.Minute,
	})
	ctx := context.Background()

	_ = cb.Call(ctx, failingOp(errors.New("boom")), alwaysQualifies)

	invoked := false
	err := cb.Call(ctx, func(context.Context) error {
		invoked = true
		return nil
	}, alwaysQualifies)

	if !errors.Is(err, ErrCircuitOpen) {
		t.Errorf("expected ErrCircuitOpen, got %v", err)
	}
	if invoked {
		t.Error("operation was invoked while circuit was open")
	}
}

func TestCircuitBreakerRecoversThroughHalfOpen(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		FailureThreshold: 1,
		RecoveryTimeout:  20 * time.Millisecond,
	})
	ctx := context.Background()

	_ = cb.Call(ctx, failingOp(errors.New("boom")), alwaysQualifies)
	if cb.State() != StateOpen {
		t.Fatalf("breaker state = %v, want open", cb.State())
	}

	time.Sleep(30 * time.Millisecond)

	if err := cb.Call(ctx, succeedingOp, alwaysQualifies); err != nil {
		t.Fatalf("probe call failed: %v", err)
	}
	if cb.State() != StateClosed {
		t.Errorf("breaker state = %v after successful probe, want closed", cb.State())
	}
	if cb.FailureCount() != 0 {
		t.Errorf("failure count = %d after recovery, want 0", cb.FailureCount())
	}
}

func TestCircuitBreakerReopensOnProbeFailure(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		FailureThreshold: 1,
		RecoveryTimeout:  20 * time.Millisecond,
	})
	ctx := context.Background()

	_ = cb.Call(ctx, failingOp(errors.New("boom")), alwaysQualifies)
	time.Sleep(30 * time.Millisecond)

	_ = cb.Call(ctx, failingOp(errors.New("still broken")), alwaysQualifies)
	if cb.State() != StateOpen {
		t.Errorf("breaker state = %v after failed probe, want open", cb.State())
	}

	// The fresh open period starts from the probe failure.
	err := cb.Call(ctx, succeedingOp, alwaysQualifies)
	if !errors.Is(err, ErrCircuitOpen) {
		t.Errorf("expected fast fail immediately after reopen, got %v", err)
	}
}

func TestCircuitBreakerHalfOpenProbeBudget(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		FailureThreshold: 1,
		RecoveryTimeout:  20 * time.Millisecond,
		HalfOpenMaxCalls: 1,
	})
	ctx := context.Background()

	_ = cb.Call(ctx, failingOp(errors.New("boom")), alwaysQualifies)
	time.Sleep(30 * time.Millisecond)

	probeStarted := make(chan struct{})
	probeRelease := make(chan struct{})
	probeDone := make(chan error, 1)
	go func() {
		probeDone <- cb.Call(ctx, func(context.Context) error {
			close(probeStarted)
			<-probeRelease
			return nil
		}, alwaysQualifies)
	}()

	<-probeStarted

	// Second call while the probe is in flight must be rejected.
	err := cb.Call(ctx, succeedingOp, alwaysQualifies)
	if !errors.Is(err, ErrCircuitOpen) {
		t.Errorf("expected ErrCircuitOpen while probe in flight, got %v", err)
	}

	close(probeRelease)
	if err := <-probeDone; err != nil {
		t.Fatalf("probe failed: %v", err)
	}
	if cb.State() != StateClosed {
		t.Errorf("breaker state = %v after probe success, want closed", cb.State())
	}
}

func TestCircuitBreakerIgnoresNonQualifyingFailures(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		FailureThreshold: 3,
		RecoveryTimeout:  time.Minute,
	})
	ctx := context.Background()
	notFound := &APIError{Type: ErrorTypeNotFound, StatusCode: 404}

	for i := 0; i < 10; i++ {
		err := cb.Call(ctx, failingOp(notFound), IsQualifyingFailure)
		if !errors.Is(err, notFound) {
			t.Fatalf("expected original error back, got %v", err)
		}
	}

	if cb.State() != StateClosed {
		t.Errorf("breaker opened on non-qualifying failures")
	}
	if cb.FailureCount() != 0 {
		t.Errorf("failure count = %d, non-qualifying failures should not count", cb.FailureCount())
	}
}

func TestCircuitBreakerNonQualifyingPreservesStreak(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		FailureThreshold: 3,
		RecoveryTimeout:  time.Minute,
	})
	ctx := context.Background()
	server := &APIError{Type: ErrorTypeServer, StatusCode: 500}
	rateLimit := &APIError{Type: ErrorTypeRateLimit, StatusCode: 429}

	_ = cb.Call(ctx, failingOp(server), IsQualifyingFailure)
	_ = cb.Call(ctx, failingOp(server), IsQualifyingFailure)
	_ = cb.Call(ctx, failingOp(rateLimit), IsQualifyingFailure)

	if cb.FailureCount() != 2 {
		t.Fatalf("failure count = %d after interleaved 429, want 2", cb.FailureCount())
	}

	_ = cb.Call(ctx, failingOp(server), IsQualifyingFailure)
	if cb.State() != StateOpen {
		t.Errorf("breaker state = %v, the preserved streak should open at 3", cb.State())
	}
}

func TestCircuitBreakerSuccessResetsFailureCount(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		FailureThreshold: 3,
		RecoveryTimeout:  time.Minute,
	})
	ctx := context.Background()

	_ = cb.Call(ctx, failingOp(errors.New("boom")), alwaysQualifies)
	_ = cb.Call(ctx, failingOp(errors.New("boom")), alwaysQualifies)
	_ = cb.Call(ctx, succeedingOp, alwaysQualifies)

	if cb.FailureCount() != 0 {
		t.Errorf("failure count = %d after success, want 0", cb.FailureCount())
	}
}

func TestCircuitBreakerDefaults(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{})
	cfg := cb.Config()

	if cfg.FailureThreshold != 5 {
		t.Errorf("default FailureThreshold = %d, want 5", cfg.FailureThreshold)
	}
	if cfg.RecoveryTimeout != 30*time.Second {
		t.Errorf("default RecoveryTimeout = %v, want 30s", cfg.RecoveryTimeout)
	}
	if cfg.HalfOpenMaxCalls != 1 {
		t.Errorf("default HalfOpenMaxCalls = %d, want 1", cfg.HalfOpenMaxCalls)
	}
}

func TestCircuitStateString(t *testing.T) {
	cases := map[CircuitState]string{
		StateClosed:      "closed",
		StateOpen:        "open",
		StateHalfOpen:    "half-open",
		CircuitState(99): "unknown",
	}
	for state, want := range cases {
		if got := state.String(); got != want {
			t.Errorf("CircuitState(%d).String() = %q, want %q", state, got, want)
		}
	}
}
