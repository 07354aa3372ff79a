package resilience

import (
	"testing"
	"time"
)

func TestCircuitBreaker_TripsAfterConsecutiveFailures(t *testing.T) {
	t.Parallel()

	b := NewCircuitBreaker(3, time.Minute, 1)
	for i := 0; i < 3; i++ {
		if err := b.Allow(); err != nil {
			t.Fatalf("allow %d: %v", i, err)
		}
		b.RecordFailure()
	}

	if b.State() != CircuitOpen {
		t.Fatalf("expected open state, got %s", b.State())
	}
	if err := b.Allow(); err != ErrCircuitOpen {
		t.Fatalf("expected ErrCircuitOpen, got %v", err)
	}
}

func TestCircuitBreaker_SuccessResetsFailureRun(t *testing.T) {
	t.Parallel()

	b := NewCircuitBreaker(2, time.Minute, 1)
	b.RecordFailure()
	b.RecordSuccess()
	b.RecordFailure()

	if b.State() != CircuitClosed {
		t.Fatalf("expected closed state, got %s", b.State())
	}
}

func TestCircuitBreaker_HalfOpenProbeClosesOnSuccess(t *testing.T) {
	t.Parallel()

	b := NewCircuitBreaker(1, time.Minute, 1)
	current := time.Unix(1_700_000_000, 0)
	b.now = func() time.Time { return current }

	b.RecordFailure()
	if b.State() != CircuitOpen {
		t.Fatalf("expected open state, got %s", b.State())
	}

	current = current.Add(2 * time.Minute)
	if err := b.Allow(); err != nil {
		t.Fatalf("probe should be allowed after open timeout: %v", err)
	}
	// The probe budget is spent until the in-flight probe resolves.
	if err := b.Allow(); err != ErrCircuitOpen {
		t.Fatalf("second probe should be rejected, got %v", err)
	}

	b.RecordSuccess()
	if b.State() != CircuitClosed {
		t.Fatalf("expected closed after probe success, got %s", b.State())
	}
}

func TestCircuitBreaker_HalfOpenProbeFailureReopens(t *testing.T) {
	t.Parallel()

	b := NewCircuitBreaker(1, time.Minute, 1)
	current := time.Unix(1_700_000_000, 0)
	b.now = func() time.Time { return current }

	b.RecordFailure()
	current = current.Add(2 * time.Minute)
	if err := b.Allow(); err != nil {
		t.Fatalf("probe should be allowed: %v", err)
	}
	b.RecordFailure()

	if err := b.Allow(); err != ErrCircuitOpen {
		t.Fatalf("breaker should reopen after probe failure, got %v", err)
	}
}
