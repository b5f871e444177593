package circuitbreaker

import (
	"errors"
	"testing"
	"time"
)

var errBoom = errors.New("boom")

func fail() error    { return errBoom }
func succeed() error { return nil }

func TestTripsAfterConsecutiveFailures(t *testing.T) {
	cb := New(3, 1, time.Minute)

	for i := 0; i < 3; i++ {
		if err := cb.Execute(fail); !errors.Is(err, errBoom) {
			t.Fatalf("call %d: expected op error, got %v", i, err)
		}
	}

	if got := cb.State(); got != Open {
		t.Fatalf("expected Open after threshold, got %s", got)
	}
	if err := cb.Execute(succeed); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected ErrCircuitOpen, got %v", err)
	}
}

func TestSuccessResetsFailureCount(t *testing.T) {
	cb := New(3, 1, time.Minute)

	cb.Execute(fail)
	cb.Execute(fail)
	cb.Execute(succeed)
	cb.Execute(fail)
	cb.Execute(fail)

	if got := cb.State(); got != Closed {
		t.Fatalf("expected Closed, got %s", got)
	}
}

func TestRecoversThroughHalfOpen(t *testing.T) {
	cb := New(1, 1, 10*time.Millisecond)

	cb.Execute(fail)
	if got := cb.State(); got != Open {
		t.Fatalf("expected Open, got %s", got)
	}

	time.Sleep(20 * time.Millisecond)

	// The trial request succeeds and closes the circuit.
	if err := cb.Execute(succeed); err != nil {
		t.Fatalf("trial request failed: %v", err)
	}
	if got := cb.State(); got != Closed {
		t.Fatalf("expected Closed after recovery, got %s", got)
	}
}

func TestHalfOpenFailureReopens(t *testing.T) {
	cb := New(1, 1, 10*time.Millisecond)

	cb.Execute(fail)
	time.Sleep(20 * time.Millisecond)

	cb.Execute(fail)
	if got := cb.State(); got != Open {
		t.Fatalf("expected Open after failed trial, got %s", got)
	}
}
