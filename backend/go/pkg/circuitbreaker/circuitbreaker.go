package circuitbreaker

import (
	"errors"
	"sync"
	"time"
)

// State represents the state of the circuit breaker.
type State int

const (
	// Closed is the initial state where requests are allowed.
	Closed State = iota
	// Open state is when the circuit has tripped and requests are blocked.
	Open
	// HalfOpen is a state where a limited number of trial requests are allowed to test the system's recovery.
	HalfOpen
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case Closed:
		return "Closed"
	case Open:
		return "Open"
	case HalfOpen:
		return "Half-Open"
	default:
		return "Unknown"
	}
}

// ErrCircuitOpen is returned when the circuit breaker is in the Open state.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// CircuitBreaker wraps an error-returning operation with the circuit breaker
// pattern: consecutive failures open the circuit, and after a cool-down period
// a trial request decides whether it closes again.
type CircuitBreaker struct {
	failureThreshold     uint32        // Number of consecutive failures to trip the circuit.
	successThreshold     uint32        // Number of successes in HalfOpen state to close the circuit.
	timeout              time.Duration // Duration to wait in Open state before transitioning to HalfOpen.
	consecutiveSuccesses uint32
	consecutiveFailures  uint32
	openedAt             time.Time
	state                State
	mutex                sync.Mutex
}

// New creates a new CircuitBreaker with the specified settings.
func New(failureThreshold, successThreshold uint32, timeout time.Duration) *CircuitBreaker {
	return &CircuitBreaker{
		failureThreshold: failureThreshold,
		successThreshold: successThreshold,
		timeout:          timeout,
		state:            Closed,
	}
}

// State returns the current state of the circuit breaker.
func (cb *CircuitBreaker) State() State {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()
	return cb.state
}

// Execute runs op unless the circuit is open. Op's error both propagates to the
// caller and feeds the breaker's failure counting.
func (cb *CircuitBreaker) Execute(op func() error) error {
	cb.mutex.Lock()

	// Transition from Open to HalfOpen once the cool-down has elapsed.
	if cb.state == Open && time.Since(cb.openedAt) > cb.timeout {
		cb.state = HalfOpen
		cb.consecutiveSuccesses = 0
	}

	if cb.state == Open {
		cb.mutex.Unlock()
		return ErrCircuitOpen
	}
	cb.mutex.Unlock()

	if err := op(); err != nil {
		cb.onFailure()
		return err
	}
	cb.onSuccess()
	return nil
}

func (cb *CircuitBreaker) onSuccess() {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()

	switch cb.state {
	case HalfOpen:
		cb.consecutiveSuccesses++
		if cb.consecutiveSuccesses >= cb.successThreshold {
			cb.state = Closed
			cb.consecutiveFailures = 0
			cb.consecutiveSuccesses = 0
		}
	case Closed:
		cb.consecutiveFailures = 0
	}
}

func (cb *CircuitBreaker) onFailure() {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()

	switch cb.state {
	case HalfOpen:
		cb.trip()
	case Closed:
		cb.consecutiveFailures++
		if cb.consecutiveFailures >= cb.failureThreshold {
			cb.trip()
		}
	}
}

// trip opens the circuit.
func (cb *CircuitBreaker) trip() {
	cb.state = Open
	cb.openedAt = time.Now()
	cb.consecutiveFailures = 0
	cb.consecutiveSuccesses = 0
}
