package resilience

import (
	"errors"
	"sync"
	"time"
)

// ErrCircuitOpen is returned while a breaker is rejecting calls outright.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// State is the breaker's position in its closed / open / half-open cycle.
type State int

const (
	// StateClosed lets calls through; failures are being counted.
	StateClosed State = iota
	// StateOpen rejects every call until the timeout elapses.
	StateOpen
	// StateHalfOpen lets a limited number of trial calls through to see
	// whether the backend has recovered.
	StateHalfOpen
)

func (s State) String() string {
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

// CircuitBreakerConfig configures one breaker. The search service creates a
// breaker per backend so a dead SerpAPI does not slow Brave queries down.
type CircuitBreakerConfig struct {
	// Name identifies the breaker in state-change notifications.
	Name string
	// MaxFailures is how many consecutive failures open the circuit.
	MaxFailures int
	// Timeout is how long an open breaker waits before admitting trial calls.
	Timeout time.Duration
	// HalfOpenMaxCalls bounds the trial calls admitted while half-open.
	HalfOpenMaxCalls int
	// OnStateChange, when set, is invoked on every transition.
	OnStateChange func(name string, from, to State)
}

// DefaultCircuitBreakerConfig returns the policy used around search backends.
func DefaultCircuitBreakerConfig(name string) CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Name:             name,
		MaxFailures:      5,
		Timeout:          30 * time.Second,
		HalfOpenMaxCalls: 1,
	}
}

// CircuitBreaker fails fast once a backend has proven unhealthy, instead of
// letting every workflow run wait out the backend's timeout.
type CircuitBreaker struct {
	cfg CircuitBreakerConfig

	mu         sync.Mutex
	state      State
	failures   int
	trialCalls int
	trialOKs   int
	openedAt   time.Time
}

// NewCircuitBreaker creates a breaker in the closed state. Zero config
// fields fall back to the defaults.
func NewCircuitBreaker(cfg CircuitBreakerConfig) *CircuitBreaker {
	if cfg.MaxFailures <= 0 {
		cfg.MaxFailures = 5
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.HalfOpenMaxCalls <= 0 {
		cfg.HalfOpenMaxCalls = 1
	}
	return &CircuitBreaker{cfg: cfg}
}

// Execute runs fn through the breaker, returning ErrCircuitOpen without
// calling it when the circuit is rejecting traffic.
func (cb *CircuitBreaker) Execute(fn func() error) error {
	if !cb.admit() {
		return ErrCircuitOpen
	}
	err := fn()
	cb.observe(err)
	return err
}

// State returns the current state, applying the open timeout first.
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.tick()
}

func (cb *CircuitBreaker) admit() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.tick() {
	case StateClosed:
		return true
	case StateHalfOpen:
		if cb.trialCalls < cb.cfg.HalfOpenMaxCalls {
			cb.trialCalls++
			return true
		}
	}
	return false
}

// tick applies the open-to-half-open timeout transition before the state is
// read. Callers must hold mu.
func (cb *CircuitBreaker) tick() State {
	if cb.state == StateOpen && time.Since(cb.openedAt) >= cb.cfg.Timeout {
		cb.transition(StateHalfOpen)
	}
	return cb.state
}

func (cb *CircuitBreaker) observe(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if err == nil {
		switch cb.tick() {
		case StateClosed:
			cb.failures = 0
		case StateHalfOpen:
			cb.trialOKs++
			if cb.trialOKs >= cb.cfg.HalfOpenMaxCalls {
				cb.transition(StateClosed)
			}
		}
		return
	}

	switch cb.tick() {
	case StateClosed:
		cb.failures++
		if cb.failures >= cb.cfg.MaxFailures {
			cb.transition(StateOpen)
		}
	case StateHalfOpen:
		// The trial call failed; back to rejecting traffic.
		cb.transition(StateOpen)
	}
}

func (cb *CircuitBreaker) transition(to State) {
	if cb.state == to {
		return
	}
	from := cb.state
	cb.state = to
	cb.failures = 0
	cb.trialCalls = 0
	cb.trialOKs = 0
	if to == StateOpen {
		cb.openedAt = time.Now()
	}
	if cb.cfg.OnStateChange != nil {
		cb.cfg.OnStateChange(cb.cfg.Name, from, to)
	}
}
