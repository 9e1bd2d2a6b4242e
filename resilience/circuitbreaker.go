package resilience

import (
	"sync"
	"time"
)

// CircuitBreaker trips on repeated launch failures of a file name.
type CircuitBreaker interface {
	// Allow checks if a launch is allowed.
	Allow(fileName string) bool

	// RecordExit records a classified process exit.
	RecordExit(fileName string, success bool)

	// State returns the current state for a file name.
	State(fileName string) CircuitState

	// Reset resets the circuit breaker for a file name.
	Reset(fileName string)
}

// CircuitState represents the circuit breaker state.
type CircuitState int

const (
	// StateClosed allows launches through.
	StateClosed CircuitState = iota
	// StateOpen blocks all launches.
	StateOpen
	// StateHalfOpen allows limited launches for probing.
	StateHalfOpen
)

// String returns the string representation of the state.
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

// CircuitBreakerConfig configures the circuit breaker.
type CircuitBreakerConfig struct {
	// FailureThreshold is the number of failures before opening.
	FailureThreshold int

	// SuccessThreshold is the number of successes to close from half-open.
	SuccessThreshold int

	// Timeout is the duration to wait before transitioning to half-open.
	Timeout time.Duration

	// PerFileName enables per-file-name circuit breakers.
	PerFileName bool

	// OnStateChange is called when state changes.
	OnStateChange func(fileName string, from, to CircuitState)
}

// DefaultCircuitBreakerConfig returns default configuration.
func DefaultCircuitBreakerConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		FailureThreshold: 5,
		SuccessThreshold: 2,
		Timeout:          30 * time.Second,
		PerFileName:      true,
	}
}

// circuitBreaker implements CircuitBreaker.
type circuitBreaker struct {
	config   CircuitBreakerConfig
	global   *breaker
	breakers map[string]*breaker
	mu       sync.RWMutex
}

// breaker is the state machine for a single file name.
type breaker struct {
	fileName        string
	state           CircuitState
	failures        int
	successes       int
	lastFailureTime time.Time
	config          *CircuitBreakerConfig
	mu              sync.Mutex
}

// NewCircuitBreaker creates a new circuit breaker.
func NewCircuitBreaker(config CircuitBreakerConfig) CircuitBreaker {
	return &circuitBreaker{
		config:   config,
		global:   newBreaker("", &config),
		breakers: make(map[string]*breaker),
	}
}

// Allow implements CircuitBreaker.Allow.
func (cb *circuitBreaker) Allow(fileName string) bool {
	return cb.breakerFor(fileName).allow()
}

// RecordExit implements CircuitBreaker.RecordExit.
func (cb *circuitBreaker) RecordExit(fileName string, success bool) {
	b := cb.breakerFor(fileName)
	if success {
		b.recordSuccess()
	} else {
		b.recordFailure()
	}
}

// State implements CircuitBreaker.State.
func (cb *circuitBreaker) State(fileName string) CircuitState {
	return cb.breakerFor(fileName).getState()
}

// Reset implements CircuitBreaker.Reset.
func (cb *circuitBreaker) Reset(fileName string) {
	cb.breakerFor(fileName).reset()
}

func (cb *circuitBreaker) breakerFor(fileName string) *breaker {
	if !cb.config.PerFileName {
		return cb.global
	}

	cb.mu.RLock()
	b, ok := cb.breakers[fileName]
	cb.mu.RUnlock()

	if ok {
		return b
	}

	cb.mu.Lock()
	defer cb.mu.Unlock()

	// Double-check
	if existing, ok := cb.breakers[fileName]; ok {
		return existing
	}

	newB := newBreaker(fileName, &cb.config)
	cb.breakers[fileName] = newB
	return newB
}

func newBreaker(fileName string, config *CircuitBreakerConfig) *breaker {
	return &breaker{
		fileName: fileName,
		state:    StateClosed,
		config:   config,
	}
}

func (b *breaker) allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateClosed:
		return true

	case StateOpen:
		if time.Since(b.lastFailureTime) > b.config.Timeout {
			b.toHalfOpen()
			return true
		}
		return false

	case StateHalfOpen:
		return true
	}

	return false
}

func (b *breaker) recordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateClosed:
		b.failures = 0

	case StateHalfOpen:
		b.successes++
		if b.successes >= b.config.SuccessThreshold {
			b.toClosed()
		}
	}
}

func (b *breaker) recordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.failures++
	b.lastFailureTime = time.Now()

	switch b.state {
	case StateClosed:
		if b.failures >= b.config.FailureThreshold {
			b.toOpen()
		}

	case StateHalfOpen:
		b.toOpen()
	}
}

func (b *breaker) getState() CircuitState {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == StateOpen && time.Since(b.lastFailureTime) > b.config.Timeout {
		b.toHalfOpen()
	}

	return b.state
}

func (b *breaker) reset() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.state = StateClosed
	b.failures = 0
	b.successes = 0
}

func (b *breaker) toClosed() {
	oldState := b.state
	b.state = StateClosed
	b.failures = 0
	b.successes = 0

	if b.config.OnStateChange != nil {
		b.config.OnStateChange(b.fileName, oldState, StateClosed)
	}
}

func (b *breaker) toOpen() {
	oldState := b.state
	b.state = StateOpen
	b.successes = 0

	if b.config.OnStateChange != nil {
		b.config.OnStateChange(b.fileName, oldState, StateOpen)
	}
}

func (b *breaker) toHalfOpen() {
	oldState := b.state
	b.state = StateHalfOpen
	b.failures = 0
	b.successes = 0

	if b.config.OnStateChange != nil {
		b.config.OnStateChange(b.fileName, oldState, StateHalfOpen)
	}
}
