// Package resilience holds the circuit breaker wrapped around the outbound
// calls to totalcorner and QStash.
package resilience

import (
	"errors"
	"sync"
	"time"
)

var ErrCircuitOpen = errors.New("circuit breaker is open")

type CircuitState string

const (
	CircuitStateClosed   CircuitState = "closed"
	CircuitStateOpen     CircuitState = "open"
	CircuitStateHalfOpen CircuitState = "half_open"
)

type CircuitBreakerConfig struct {
	Enabled          bool
	FailureThreshold int
	OpenTimeout      time.Duration
	HalfOpenMaxReq   int
}

func (c CircuitBreakerConfig) withDefaults() CircuitBreakerConfig {
	if c.FailureThreshold < 1 {
		c.FailureThreshold = 5
	}
	if c.OpenTimeout <= 0 {
		c.OpenTimeout = 15 * time.Second
	}
	if c.HalfOpenMaxReq < 1 {
		c.HalfOpenMaxReq = 2
	}
	return c
}

// CircuitBreaker opens after FailureThreshold consecutive failures, rejects
// calls for OpenTimeout, then lets HalfOpenMaxReq trial calls decide whether to
// close again. A nil *CircuitBreaker lets every call through.
type CircuitBreaker struct {
	cfg CircuitBreakerConfig
	now func() time.Time

	mu       sync.Mutex
	state    CircuitState
	failures int
	openedAt time.Time
	trials   int
	passed   int
}

// NewFromConfig returns nil when the breaker is disabled.
func NewFromConfig(cfg CircuitBreakerConfig) *CircuitBreaker {
	if !cfg.Enabled {
		return nil
	}
	return &CircuitBreaker{cfg: cfg.withDefaults(), now: time.Now, state: CircuitStateClosed}
}

// Execute runs fn unless the breaker is open. Errors for which isFailure
// returns false, such as a 404 from the stats site, count as success.
func (b *CircuitBreaker) Execute(fn func() error, isFailure func(error) bool) error {
	if b == nil {
		return fn()
	}
	if err := b.acquire(); err != nil {
		return err
	}

	err := fn()
	b.release(err == nil || (isFailure != nil && !isFailure(err)))
	return err
}

func (b *CircuitBreaker) State() CircuitState {
	if b == nil {
		return CircuitStateClosed
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state == CircuitStateOpen && b.cooledDown() {
		return CircuitStateHalfOpen
	}
	return b.state
}

func (b *CircuitBreaker) cooledDown() bool {
	return b.now().Sub(b.openedAt) >= b.cfg.OpenTimeout
}

func (b *CircuitBreaker) acquire() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == CircuitStateOpen {
		if !b.cooledDown() {
			return ErrCircuitOpen
		}
		b.moveTo(CircuitStateHalfOpen)
	}
	if b.state == CircuitStateHalfOpen {
		if b.trials >= b.cfg.HalfOpenMaxReq {
			return ErrCircuitOpen
		}
		b.trials++
	}
	return nil
}

func (b *CircuitBreaker) release(ok bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case CircuitStateClosed:
		if ok {
			b.failures = 0
			return
		}
		if b.failures++; b.failures >= b.cfg.FailureThreshold {
			b.moveTo(CircuitStateOpen)
		}
	case CircuitStateHalfOpen:
		if b.trials > 0 {
			b.trials--
		}
		if !ok {
			b.moveTo(CircuitStateOpen)
			return
		}
		if b.passed++; b.passed >= b.cfg.HalfOpenMaxReq && b.trials == 0 {
			b.moveTo(CircuitStateClosed)
		}
	case CircuitStateOpen:
		if !ok {
			b.openedAt = b.now()
		}
	}
}

func (b *CircuitBreaker) moveTo(state CircuitState) {
	b.state = state
	b.failures, b.trials, b.passed = 0, 0, 0
	if state == CircuitStateOpen {
		b.openedAt = b.now()
	}
}
