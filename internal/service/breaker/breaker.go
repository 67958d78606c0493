// Package breaker implements per-provider circuit breakers so a failing
// upstream stops receiving traffic before it drags task latency down
// with it.
package breaker

import (
	"log/slog"
	"sync"
	"time"

	"github.com/fairyhunter13/agent-orchestrator/internal/adapter/observability"
)

// State is the lifecycle position of one provider's circuit.
type State int

const (
	// StateClosed admits all traffic.
	StateClosed State = iota
	// StateHalfOpen admits a single probe at a time.
	StateHalfOpen
	// StateOpen blocks traffic until the cooldown elapses.
	StateOpen
)

// String returns the lowercase state name used in logs and stats.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateHalfOpen:
		return "half_open"
	case StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// Config tunes the breaker thresholds.
type Config struct {
	// FailureThreshold is the consecutive failure count that opens a
	// closed circuit.
	FailureThreshold int
	// Cooldown is how long an open circuit blocks before probing.
	Cooldown time.Duration
	// SuccessThreshold is the consecutive probe successes that close a
	// half-open circuit.
	SuccessThreshold int
}

// DefaultConfig returns the standard thresholds: 5 failures, 60s
// cooldown, 3 recovery successes.
func DefaultConfig() Config {
	return Config{FailureThreshold: 5, Cooldown: 60 * time.Second, SuccessThreshold: 3}
}

type circuit struct {
	state     State
	failures  int
	successes int
	openedAt  time.Time
	probing   bool
}

// Breaker tracks circuit state per provider behind a single mutex. All
// operations are O(1); nothing blocks under the lock.
type Breaker struct {
	mu       sync.Mutex
	cfg      Config
	circuits map[string]*circuit
	now      func() time.Time
}

// New builds a breaker with the given thresholds.
func New(cfg Config) *Breaker {
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = 60 * time.Second
	}
	if cfg.SuccessThreshold <= 0 {
		cfg.SuccessThreshold = 3
	}
	return &Breaker{
		cfg:      cfg,
		circuits: make(map[string]*circuit),
		now:      time.Now,
	}
}

func (b *Breaker) circuitFor(provider string) *circuit {
	c, ok := b.circuits[provider]
	if !ok {
		c = &circuit{state: StateClosed}
		b.circuits[provider] = c
	}
	return c
}

// Allow reports whether a call to the provider may proceed. An open
// circuit whose cooldown has elapsed flips to half-open and admits the
// caller as the probe; while a probe is in flight no further calls are
// admitted.
func (b *Breaker) Allow(provider string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	c := b.circuitFor(provider)
	switch c.state {
	case StateClosed:
		return true
	case StateOpen:
		if b.now().Sub(c.openedAt) >= b.cfg.Cooldown {
			c.state = StateHalfOpen
			c.successes = 0
			c.probing = true
			b.export(provider, c.state)
			slog.Info("circuit breaker entering half-open state",
				slog.String("provider", provider))
			return true
		}
		return false
	case StateHalfOpen:
		if c.probing {
			return false
		}
		c.probing = true
		return true
	default:
		return true
	}
}

// RecordSuccess notes a successful provider call. In half-open state it
// advances recovery; in closed state it clears the consecutive failure
// count.
func (b *Breaker) RecordSuccess(provider string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	c := b.circuitFor(provider)
	switch c.state {
	case StateHalfOpen:
		c.probing = false
		c.successes++
		if c.successes >= b.cfg.SuccessThreshold {
			c.state = StateClosed
			c.failures = 0
			c.successes = 0
			b.export(provider, c.state)
			slog.Info("circuit breaker closed after recovery",
				slog.String("provider", provider))
		}
	case StateClosed:
		c.failures = 0
	}
}

// RecordFailure notes a failed provider call. Enough consecutive
// failures open the circuit; a failure during recovery reopens it with a
// fresh cooldown.
func (b *Breaker) RecordFailure(provider string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	c := b.circuitFor(provider)
	switch c.state {
	case StateHalfOpen:
		c.state = StateOpen
		c.openedAt = b.now()
		c.successes = 0
		c.probing = false
		b.export(provider, c.state)
		slog.Warn("circuit breaker reopened after failure during recovery",
			slog.String("provider", provider))
	case StateClosed:
		c.failures++
		if c.failures >= b.cfg.FailureThreshold {
			c.state = StateOpen
			c.openedAt = b.now()
			b.export(provider, c.state)
			slog.Warn("circuit breaker opened",
				slog.String("provider", provider),
				slog.Int("failures", c.failures))
		}
	case StateOpen:
		c.openedAt = b.now()
	}
}

// State returns the current state for a provider.
func (b *Breaker) State(provider string) State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.circuitFor(provider).state
}

// Reset returns a provider's circuit to closed with cleared counters.
func (b *Breaker) Reset(provider string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.circuits[provider] = &circuit{state: StateClosed}
	b.export(provider, StateClosed)
}

// export publishes the numeric state gauge. Caller holds the lock; the
// gauge write itself never blocks.
func (b *Breaker) export(provider string, s State) {
	observability.SetBreakerState(provider, float64(s))
}
