package fetch

import (
	"sync"
	"sync/atomic"
	"time"
)

const (
	cooldownGrowth  = 1.5
	cooldownDecay   = 0.9
	maxCooldownMult = 10.0
)

// Cooldown is the process-wide rate-limit gate shared by all in-flight
// fetches. The deadline is a single atomically-updated timestamp so reads
// on the hot path take no lock; the backoff multiplier grows on every
// rate-limit signal and decays on successful calls.
type Cooldown struct {
	base  time.Duration
	until atomic.Int64 // unix nanos; 0 = no cooldown

	mu     sync.Mutex
	factor float64

	now func() time.Time
}

// NewCooldown creates a cooldown gate with the given base window.
func NewCooldown(base time.Duration) *Cooldown {
	return &Cooldown{base: base, factor: 1.0, now: time.Now}
}

// Remaining returns how long callers must wait before issuing a backend
// call, zero when no cooldown is active. Lock-free.
func (c *Cooldown) Remaining() time.Duration {
	until := c.until.Load()
	if until == 0 {
		return 0
	}
	rem := time.Duration(until - c.now().UnixNano())
	if rem < 0 {
		return 0
	}
	return rem
}

// Trigger activates (or extends) the cooldown after a rate-limit signal and
// grows the multiplier. The deadline only ever moves forward. Returns the
// window that was applied.
func (c *Cooldown) Trigger() time.Duration {
	c.mu.Lock()
	window := time.Duration(float64(c.base) * c.factor)
	c.factor *= cooldownGrowth
	if c.factor > maxCooldownMult {
		c.factor = maxCooldownMult
	}
	c.mu.Unlock()

	deadline := c.now().Add(window).UnixNano()
	for {
		cur := c.until.Load()
		if cur >= deadline || c.until.CompareAndSwap(cur, deadline) {
			return window
		}
	}
}

// Success decays the multiplier after a call that went through, floor 1.0.
func (c *Cooldown) Success() {
	c.mu.Lock()
	c.factor *= cooldownDecay
	if c.factor < 1.0 {
		c.factor = 1.0
	}
	c.mu.Unlock()
}
