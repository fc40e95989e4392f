package fetch

import (
	"testing"
	"time"
)

func TestCooldown_InactiveByDefault(t *testing.T) {
	c := NewCooldown(2 * time.Second)
	if got := c.Remaining(); got != 0 {
		t.Errorf("Remaining() = %v, want 0", got)
	}
}

func TestCooldown_TriggerActivatesWindow(t *testing.T) {
	c := NewCooldown(2 * time.Second)
	now := time.Unix(1000, 0)
	c.now = func() time.Time { return now }

	window := c.Trigger()
	if window != 2*time.Second {
		t.Errorf("first window = %v, want 2s", window)
	}
	if got := c.Remaining(); got != 2*time.Second {
		t.Errorf("Remaining() = %v, want 2s", got)
	}

	now = now.Add(3 * time.Second)
	if got := c.Remaining(); got != 0 {
		t.Errorf("Remaining() after expiry = %v, want 0", got)
	}
}

func TestCooldown_WindowGrowsOnRepeatedTriggers(t *testing.T) {
	c := NewCooldown(2 * time.Second)
	now := time.Unix(1000, 0)
	c.now = func() time.Time { return now }

	if w := c.Trigger(); w != 2*time.Second {
		t.Errorf("window 1 = %v, want 2s", w)
	}
	if w := c.Trigger(); w != 3*time.Second {
		t.Errorf("window 2 = %v, want 3s", w)
	}
	if w := c.Trigger(); w != 4500*time.Millisecond {
		t.Errorf("window 3 = %v, want 4.5s", w)
	}
}

func TestCooldown_WindowCapped(t *testing.T) {
	c := NewCooldown(2 * time.Second)
	now := time.Unix(1000, 0)
	c.now = func() time.Time { return now }

	var last time.Duration
	for i := 0; i < 20; i++ {
		last = c.Trigger()
	}
	if last != 20*time.Second {
		t.Errorf("capped window = %v, want base*10 = 20s", last)
	}
}

func TestCooldown_SuccessDecaysFactor(t *testing.T) {
	c := NewCooldown(2 * time.Second)
	now := time.Unix(1000, 0)
	c.now = func() time.Time { return now }

	c.Trigger() // factor -> 1.5
	c.Success() // factor -> 1.35

	if w := c.Trigger(); w != 2700*time.Millisecond {
		t.Errorf("window after decay = %v, want 2.7s", w)
	}
}

func TestCooldown_SuccessFloorsAtOne(t *testing.T) {
	c := NewCooldown(2 * time.Second)
	now := time.Unix(1000, 0)
	c.now = func() time.Time { return now }

	for i := 0; i < 50; i++ {
		c.Success()
	}
	if w := c.Trigger(); w != 2*time.Second {
		t.Errorf("window after long decay = %v, want base 2s", w)
	}
}

func TestCooldown_RepeatedTriggersExtendDeadline(t *testing.T) {
	c := NewCooldown(2 * time.Second)
	now := time.Unix(1000, 0)
	c.now = func() time.Time { return now }

	c.Trigger() // deadline at +2s
	now = now.Add(time.Second)
	c.Trigger() // window 3s, deadline at +4s from start

	if got := c.Remaining(); got != 3*time.Second {
		t.Errorf("Remaining() = %v, want 3s", got)
	}
}
