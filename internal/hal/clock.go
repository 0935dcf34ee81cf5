package hal

import (
	"sync"
	"time"
)

// SystemClock is a Clock backed by the process monotonic clock.
type SystemClock struct {
	start time.Time
}

// NewSystemClock creates a clock whose origin is the moment of the call.
func NewSystemClock() *SystemClock {
	return &SystemClock{start: time.Now()}
}

// NowMS implements Clock. time.Since uses the monotonic reading, so wall
// clock adjustments do not affect the result.
func (c *SystemClock) NowMS() int64 {
	return time.Since(c.start).Milliseconds()
}

// SleepMS implements Clock.
func (c *SystemClock) SleepMS(ms int64) {
	if ms <= 0 {
		return
	}
	time.Sleep(time.Duration(ms) * time.Millisecond)
}

// ManualClock is a simulated Clock. SleepMS advances the clock instead of
// blocking, so a test can run thousands of loop iterations instantly while
// keeping the timing arithmetic identical to real hardware.
type ManualClock struct {
	mu     sync.Mutex
	now    int64
	sleeps []int64
	hook   func(nowMS, sleptMS int64)
}

// NewManualClock creates a simulated clock starting at startMS.
func NewManualClock(startMS int64) *ManualClock {
	return &ManualClock{now: startMS}
}

// NowMS implements Clock.
func (c *ManualClock) NowMS() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// SleepMS implements Clock. The sleep hook, if set, runs after the clock
// has advanced and outside the clock's lock.
func (c *ManualClock) SleepMS(ms int64) {
	c.mu.Lock()
	c.sleeps = append(c.sleeps, ms)
	if ms > 0 {
		c.now += ms
	}
	now, hook := c.now, c.hook
	c.mu.Unlock()

	if hook != nil {
		hook(now, ms)
	}
}

// SetSleepHook registers fn to be called after every SleepMS. Tests use it
// to change inputs while the loop is blocked.
func (c *ManualClock) SetSleepHook(fn func(nowMS, sleptMS int64)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hook = fn
}

// Advance moves the clock forward without recording a sleep.
func (c *ManualClock) Advance(ms int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ms > 0 {
		c.now += ms
	}
}

// Sleeps returns a copy of every duration passed to SleepMS.
func (c *ManualClock) Sleeps() []int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]int64, len(c.sleeps))
	copy(out, c.sleeps)
	return out
}
