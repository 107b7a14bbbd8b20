package testutil

import (
	"sync"
	"time"
)

// Epoch is the fixed start time used by test clocks.
var Epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

// SteppingClock is a wall clock for tests that advances by a fixed step
// on every read.
//
// Pass clock.Now to components that take a time source (the leitmotif
// registry's WithNow) to get reproducible timestamps.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type SteppingClock struct {
	mu   sync.Mutex
	now  time.Time
	step time.Duration
}

// NewSteppingClock creates a clock that first reads Epoch and then moves
// forward by step per call.
func NewSteppingClock(step time.Duration) *SteppingClock {
	return &SteppingClock{now: Epoch, step: step}
}

// Now returns the current time and advances the clock.
func (c *SteppingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.now
	c.now = c.now.Add(c.step)
	return t
}

// Peek returns the time the next call to Now will return.
func (c *SteppingClock) Peek() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Reset rewinds the clock to Epoch.
func (c *SteppingClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = Epoch
}
