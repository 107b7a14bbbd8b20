package score

import "sync/atomic"

// FrameClock hands out frame indices. Safe for concurrent use.
type FrameClock struct {
	next atomic.Int64
}

// NewFrameClock creates a clock whose first frame is 0.
func NewFrameClock() *FrameClock {
	return &FrameClock{}
}

// NewFrameClockAt creates a clock whose next frame is start. Used to resume
// a persisted run.
func NewFrameClockAt(start int64) *FrameClock {
	c := &FrameClock{}
	c.next.Store(max(start, 0))
	return c
}

// Next returns the current frame index and advances the clock by one.
func (c *FrameClock) Next() int64 {
	return c.next.Add(1) - 1
}

// Current returns the index the next call to Next will return.
func (c *FrameClock) Current() int64 {
	return c.next.Load()
}

// Reset rewinds the clock to frame 0.
func (c *FrameClock) Reset() {
	c.next.Store(0)
}
