package score

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrameClock_StartsAtZero(t *testing.T) {
	c := NewFrameClock()
	assert.Equal(t, int64(0), c.Current())
	assert.Equal(t, int64(0), c.Next())
	assert.Equal(t, int64(1), c.Next())
	assert.Equal(t, int64(2), c.Current())
}

func TestFrameClock_At(t *testing.T) {
	c := NewFrameClockAt(10)
	assert.Equal(t, int64(10), c.Next())

	assert.Equal(t, int64(0), NewFrameClockAt(-4).Current())
}

func TestFrameClock_Reset(t *testing.T) {
	c := NewFrameClock()
	c.Next()
	c.Next()
	c.Reset()
	assert.Equal(t, int64(0), c.Next())
}

func TestFrameClock_ThreadSafe(t *testing.T) {
	c := NewFrameClock()
	const goroutines = 50
	const calls = 100

	var wg sync.WaitGroup
	var mu sync.Mutex
	seen := make(map[int64]bool)
	wg.Add(goroutines)
	for range goroutines {
		go func() {
			defer wg.Done()
			for range calls {
				v := c.Next()
				mu.Lock()
				seen[v] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Len(t, seen, goroutines*calls)
}
