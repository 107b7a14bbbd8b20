package testutil

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSteppingClock_StartsAtEpoch(t *testing.T) {
	clock := NewSteppingClock(time.Second)
	assert.Equal(t, Epoch, clock.Peek())
	assert.Equal(t, Epoch, clock.Now())
}

func TestSteppingClock_Advances(t *testing.T) {
	clock := NewSteppingClock(time.Second)

	clock.Now()
	assert.Equal(t, Epoch.Add(time.Second), clock.Now())
	assert.Equal(t, Epoch.Add(2*time.Second), clock.Peek())
}

func TestSteppingClock_ZeroStepIsFrozen(t *testing.T) {
	clock := NewSteppingClock(0)
	clock.Now()
	assert.Equal(t, Epoch, clock.Now())
}

func TestSteppingClock_Reset(t *testing.T) {
	clock := NewSteppingClock(time.Minute)
	clock.Now()
	clock.Now()

	clock.Reset()
	assert.Equal(t, Epoch, clock.Now())
}

func TestSteppingClock_ThreadSafe(t *testing.T) {
	clock := NewSteppingClock(time.Millisecond)
	const goroutines = 50
	const calls = 20

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for range goroutines {
		go func() {
			defer wg.Done()
			for range calls {
				clock.Now()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, Epoch.Add(goroutines*calls*time.Millisecond), clock.Peek())
}
