package application

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiterAdmitsCeilingThenDenies(t *testing.T) {
	clock := newFakeClock(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
	limiter := NewRateLimiter(5, time.Minute, clock)

	for i := 0; i < 5; i++ {
		require.True(t, limiter.Admit("user-1"), "call %d should be admitted", i+1)
	}

	assert.False(t, limiter.Admit("user-1"))
	assert.False(t, limiter.Admit("user-1"))
}

func TestRateLimiterResetsAfterWindow(t *testing.T) {
	clock := newFakeClock(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
	limiter := NewRateLimiter(2, time.Minute, clock)

	require.True(t, limiter.Admit("user-1"))
	require.True(t, limiter.Admit("user-1"))
	require.False(t, limiter.Admit("user-1"))

	clock.Advance(time.Minute)

	assert.True(t, limiter.Admit("user-1"))
	assert.True(t, limiter.Admit("user-1"))
	assert.False(t, limiter.Admit("user-1"))
}

func TestRateLimiterTracksUsersIndependently(t *testing.T) {
	clock := newFakeClock(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
	limiter := NewRateLimiter(1, time.Minute, clock)

	require.True(t, limiter.Admit("user-1"))
	require.False(t, limiter.Admit("user-1"))

	assert.True(t, limiter.Admit("user-2"))
}

func TestRateLimiterConcurrentAdmissionsNeverExceedCeiling(t *testing.T) {
	const ceiling = 5
	clock := newFakeClock(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
	limiter := NewRateLimiter(ceiling, time.Minute, clock)

	var admitted atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if limiter.Admit("user-1") {
				admitted.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(ceiling), admitted.Load())
}

func TestRateLimiterConcurrentUsersDoNotInterfere(t *testing.T) {
	clock := newFakeClock(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
	limiter := NewRateLimiter(3, time.Minute, clock)

	var wg sync.WaitGroup
	counts := make([]atomic.Int64, 4)
	for u := 0; u < 4; u++ {
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func(u int) {
				defer wg.Done()
				if limiter.Admit(fmt.Sprintf("user-%d", u)) {
					counts[u].Add(1)
				}
			}(u)
		}
	}
	wg.Wait()

	for u := range counts {
		assert.Equal(t, int64(3), counts[u].Load(), "user-%d", u)
	}
}

func TestNewRateLimiterAppliesDefaults(t *testing.T) {
	limiter := NewRateLimiter(0, 0, nil)

	assert.Equal(t, DefaultRateCeiling, limiter.ceiling)
	assert.Equal(t, DefaultRateWindow, limiter.window)
	assert.NotNil(t, limiter.clock)
}
