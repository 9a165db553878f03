package application

import (
	"sync"
	"time"

	"github.com/llmnexus/nexus/internal/domain"
	"github.com/llmnexus/nexus/internal/ports"
)

const (
	DefaultRateCeiling = 5
	DefaultRateWindow  = time.Minute
)

// RateLimiter admits requests against a fixed per-user window. Admission
// and counter mutation happen under one lock, so concurrent calls for
// the same user cannot race past the ceiling.
type RateLimiter struct {
	ceiling int
	window  time.Duration
	clock   ports.Clock

	mu     sync.Mutex
	states map[string]domain.RateState
}

func NewRateLimiter(ceiling int, window time.Duration, clock ports.Clock) *RateLimiter {
	if ceiling <= 0 {
		ceiling = DefaultRateCeiling
	}
	if window <= 0 {
		window = DefaultRateWindow
	}
	if clock == nil {
		clock = ports.SystemClock{}
	}

	return &RateLimiter{
		ceiling: ceiling,
		window:  window,
		clock:   clock,
		states:  make(map[string]domain.RateState),
	}
}

// Admit never fails: an unknown user starts a fresh window.
func (l *RateLimiter) Admit(userID string) bool {
	now := l.clock.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	state, admitted := l.states[userID].Tick(now, l.window, l.ceiling)
	l.states[userID] = state

	return admitted
}
