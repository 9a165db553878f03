package domain

import "time"

// RateState is one user's fixed-window request counter.
type RateState struct {
	WindowStart time.Time
	Count       int
}

// Tick advances the state by one admission attempt at now and reports
// whether the request is admitted. A zero-value state counts as a fresh
// window. The stored count is capped at ceiling+1 so a denied user
// hammering Admit cannot grow the counter without bound.
func (s RateState) Tick(now time.Time, window time.Duration, ceiling int) (RateState, bool) {
	if s.WindowStart.IsZero() || now.Sub(s.WindowStart) >= window {
		s = RateState{WindowStart: now}
	}

	if s.Count <= ceiling {
		s.Count++
	}

	return s, s.Count <= ceiling
}
