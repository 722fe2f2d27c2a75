package registrar

import (
	"sync"
	"time"
)

// RateLimitState is the last observed rate-limit window for an endpoint.
type RateLimitState struct {
	Remaining  int       `json:"remaining"`
	Limit      int       `json:"limit"`
	ResetTime  time.Time `json:"reset_time"`
	LastUpdate time.Time `json:"last_update"`
}

// RateLimitTracker keeps per-endpoint rate-limit windows. Stale windows are
// dropped lazily the next time they are consulted.
type RateLimitTracker struct {
	mu     sync.Mutex
	states map[string]RateLimitState
	now    func() time.Time
}

// NewRateLimitTracker returns an empty tracker. A nil now uses time.Now.
func NewRateLimitTracker(now func() time.Time) *RateLimitTracker {
	if now == nil {
		now = time.Now
	}
	return &RateLimitTracker{states: map[string]RateLimitState{}, now: now}
}

// Observe records the window reported for endpoint, replacing any previous state.
// Values are stored as given.
func (t *RateLimitTracker) Observe(endpoint string, remaining, limit int, resetTime time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.states[endpoint] = RateLimitState{
		Remaining:  remaining,
		Limit:      limit,
		ResetTime:  resetTime,
		LastUpdate: t.now(),
	}
}

// IsLimited reports whether endpoint has no calls left in a window that has not reset yet.
func (t *RateLimitTracker) IsLimited(endpoint string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	state, ok := t.current(endpoint)
	if !ok {
		return false
	}
	return state.Remaining <= 0
}

// ResetTime returns the reset time of a live window for endpoint.
func (t *RateLimitTracker) ResetTime(endpoint string) (time.Time, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	state, ok := t.current(endpoint)
	if !ok {
		return time.Time{}, false
	}
	return state.ResetTime, true
}

// Snapshot copies all windows that are still live.
func (t *RateLimitTracker) Snapshot() map[string]RateLimitState {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[string]RateLimitState, len(t.states))
	for endpoint := range t.states {
		if state, ok := t.current(endpoint); ok {
			out[endpoint] = state
		}
	}
	return out
}

// current returns the state for endpoint, discarding it once now is past the reset time.
// Callers hold t.mu.
func (t *RateLimitTracker) current(endpoint string) (RateLimitState, bool) {
	state, ok := t.states[endpoint]
	if !ok {
		return RateLimitState{}, false
	}
	if t.now().After(state.ResetTime) {
		delete(t.states, endpoint)
		return RateLimitState{}, false
	}
	return state, true
}
