package services

import (
	"sync"
	"time"
)

// SlidingWindowLimiter bounds outbound notification calls to a fixed quota
// within a rolling time window. The slot is consumed when Allow returns
// true, whether or not the subsequent send succeeds. State is in-memory
// only and lost on restart.
type SlidingWindowLimiter struct {
	mu       sync.Mutex
	window   time.Duration
	quota    int
	requests []time.Time
	now      func() time.Time // injectable for tests
}

// NewSlidingWindowLimiter creates a limiter allowing quota calls per window.
func NewSlidingWindowLimiter(quota int, window time.Duration) *SlidingWindowLimiter {
	return &SlidingWindowLimiter{
		window: window,
		quota:  quota,
		now:    time.Now,
	}
}

// Allow reports whether another call may be made now. When it returns true
// the call is recorded against the quota.
func (l *SlidingWindowLimiter) Allow() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)

	// Evict timestamps older than the trailing window
	kept := l.requests[:0]
	for _, ts := range l.requests {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	l.requests = kept

	if len(l.requests) >= l.quota {
		return false
	}

	l.requests = append(l.requests, now)
	return true
}

// Remaining returns how many calls are left in the current window.
func (l *SlidingWindowLimiter) Remaining() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-l.window)
	count := 0
	for _, ts := range l.requests {
		if ts.After(cutoff) {
			count++
		}
	}
	if count >= l.quota {
		return 0
	}
	return l.quota - count
}

// SetNowFunc overrides the clock (primarily for testing).
func (l *SlidingWindowLimiter) SetNowFunc(now func() time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.now = now
}
