package sanitize

import (
	"sync"
	"time"
)

// RateLimiter allows at most max calls in any interval-long window. It keeps
// the timestamps of accepted calls and prunes the stale ones on every check.
// Time is always supplied by the caller.
type RateLimiter struct {
	mu       sync.Mutex
	max      int
	interval time.Duration
	calls    []time.Time
}

// NewRateLimiter creates a limiter for limit calls per interval. A
// non-positive limit rejects every call.
func NewRateLimiter(limit int, interval time.Duration) *RateLimiter {
	return &RateLimiter{max: limit, interval: interval}
}

func (r *RateLimiter) prune(now time.Time) {
	cutoff := now.Add(-r.interval)
	kept := r.calls[:0]
	for _, t := range r.calls {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	r.calls = kept
}

// Allow records a call at now and reports whether it is within the limit.
// Rejected calls are not recorded.
func (r *RateLimiter) Allow(now time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.prune(now)
	if len(r.calls) >= r.max {
		return false
	}
	r.calls = append(r.calls, now)
	return true
}

// Remaining reports how many calls would be allowed at now.
func (r *RateLimiter) Remaining(now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.prune(now)
	return max(r.max-len(r.calls), 0)
}

// RetryAfter reports how long after now the next call will be allowed.
func (r *RateLimiter) RetryAfter(now time.Time) time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.prune(now)
	if len(r.calls) < r.max || len(r.calls) == 0 {
		return 0
	}
	return r.calls[0].Add(r.interval).Sub(now)
}

// Reset forgets every recorded call.
func (r *RateLimiter) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
}
