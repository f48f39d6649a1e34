package limits

import (
	"sync"
	"time"
)

// SlidingWindow is a per-identity sliding-window rate limiter. Each identity
// carries an ordered log of request timestamps; on every check entries older
// than the window are pruned before counting, so an identity's log never
// exceeds maxRequests entries. Idle identities are not evicted; memory is
// bounded by distinct identities times maxRequests.
type SlidingWindow struct {
	mu          sync.Mutex
	requests    map[string][]time.Time
	maxRequests int
	window      time.Duration
	now         func() time.Time
}

// NewSlidingWindow creates a SlidingWindow allowing maxRequests per identity
// within the trailing window
func NewSlidingWindow(maxRequests int, window time.Duration) *SlidingWindow {
	return &SlidingWindow{
		requests:    make(map[string][]time.Time),
		maxRequests: maxRequests,
		window:      window,
		now:         time.Now,
	}
}

// SetClock overrides the time source. Test use only.
func (w *SlidingWindow) SetClock(now func() time.Time) {
	w.now = now
}

// Allow checks the identity's window occupancy. If the pruned log holds
// fewer than maxRequests entries the current timestamp is appended and the
// request is admitted; otherwise the request is rejected and the log is
// left unchanged.
func (w *SlidingWindow) Allow(identity string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.now()
	cutoff := now.Add(-w.window)

	log := w.requests[identity]
	kept := log[:0]
	for _, ts := range log {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}

	if len(kept) >= w.maxRequests {
		w.requests[identity] = kept
		return false
	}

	w.requests[identity] = append(kept, now)
	return true
}

// Occupancy returns the number of requests recorded for the identity within
// the current window
func (w *SlidingWindow) Occupancy(identity string) int {
	w.mu.Lock()
	defer w.mu.Unlock()

	cutoff := w.now().Add(-w.window)
	count := 0
	for _, ts := range w.requests[identity] {
		if ts.After(cutoff) {
			count++
		}
	}
	return count
}
