package limits

import (
	"log/slog"
	"sync"
	"time"
)

// attemptRecord tracks consecutive login failures for one client identity.
// The zero value means no recorded failures and no lock.
type attemptRecord struct {
	failures    int
	lockedUntil time.Time
}

// AttemptTracker counts failed logins per client identity and locks an
// identity out once the failure threshold is reached. Unlocking is lazy:
// there is no timer, a locked identity becomes usable again on the first
// check after lockedUntil has passed.
type AttemptTracker struct {
	mu        sync.Mutex
	records   map[string]attemptRecord
	threshold int
	lockout   time.Duration
	now       func() time.Time
	logger    *slog.Logger
}

// NewAttemptTracker creates an AttemptTracker with the given failure
// threshold and lockout duration
func NewAttemptTracker(threshold int, lockout time.Duration, logger *slog.Logger) *AttemptTracker {
	return &AttemptTracker{
		records:   make(map[string]attemptRecord),
		threshold: threshold,
		lockout:   lockout,
		now:       time.Now,
		logger:    logger,
	}
}

// SetClock overrides the time source. Test use only.
func (t *AttemptTracker) SetClock(now func() time.Time) {
	t.now = now
}

// Locked reports whether the identity is currently locked out
func (t *AttemptTracker) Locked(identity string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	rec, ok := t.records[identity]
	return ok && t.now().Before(rec.lockedUntil)
}

// RecordFailure increments the failure count for the identity and locks it
// when the count reaches the threshold. Under concurrent failures the count
// may pass the threshold before the lock is observed; that is acceptable
// best-effort behavior.
func (t *AttemptTracker) RecordFailure(identity string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	rec := t.records[identity]
	rec.failures++

	if rec.failures >= t.threshold {
		rec.lockedUntil = t.now().Add(t.lockout)
		t.logger.Warn("client locked out after repeated login failures",
			slog.String("identity", identity),
			slog.Int("failures", rec.failures),
			slog.Time("locked_until", rec.lockedUntil),
		)
	} else {
		t.logger.Warn("failed login attempt",
			slog.String("identity", identity),
			slog.Int("failures", rec.failures),
		)
	}

	t.records[identity] = rec
}

// Reset clears the failure history for the identity. Called on any non-401
// login outcome: a successful login or a different failure type clears the
// counter entirely.
func (t *AttemptTracker) Reset(identity string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.records, identity)
}

// Failures returns the current failure count for the identity
func (t *AttemptTracker) Failures(identity string) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.records[identity].failures
}
