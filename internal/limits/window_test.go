package limits

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestSlidingWindow_AllowsUpToMax(t *testing.T) {
	w := NewSlidingWindow(3, time.Minute)

	for i := 0; i < 3; i++ {
		if !w.Allow("10.0.0.1") {
			t.Fatalf("request %d rejected, want allowed", i+1)
		}
	}

	if w.Allow("10.0.0.1") {
		t.Fatal("4th request within window allowed, want rejected")
	}
}

func TestSlidingWindow_RejectionDoesNotConsumeSlot(t *testing.T) {
	w := NewSlidingWindow(2, time.Minute)

	w.Allow("10.0.0.1")
	w.Allow("10.0.0.1")
	w.Allow("10.0.0.1") // rejected

	if got := w.Occupancy("10.0.0.1"); got != 2 {
		t.Fatalf("Occupancy() = %d, want 2", got)
	}
}

func TestSlidingWindow_PrunesExpiredTimestamps(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	w := NewSlidingWindow(2, time.Minute)
	w.SetClock(func() time.Time { return now })

	if !w.Allow("10.0.0.1") || !w.Allow("10.0.0.1") {
		t.Fatal("initial requests rejected")
	}
	if w.Allow("10.0.0.1") {
		t.Fatal("over-limit request allowed")
	}

	// Advance past the window: old entries are pruned on the next check
	now = now.Add(61 * time.Second)
	if !w.Allow("10.0.0.1") {
		t.Fatal("request rejected after window elapsed")
	}
	if got := w.Occupancy("10.0.0.1"); got != 1 {
		t.Fatalf("Occupancy() = %d, want 1", got)
	}
}

func TestSlidingWindow_TrailingWindowSemantics(t *testing.T) {
	// Requests spread across the window boundary: only the trailing
	// window's worth counts at any check.
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	w := NewSlidingWindow(2, time.Minute)
	w.SetClock(func() time.Time { return now })

	w.Allow("10.0.0.1") // t=0
	now = now.Add(40 * time.Second)
	w.Allow("10.0.0.1") // t=40

	now = now.Add(15 * time.Second) // t=55, both still inside window
	if w.Allow("10.0.0.1") {
		t.Fatal("request allowed with window full")
	}

	now = now.Add(10 * time.Second) // t=65, first request expired
	if !w.Allow("10.0.0.1") {
		t.Fatal("request rejected after oldest entry left the window")
	}
}

func TestSlidingWindow_IdentitiesAreIndependent(t *testing.T) {
	w := NewSlidingWindow(1, time.Minute)

	if !w.Allow("10.0.0.1") {
		t.Fatal("first identity rejected")
	}
	if !w.Allow("10.0.0.2") {
		t.Fatal("second identity rejected, want independent budget")
	}
}

func TestSlidingWindow_ConcurrentAccess(t *testing.T) {
	w := NewSlidingWindow(50, time.Minute)

	var wg sync.WaitGroup
	allowed := make(chan bool, 100)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			allowed <- w.Allow(fmt.Sprintf("10.0.0.%d", n%4))
		}(i)
	}
	wg.Wait()
	close(allowed)

	count := 0
	for ok := range allowed {
		if ok {
			count++
		}
	}

	// 4 identities at 50 each; 25 requests per identity, all should pass
	if count != 100 {
		t.Fatalf("allowed = %d, want 100", count)
	}
}
