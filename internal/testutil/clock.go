package testutil

import (
	"sync"
	"time"
)

// FixedClock returns the same instant on every call. Piped {{SYSTEM:DATE}}
// tokens resolve through the session clock, so golden traces need a frozen
// one.
//
// Thread-safety: all methods are safe for concurrent use via internal mutex.
type FixedClock struct {
	mu  sync.Mutex
	now time.Time
}

// DefaultTestTime is the instant a zero-configured FixedClock reports.
var DefaultTestTime = time.Date(2026, time.January, 2, 0, 0, 0, 0, time.UTC)

// NewFixedClock creates a clock frozen at the given instant.
// A zero instant freezes at DefaultTestTime.
func NewFixedClock(at time.Time) *FixedClock {
	if at.IsZero() {
		at = DefaultTestTime
	}
	return &FixedClock{now: at}
}

// Now returns the frozen instant. Matches the session's clock signature.
func (c *FixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the frozen instant forward, for tests exercising
// date-sensitive behavior across steps.
func (c *FixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
