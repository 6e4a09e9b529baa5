// Package throttle provides the leading-edge rate limiting used for
// input-driven UI reveals: the first event in a window fires
// immediately, everything else inside the window is dropped.
package throttle

import (
	"time"

	"golang.org/x/time/rate"
)

// Limiter drops calls that arrive within the configured interval of
// the last allowed one. Safe for concurrent use.
type Limiter struct {
	limiter *rate.Limiter
}

// New creates a Limiter with the given minimum interval between
// allowed calls. A zero or negative interval disables throttling.
func New(interval time.Duration) *Limiter {
	if interval <= 0 {
		return &Limiter{}
	}
	// Burst 1 with one token refilling per interval: the first call
	// in a quiet window always passes, intermediates are rejected.
	return &Limiter{limiter: rate.NewLimiter(rate.Every(interval), 1)}
}

// Allow reports whether a call may proceed now.
func (l *Limiter) Allow() bool {
	if l.limiter == nil {
		return true
	}
	return l.limiter.Allow()
}

// allowAt is Allow with an injected clock, for tests.
func (l *Limiter) allowAt(t time.Time) bool {
	if l.limiter == nil {
		return true
	}
	return l.limiter.AllowN(t, 1)
}

// Do runs fn if the limiter allows it and reports whether it ran.
func (l *Limiter) Do(fn func()) bool {
	if !l.Allow() {
		return false
	}
	fn()
	return true
}
