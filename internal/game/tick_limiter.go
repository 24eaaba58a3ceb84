package game

import (
	"time"
)

// spinWindow is the tail of each wait that is busy-polled instead of slept.
const spinWindow = 200 * time.Microsecond

// TickLimiter paces a loop to a fixed tick rate.
type TickLimiter struct {
	rate int
	next time.Time
}

// NewTickLimiter creates a limiter for hz ticks per second. hz <= 0 disables pacing.
func NewTickLimiter(hz int) *TickLimiter {
	return &TickLimiter{rate: hz}
}

// Wait blocks until the next tick is due. Sleeps most of the interval and
// spins for the remainder for better precision.
func (l *TickLimiter) Wait() {
	if l.rate <= 0 {
		l.next = time.Time{}
		return
	}

	target := time.Second / time.Duration(l.rate)
	if l.next.IsZero() {
		l.next = time.Now().Add(target)
	} else {
		l.next = l.next.Add(target)
	}

	for {
		remaining := time.Until(l.next)
		if remaining <= 0 {
			break
		}
		if remaining > spinWindow {
			time.Sleep(remaining - spinWindow)
		}
	}

	// resync after a hitch instead of bursting to catch up
	if late := -time.Until(l.next); late > target {
		l.next = time.Now().Add(target)
	}
}
