// Package anim provides the timing primitives a board animates with: a
// cooperative frame clock, easing curves, visual effects and futures.
//
// Nothing here blocks. Timers fire from FrameClock.Advance on the goroutine
// that owns the board, usually once per rendered frame.
package anim

import (
	"sort"
	"time"
)

// Clock schedules callbacks. Implementations fire them on the owning
// goroutine, never concurrently with other board code.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is a pending callback.
type Timer interface {
	// Stop prevents the callback from firing. It reports whether the timer
	// was still pending.
	Stop() bool
}

// FrameClock is a manual clock. Time only moves when Advance is called.
type FrameClock struct {
	now    time.Time
	timers []*frameTimer
}

type frameTimer struct {
	clock *FrameClock
	at    time.Time
	f     func()
	fired bool
}

func (t *frameTimer) Stop() bool {
	if t.fired {
		return false
	}
	t.fired = true
	t.clock.remove(t)
	return true
}

// NewFrameClock creates a clock reading start.
func NewFrameClock(start time.Time) *FrameClock {
	return &FrameClock{now: start}
}

// Now returns the clock's current time.
func (c *FrameClock) Now() time.Time {
	return c.now
}

// AfterFunc schedules f to run once the clock has advanced by d. A
// non-positive d fires on the next Advance. Timers due at the same instant
// fire in scheduling order.
func (c *FrameClock) AfterFunc(d time.Duration, f func()) Timer {
	if d < 0 {
		d = 0
	}
	t := &frameTimer{clock: c, at: c.now.Add(d), f: f}

	i := sort.Search(len(c.timers), func(i int) bool {
		return c.timers[i].at.After(t.at)
	})
	c.timers = append(c.timers, nil)
	copy(c.timers[i+1:], c.timers[i:])
	c.timers[i] = t
	return t
}

func (c *FrameClock) remove(t *frameTimer) {
	for i, x := range c.timers {
		if x == t {
			c.timers = append(c.timers[:i], c.timers[i+1:]...)
			return
		}
	}
}

// Advance moves the clock to now, firing every timer due by then in
// deadline order. While a callback runs, Now reports that timer's deadline,
// so timers it schedules are relative to when it was due. Timers scheduled
// by callbacks fire in the same Advance if they fall due.
func (c *FrameClock) Advance(now time.Time) {
	for len(c.timers) > 0 && !c.timers[0].at.After(now) {
		t := c.timers[0]
		c.timers = c.timers[1:]
		t.fired = true
		if t.at.After(c.now) {
			c.now = t.at
		}
		t.f()
	}
	if now.After(c.now) {
		c.now = now
	}
}

// Step advances the clock by d.
func (c *FrameClock) Step(d time.Duration) {
	c.Advance(c.now.Add(d))
}

// Pending returns the number of timers not yet fired.
func (c *FrameClock) Pending() int {
	return len(c.timers)
}
