package anim

import (
	"math"
	"strings"
	"time"
)

// Easing maps linear progress in [0, 1] to eased progress.
type Easing func(t float64) float64

// Linear is constant speed.
func Linear(t float64) float64 { return t }

// EaseOut decelerates into the target.
func EaseOut(t float64) float64 {
	return 1 - (1-t)*(1-t)*(1-t)
}

// EaseInOut accelerates then decelerates.
func EaseInOut(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	f := -2*t + 2
	return 1 - f*f*f/2
}

var easings = map[string]Easing{
	"linear":    Linear,
	"easeOut":   EaseOut,
	"easeInOut": EaseInOut,
}

// EasingNames lists the names ParseEasing accepts.
var EasingNames = []string{"linear", "easeOut", "easeInOut"}

// ParseEasing looks an easing up by name, case-insensitively.
func ParseEasing(name string) (Easing, bool) {
	for k, e := range easings {
		if strings.EqualFold(k, name) {
			return e, true
		}
	}
	return nil, false
}

// Progress returns how far through [start, start+d) now is, clamped to
// [0, 1]. A zero duration is already complete.
func Progress(start, now time.Time, d time.Duration) float64 {
	if d <= 0 {
		return 1
	}
	p := now.Sub(start).Seconds() / d.Seconds()
	return math.Max(0, math.Min(1, p))
}
