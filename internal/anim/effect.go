package anim

import (
	"math"
	"strings"
)

// Effect is an in-place animation of a piece: how it leaves the board, how
// it arrives, or a shake after an illegal attempt.
type Effect uint8

const (
	EffectNone Effect = iota
	EffectFadeOut
	EffectShrink
	EffectFadeIn
	EffectGrow
	EffectShake
)

var effectNames = [...]string{"none", "fadeOut", "shrink", "fadeIn", "grow", "shake"}

func (e Effect) String() string {
	if int(e) < len(effectNames) {
		return effectNames[e]
	}
	return "unknown"
}

// ParseEffect looks an effect up by name, case-insensitively.
func ParseEffect(name string) (Effect, bool) {
	for i, n := range effectNames {
		if strings.EqualFold(n, name) {
			return Effect(i), true
		}
	}
	return EffectNone, false
}

// Opacity returns the alpha of a piece p of the way through the effect.
func (e Effect) Opacity(p float64) float64 {
	switch e {
	case EffectFadeOut:
		return 1 - p
	case EffectFadeIn:
		return p
	}
	return 1
}

// Scale returns the size factor of a piece p of the way through the effect.
func (e Effect) Scale(p float64) float64 {
	switch e {
	case EffectShrink:
		return 1 - p
	case EffectGrow:
		return p
	}
	return 1
}

// Offset returns the horizontal displacement, in squares, of a shaking
// piece: a damped sine wave.
func (e Effect) Offset(p float64) float64 {
	if e != EffectShake || p >= 1 {
		return 0
	}
	const (
		decay     = 5.0
		freq      = 40.0
		amplitude = 0.1
	)
	return amplitude * math.Exp(-decay*p) * math.Sin(freq*p)
}
