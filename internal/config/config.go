// Package config holds the board configuration record.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/hailam/chessboard/internal/anim"
	"github.com/hailam/chessboard/internal/board"
	"github.com/hailam/chessboard/internal/interaction"
	"github.com/hailam/chessboard/internal/reconcile"
)

// Movable selects which side's pieces the user may pick up.
type Movable string

const (
	MovableBoth  Movable = "both"
	MovableWhite Movable = "white"
	MovableBlack Movable = "black"
	MovableNone  Movable = "none"
)

// DropOff is what happens to a piece dropped outside the board.
type DropOff string

const (
	DropSnapback DropOff = "snapback"
	DropTrash    DropOff = "trash"
)

// Config is the configuration of one board. It is a value: a board keeps
// its own copy, and changing it means handing the board a new one.
type Config struct {
	Orientation   string  `json:"orientation"`
	MovableColors Movable `json:"movable_colors"`
	Draggable     bool    `json:"draggable"`
	DropOffBoard  DropOff `json:"drop_off_board"`
	ShowHints     bool    `json:"show_hints"`

	Animate    bool `json:"animate"`
	Sequential bool `json:"sequential"`

	MoveDuration     time.Duration `json:"move_duration"`
	SnapbackDuration time.Duration `json:"snapback_duration"`
	AppearDuration   time.Duration `json:"appear_duration"`
	RemoveDuration   time.Duration `json:"remove_duration"`
	SequentialDelay  time.Duration `json:"sequential_delay"`
	Debounce         time.Duration `json:"debounce"`

	// DragThreshold is in pixels.
	DragThreshold float64       `json:"drag_threshold"`
	CacheTTL      time.Duration `json:"cache_ttl"`

	Easing        string `json:"easing"`
	CaptureEffect string `json:"capture_effect"`
	RemoveEffect  string `json:"remove_effect"`
	AppearEffect  string `json:"appear_effect"`
}

// Default returns the configuration a board starts with.
func Default() Config {
	return Config{
		Orientation:      "white",
		MovableColors:    MovableBoth,
		Draggable:        true,
		DropOffBoard:     DropSnapback,
		ShowHints:        true,
		Animate:          true,
		Sequential:       false,
		MoveDuration:     200 * time.Millisecond,
		SnapbackDuration: 60 * time.Millisecond,
		AppearDuration:   200 * time.Millisecond,
		RemoveDuration:   150 * time.Millisecond,
		SequentialDelay:  50 * time.Millisecond,
		Debounce:         16 * time.Millisecond,
		DragThreshold:    4,
		CacheTTL:         2 * time.Second,
		Easing:           "easeInOut",
		CaptureEffect:    "fadeOut",
		RemoveEffect:     "shrink",
		AppearEffect:     "fadeIn",
	}
}

// Validate checks every field and returns all problems joined.
func (c Config) Validate() error {
	var errs []error

	if _, err := board.ParseColor(c.Orientation); err != nil {
		errs = append(errs, board.ConfigError("orientation", c.Orientation, "must be white or black"))
	}
	switch c.MovableColors {
	case MovableBoth, MovableWhite, MovableBlack, MovableNone:
	default:
		errs = append(errs, board.ConfigError("movable_colors", c.MovableColors, "must be both, white, black or none"))
	}
	switch c.DropOffBoard {
	case DropSnapback, DropTrash:
	default:
		errs = append(errs, board.ConfigError("drop_off_board", c.DropOffBoard, "must be snapback or trash"))
	}

	durations := []struct {
		name string
		d    time.Duration
	}{
		{"move_duration", c.MoveDuration},
		{"snapback_duration", c.SnapbackDuration},
		{"appear_duration", c.AppearDuration},
		{"remove_duration", c.RemoveDuration},
		{"sequential_delay", c.SequentialDelay},
		{"debounce", c.Debounce},
	}
	for _, d := range durations {
		if d.d < 0 {
			errs = append(errs, board.ConfigError(d.name, d.d, "must not be negative"))
		}
	}
	if c.CacheTTL <= 0 {
		errs = append(errs, board.ConfigError("cache_ttl", c.CacheTTL, "must be positive"))
	}
	if c.DragThreshold < 0 {
		errs = append(errs, board.ConfigError("drag_threshold", c.DragThreshold, "must not be negative"))
	}

	if _, ok := anim.ParseEasing(c.Easing); !ok {
		errs = append(errs, board.ConfigError("easing", c.Easing, fmt.Sprintf("must be one of %v", anim.EasingNames)))
	}
	effects := []struct{ name, value string }{
		{"capture_effect", c.CaptureEffect},
		{"remove_effect", c.RemoveEffect},
		{"appear_effect", c.AppearEffect},
	}
	for _, e := range effects {
		if _, ok := anim.ParseEffect(e.value); !ok {
			errs = append(errs, board.ConfigError(e.name, e.value, "unknown effect"))
		}
	}

	return errors.Join(errs...)
}

// OrientationColor returns the side drawn at the bottom.
func (c Config) OrientationColor() board.Color {
	col, err := board.ParseColor(c.Orientation)
	if err != nil {
		return board.White
	}
	return col
}

// CanMove reports whether pieces of col may be picked up.
func (c Config) CanMove(col board.Color) bool {
	switch c.MovableColors {
	case MovableBoth:
		return true
	case MovableWhite:
		return col == board.White
	case MovableBlack:
		return col == board.Black
	}
	return false
}

// Timing returns the animation timing. Names that do not parse fall back
// to linear easing and no effect; Validate reports them.
func (c Config) Timing() reconcile.Timing {
	ease, ok := anim.ParseEasing(c.Easing)
	if !ok {
		ease = anim.Linear
	}
	effect := func(name string) anim.Effect {
		e, _ := anim.ParseEffect(name)
		return e
	}
	return reconcile.Timing{
		MoveDuration:    c.MoveDuration,
		AppearDuration:  c.AppearDuration,
		RemoveDuration:  c.RemoveDuration,
		SequentialDelay: c.SequentialDelay,
		Easing:          ease,
		CaptureEffect:   effect(c.CaptureEffect),
		RemoveEffect:    effect(c.RemoveEffect),
		AppearEffect:    effect(c.AppearEffect),
	}
}

// Interaction returns the interaction machine settings.
func (c Config) Interaction() interaction.Config {
	return interaction.Config{
		DragThreshold: c.DragThreshold,
		Draggable:     c.Draggable && c.MovableColors != MovableNone,
		TrashOffBoard: c.DropOffBoard == DropTrash,
		ShowHints:     c.ShowHints,
	}
}
