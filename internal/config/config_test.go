package config

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/hailam/chessboard/internal/anim"
	"github.com/hailam/chessboard/internal/board"
	"github.com/hailam/chessboard/internal/interaction"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		field  string
	}{
		{"orientation", func(c *Config) { c.Orientation = "red" }, "orientation"},
		{"movable", func(c *Config) { c.MovableColors = "some" }, "movable_colors"},
		{"drop off", func(c *Config) { c.DropOffBoard = "bounce" }, "drop_off_board"},
		{"negative move duration", func(c *Config) { c.MoveDuration = -time.Millisecond }, "move_duration"},
		{"negative debounce", func(c *Config) { c.Debounce = -1 }, "debounce"},
		{"zero cache ttl", func(c *Config) { c.CacheTTL = 0 }, "cache_ttl"},
		{"negative threshold", func(c *Config) { c.DragThreshold = -2 }, "drag_threshold"},
		{"easing", func(c *Config) { c.Easing = "bounce" }, "easing"},
		{"capture effect", func(c *Config) { c.CaptureEffect = "explode" }, "capture_effect"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.modify(&c)
			err := c.Validate()
			if !errors.Is(err, board.ErrConfiguration) {
				t.Fatalf("Validate() = %v, want a configuration error", err)
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("error %q does not name %s", err, tt.field)
			}
		})
	}
}

func TestValidateJoinsErrors(t *testing.T) {
	c := Default()
	c.Orientation = ""
	c.Easing = ""
	err := c.Validate()
	for _, field := range []string{"orientation", "easing"} {
		if !strings.Contains(err.Error(), field) {
			t.Errorf("error %q does not name %s", err, field)
		}
	}
}

func TestCanMove(t *testing.T) {
	tests := []struct {
		movable      Movable
		white, black bool
	}{
		{MovableBoth, true, true},
		{MovableWhite, true, false},
		{MovableBlack, false, true},
		{MovableNone, false, false},
	}
	for _, tt := range tests {
		c := Default()
		c.MovableColors = tt.movable
		if got := c.CanMove(board.White); got != tt.white {
			t.Errorf("%s: CanMove(white) = %v", tt.movable, got)
		}
		if got := c.CanMove(board.Black); got != tt.black {
			t.Errorf("%s: CanMove(black) = %v", tt.movable, got)
		}
	}
}

func TestTiming(t *testing.T) {
	c := Default()
	c.CaptureEffect = "none"
	timing := c.Timing()

	if timing.MoveDuration != c.MoveDuration || timing.SequentialDelay != c.SequentialDelay {
		t.Errorf("durations not carried over: %+v", timing)
	}
	if timing.CaptureEffect != anim.EffectNone || timing.RemoveEffect != anim.EffectShrink {
		t.Errorf("effects = %v, %v", timing.CaptureEffect, timing.RemoveEffect)
	}
	if got := timing.Easing(0.5); got != anim.EaseInOut(0.5) {
		t.Errorf("easing(0.5) = %v", got)
	}
}

func TestInteraction(t *testing.T) {
	c := Default()
	c.DropOffBoard = DropTrash
	c.MovableColors = MovableNone

	want := interaction.Config{DragThreshold: 4, Draggable: false, TrashOffBoard: true, ShowHints: true}
	if diff := cmp.Diff(want, c.Interaction()); diff != "" {
		t.Errorf("Interaction() (-want +got):\n%s", diff)
	}
}

func TestOrientationColor(t *testing.T) {
	c := Default()
	if c.OrientationColor() != board.White {
		t.Error("default orientation is not white")
	}
	c.Orientation = "black"
	if c.OrientationColor() != board.Black {
		t.Error("black orientation not parsed")
	}
}
