package ui

import (
	"errors"
	"image/color"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/hailam/chessboard/internal/anim"
	"github.com/hailam/chessboard/internal/authority"
	"github.com/hailam/chessboard/internal/board"
	"github.com/hailam/chessboard/internal/surface"
)

const shakeDuration = 300 * time.Millisecond

// ToastType represents the type of toast notification.
type ToastType int

const (
	ToastInfo ToastType = iota
	ToastWarning
	ToastError
	ToastSuccess
)

// Toast represents a notification message.
type Toast struct {
	Message   string
	Type      ToastType
	StartTime time.Time
	Duration  time.Duration
}

// ToastManager manages toast notifications.
type ToastManager struct {
	toasts   []*Toast
	maxStack int
	now      func() time.Time
}

// NewToastManager creates a toast manager timed by now.
func NewToastManager(now func() time.Time) *ToastManager {
	return &ToastManager{maxStack: 3, now: now}
}

// Show displays a new toast notification.
func (tm *ToastManager) Show(message string, toastType ToastType, duration time.Duration) {
	tm.toasts = append(tm.toasts, &Toast{
		Message:   message,
		Type:      toastType,
		StartTime: tm.now(),
		Duration:  duration,
	})
	if len(tm.toasts) > tm.maxStack {
		tm.toasts = tm.toasts[1:]
	}
}

// Update removes expired toasts.
func (tm *ToastManager) Update() {
	now := tm.now()
	active := tm.toasts[:0]
	for _, t := range tm.toasts {
		if now.Sub(t.StartTime) < t.Duration {
			active = append(active, t)
		}
	}
	tm.toasts = active
}

// Messages returns the text of the live toasts, oldest first.
func (tm *ToastManager) Messages() []string {
	out := make([]string, len(tm.toasts))
	for i, t := range tm.toasts {
		out[i] = t.Message
	}
	return out
}

func toastColors(t ToastType, alpha float64) (bg, fg color.RGBA) {
	switch t {
	case ToastWarning:
		return color.RGBA{180, 140, 20, uint8(220 * alpha)}, color.RGBA{40, 30, 0, uint8(255 * alpha)}
	case ToastError:
		return color.RGBA{180, 50, 50, uint8(220 * alpha)}, color.RGBA{255, 255, 255, uint8(255 * alpha)}
	case ToastSuccess:
		return color.RGBA{50, 150, 50, uint8(220 * alpha)}, color.RGBA{255, 255, 255, uint8(255 * alpha)}
	}
	return color.RGBA{50, 100, 150, uint8(220 * alpha)}, color.RGBA{255, 255, 255, uint8(255 * alpha)}
}

// Draw renders all active toasts centred over the board.
func (tm *ToastManager) Draw(screen *ebiten.Image) {
	face := GetRegularFace()
	if face == nil {
		return
	}

	const fade = 0.2
	y := 50.0
	for _, t := range tm.toasts {
		elapsed := tm.now().Sub(t.StartTime).Seconds()
		duration := t.Duration.Seconds()

		alpha := 1.0
		if elapsed < fade {
			alpha = elapsed / fade
		} else if elapsed > duration-fade {
			alpha = (duration - elapsed) / fade
		}
		bg, fg := toastColors(t.Type, alpha)

		w, h := MeasureText(t.Message, face)
		padding := 12.0
		boxW, boxH := w+padding*2, h+padding*2
		x := float64(BoardSize)/2 - boxW/2

		vector.DrawFilledRect(screen, float32(x), float32(y), float32(boxW), float32(boxH), bg, false)
		op := &text.DrawOptions{}
		op.GeoM.Translate(x+padding, y+padding)
		op.ColorScale.ScaleWithColor(fg)
		text.Draw(screen, t.Message, face, op)

		y += boxH + 8
	}
}

// FeedbackManager turns board events into toasts, sounds and shakes.
type FeedbackManager struct {
	toasts *ToastManager
	audio  *AudioManager
}

// NewFeedbackManager creates a feedback manager. audio may be nil.
func NewFeedbackManager(now func() time.Time, audio *AudioManager) *FeedbackManager {
	return &FeedbackManager{toasts: NewToastManager(now), audio: audio}
}

// Update updates all feedback systems.
func (fm *FeedbackManager) Update() {
	fm.toasts.Update()
}

// Draw renders all feedback overlays.
func (fm *FeedbackManager) Draw(screen *ebiten.Image) {
	fm.toasts.Draw(screen)
}

// Toasts returns the toast manager.
func (fm *FeedbackManager) Toasts() *ToastManager {
	return fm.toasts
}

func (fm *FeedbackManager) play(s SoundType) {
	if fm.audio != nil {
		fm.audio.Play(s)
	}
}

// OnMoveEnd reports a move once its animation settled. outcome is the
// game result, "*" while the game goes on.
func (fm *FeedbackManager) OnMoveEnd(res authority.MoveResult, outcome string) {
	switch {
	case outcome != "*" && outcome != "":
		fm.toasts.Show(outcomeMessage(outcome, res.SAN), ToastSuccess, 5*time.Second)
		fm.play(SoundGameEnd)
	case strings.HasSuffix(res.SAN, "+"):
		fm.toasts.Show("Check!", ToastWarning, 2*time.Second)
		fm.play(SoundCheck)
	case res.Castle:
		fm.play(SoundCastle)
	case res.IsCapture():
		fm.play(SoundCapture)
	default:
		fm.play(SoundMove)
	}
}

func outcomeMessage(outcome, san string) string {
	mate := strings.HasSuffix(san, "#")
	switch outcome {
	case "1-0":
		if mate {
			return "Checkmate! White wins!"
		}
		return "White wins"
	case "0-1":
		if mate {
			return "Checkmate! Black wins!"
		}
		return "Black wins"
	}
	return "Draw"
}

// OnSnapback shakes a piece that went back where it came from.
func (fm *FeedbackManager) OnSnapback(n surface.Node) {
	if n != nil {
		_ = n.Animate(anim.EffectShake, shakeDuration, nil)
	}
	fm.play(SoundInvalid)
}

// OnRejected explains a refused operation.
func (fm *FeedbackManager) OnRejected(err error) {
	msg := "Invalid move"
	var be *board.Error
	if errors.As(err, &be) {
		switch {
		case be.Kind == board.KindInvalidInput:
			msg = "Invalid input"
		case be.Kind == board.KindConfiguration:
			msg = "Invalid settings"
		case be.Kind == board.KindIllegalMove && be.Move != "":
			msg = "Illegal move " + be.Move
		}
	}
	fm.toasts.Show(msg, ToastWarning, 2*time.Second)
	fm.play(SoundInvalid)
}

// Info shows a short informational toast.
func (fm *FeedbackManager) Info(msg string) {
	fm.toasts.Show(msg, ToastInfo, 2*time.Second)
}
