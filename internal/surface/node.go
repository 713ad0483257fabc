package surface

import (
	"time"

	"github.com/hailam/chessboard/internal/anim"
	"github.com/hailam/chessboard/internal/board"
)

type memoryNode struct {
	m     *Memory
	id    board.PieceID
	piece board.Piece

	// pos is the resting position, or the start of the motion in progress.
	pos    board.Vec
	target board.Vec
	start  time.Time
	dur    time.Duration
	ease   anim.Easing
	moving bool
	motion anim.Timer

	effect      anim.Effect
	effectStart time.Time
	effectDur   time.Duration
	effectTimer anim.Timer

	lifted    bool
	destroyed bool
}

func (n *memoryNode) ID() board.PieceID { return n.id }
func (n *memoryNode) Piece() board.Piece { return n.piece }
func (n *memoryNode) Destroyed() bool { return n.destroyed }

func (n *memoryNode) unavailable() error {
	sq := board.NewSquare(int(n.pos.File+0.5), int(n.pos.Rank+0.5))
	return board.SurfaceUnavailable(n.id, sq)
}

func (n *memoryNode) Position() board.Vec {
	if !n.moving {
		return n.pos
	}
	p := anim.Progress(n.start, n.m.clock.Now(), n.dur)
	return board.Lerp(n.pos, n.target, n.ease(p))
}

// Effect returns the node's current effect and how far through it is.
func (n *memoryNode) Effect() (anim.Effect, float64) {
	if n.effect == anim.EffectNone {
		return anim.EffectNone, 0
	}
	return n.effect, anim.Progress(n.effectStart, n.m.clock.Now(), n.effectDur)
}

// Lifted reports whether the node is being dragged.
func (n *memoryNode) Lifted() bool { return n.lifted }

// halt freezes motion at the current position.
func (n *memoryNode) halt() {
	if !n.moving {
		return
	}
	n.pos = n.Position()
	n.moving = false
	if n.motion != nil {
		n.motion.Stop()
		n.motion = nil
	}
}

func (n *memoryNode) Translate(sq board.Square, d time.Duration, ease anim.Easing, done func()) error {
	if n.destroyed {
		return n.unavailable()
	}
	if ease == nil {
		ease = anim.Linear
	}
	n.halt()
	n.lifted = false
	n.target = board.SquareVec(sq)
	n.start = n.m.clock.Now()
	n.dur = d
	n.ease = ease
	n.moving = true

	n.motion = n.m.clock.AfterFunc(d, func() {
		n.motion = nil
		n.moving = false
		n.pos = n.target
		if done != nil {
			done()
		}
	})
	n.m.emit(Event{Kind: EventTranslate, ID: n.id, Square: sq.String(), Millis: d.Milliseconds()})
	return nil
}

func (n *memoryNode) Animate(effect anim.Effect, d time.Duration, done func()) error {
	if n.destroyed {
		return n.unavailable()
	}
	if n.effectTimer != nil {
		n.effectTimer.Stop()
	}
	n.effect = effect
	n.effectStart = n.m.clock.Now()
	n.effectDur = d

	n.effectTimer = n.m.clock.AfterFunc(d, func() {
		n.effectTimer = nil
		if done != nil {
			done()
		}
	})
	n.m.emit(Event{Kind: EventAnimate, ID: n.id, Effect: effect.String(), Millis: d.Milliseconds()})
	return nil
}

func (n *memoryNode) SetPiece(p board.Piece) error {
	if n.destroyed {
		return n.unavailable()
	}
	n.piece = p
	n.m.emit(Event{Kind: EventSetPiece, ID: n.id, Piece: p.Code()})
	return nil
}

func (n *memoryNode) Lift() error {
	if n.destroyed {
		return n.unavailable()
	}
	n.halt()
	n.lifted = true
	n.m.emit(Event{Kind: EventLift, ID: n.id})
	return nil
}

func (n *memoryNode) Follow(v board.Vec) error {
	if n.destroyed {
		return n.unavailable()
	}
	n.halt()
	n.pos = v
	n.m.emit(Event{Kind: EventFollow, ID: n.id, File: v.File, Rank: v.Rank})
	return nil
}

func (n *memoryNode) Place(sq board.Square) error {
	if n.destroyed {
		return n.unavailable()
	}
	n.halt()
	n.lifted = false
	n.pos = board.SquareVec(sq)
	n.m.emit(Event{Kind: EventPlace, ID: n.id, Square: sq.String()})
	return nil
}

// Stop halts motion where it is and cancels any effect.
func (n *memoryNode) Stop() {
	if n.destroyed {
		return
	}
	n.halt()
	if n.effectTimer != nil {
		n.effectTimer.Stop()
		n.effectTimer = nil
	}
	n.effect = anim.EffectNone
	n.m.emit(Event{Kind: EventStop, ID: n.id})
}

func (n *memoryNode) Destroy() {
	if n.destroyed {
		return
	}
	n.halt()
	if n.effectTimer != nil {
		n.effectTimer.Stop()
		n.effectTimer = nil
	}
	n.destroyed = true
	if n.m.nodes[n.id] == n {
		delete(n.m.nodes, n.id)
	}
	n.m.emit(Event{Kind: EventDestroy, ID: n.id})
}
