// Package surface defines the rendering primitives a board drives, and a
// headless implementation of them.
package surface

import (
	"time"

	"github.com/hailam/chessboard/internal/anim"
	"github.com/hailam/chessboard/internal/board"
)

// Node is one rendered piece.
//
// Operations on a destroyed node return a SurfaceUnavailable error. Done
// callbacks run from the surface's clock, never synchronously, and not at
// all once the node is stopped or destroyed.
type Node interface {
	ID() board.PieceID
	Piece() board.Piece

	// Position is where the node is drawn now, in board units, including
	// any motion in progress.
	Position() board.Vec

	// Translate slides the node from its current position to sq.
	Translate(sq board.Square, d time.Duration, ease anim.Easing, done func()) error

	// Animate plays an in-place effect.
	Animate(effect anim.Effect, d time.Duration, done func()) error

	// SetPiece changes the kind drawn, for promotion in place.
	SetPiece(p board.Piece) error

	// Lift raises the node above the others for dragging; Follow moves a
	// lifted node; Place drops it onto a square without animating.
	Lift() error
	Follow(v board.Vec) error
	Place(sq board.Square) error

	// Stop halts motion where it is and cancels any effect.
	Stop()
	Destroy()
	Destroyed() bool

	// Effect returns the effect playing, or last played, and its progress.
	Effect() (anim.Effect, float64)
	Lifted() bool
}

// Surface is the board a Node lives on, plus per-square decorations.
type Surface interface {
	// Put creates a node for piece id on sq, replacing any node with that
	// id.
	Put(sq board.Square, id board.PieceID, p board.Piece) Node
	Node(id board.PieceID) (Node, bool)
	Nodes() []Node

	Highlight(sq board.Square)
	Dehighlight(sq board.Square)
	Select(sq board.Square)
	Deselect(sq board.Square)
	ShowHints(targets board.SquareSet)
	ClearHints()
	ShowPromotion(to board.Square, c board.Color)
	HidePromotion()
	SetFlipped(flipped bool)
}
