// Package reconcile computes the visual operations that carry a rendered
// board from its current placement to the placement of a new position.
package reconcile

import (
	"fmt"

	"github.com/hailam/chessboard/internal/board"
)

// Op is the discriminant of an Operation.
type Op uint8

const (
	OpTranslate Op = iota + 1
	OpInsert
	OpRemove
	OpPromote
)

func (o Op) String() string {
	switch o {
	case OpTranslate:
		return "translate"
	case OpInsert:
		return "insert"
	case OpRemove:
		return "remove"
	case OpPromote:
		return "promote"
	}
	return "unknown"
}

// Operation is one visual change. Which fields are meaningful depends on Op:
//
//	Translate: ID, Piece, From, To
//	Insert:    Piece, To (ID is assigned when the operation is applied)
//	Remove:    ID, Piece, To, Capture
//	Promote:   ID, Old, Piece (the new kind), To
type Operation struct {
	Op      Op
	ID      board.PieceID
	Piece   board.Piece
	Old     board.Piece
	From    board.Square
	To      board.Square
	Capture bool
}

// Translate moves piece id from one square to another.
func Translate(id board.PieceID, p board.Piece, from, to board.Square) Operation {
	return Operation{Op: OpTranslate, ID: id, Piece: p, Old: board.NoPiece, From: from, To: to}
}

// Insert creates a new piece on sq.
func Insert(sq board.Square, p board.Piece) Operation {
	return Operation{Op: OpInsert, Piece: p, Old: board.NoPiece, From: board.NoSquare, To: sq}
}

// Remove takes piece id off sq. Capture selects the capture animation.
func Remove(sq board.Square, id board.PieceID, p board.Piece, capture bool) Operation {
	return Operation{Op: OpRemove, ID: id, Piece: p, Old: board.NoPiece, From: board.NoSquare, To: sq, Capture: capture}
}

// Promote changes the kind of piece id on sq in place.
func Promote(sq board.Square, id board.PieceID, old, p board.Piece) Operation {
	return Operation{Op: OpPromote, ID: id, Piece: p, Old: old, From: board.NoSquare, To: sq}
}

// Square returns the square the operation leaves its piece on.
func (o Operation) Square() board.Square {
	return o.To
}

func (o Operation) String() string {
	switch o.Op {
	case OpTranslate:
		return fmt.Sprintf("Translate(%v %v %v->%v)", o.ID, o.Piece, o.From, o.To)
	case OpInsert:
		return fmt.Sprintf("Insert(%v %v)", o.To, o.Piece)
	case OpRemove:
		if o.Capture {
			return fmt.Sprintf("Remove(%v %v %v capture)", o.To, o.ID, o.Piece)
		}
		return fmt.Sprintf("Remove(%v %v %v)", o.To, o.ID, o.Piece)
	case OpPromote:
		return fmt.Sprintf("Promote(%v %v %v->%v)", o.To, o.ID, o.Old, o.Piece)
	}
	return "Operation(?)"
}

// ApplyTo updates v as if op had completed. Vacating a square only clears
// it while it still holds the operation's piece, so the operations of one
// pass may be applied in any order.
func ApplyTo(v *board.Visual, op Operation) {
	vacate := func(sq board.Square) {
		if sq.IsValid() && v[sq].ID == op.ID {
			v[sq] = board.Occupant{Piece: board.NoPiece}
		}
	}

	switch op.Op {
	case OpTranslate:
		vacate(op.From)
		v[op.To] = board.Occupant{ID: op.ID, Piece: op.Piece}
	case OpInsert:
		v[op.To] = board.Occupant{ID: op.ID, Piece: op.Piece}
	case OpRemove:
		vacate(op.To)
	case OpPromote:
		if v[op.To].ID == op.ID {
			v[op.To].Piece = op.Piece
		}
	}
}
