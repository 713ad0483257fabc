package board

import "strconv"

// Placement maps every square to the piece kind standing on it.
// It carries no instance identity: it is what a position authority knows.
type Placement [64]Piece

// EmptyPlacement returns a placement with no pieces.
func EmptyPlacement() Placement {
	var p Placement
	for i := range p {
		p[i] = NoPiece
	}
	return p
}

// At returns the piece on sq, or NoPiece.
func (p *Placement) At(sq Square) Piece {
	if !sq.IsValid() {
		return NoPiece
	}
	return p[sq]
}

// Count returns the number of occupied squares.
func (p *Placement) Count() int {
	n := 0
	for _, pc := range p {
		if pc != NoPiece {
			n++
		}
	}
	return n
}

// PieceID identifies one rendered piece instance. Zero means none.
type PieceID uint32

func (id PieceID) String() string {
	return "#" + strconv.FormatUint(uint64(id), 10)
}

// Occupant is the rendered piece standing on a square.
type Occupant struct {
	ID    PieceID
	Piece Piece
}

// Empty reports whether no piece stands on the square.
func (o Occupant) Empty() bool {
	return o.ID == 0 || o.Piece == NoPiece
}

// Visual maps every square to the rendered piece instance on it.
type Visual [64]Occupant

// EmptyVisual returns a visual placement with no pieces.
func EmptyVisual() Visual {
	var v Visual
	for i := range v {
		v[i] = Occupant{Piece: NoPiece}
	}
	return v
}

// At returns the occupant of sq.
func (v *Visual) At(sq Square) Occupant {
	if !sq.IsValid() {
		return Occupant{Piece: NoPiece}
	}
	return v[sq]
}

// Kinds strips identities, leaving the piece-kind placement.
func (v *Visual) Kinds() Placement {
	var p Placement
	for i, o := range v {
		if o.Empty() {
			p[i] = NoPiece
		} else {
			p[i] = o.Piece
		}
	}
	return p
}

// Find returns the square holding id, or NoSquare.
func (v *Visual) Find(id PieceID) Square {
	if id == 0 {
		return NoSquare
	}
	for i, o := range v {
		if o.ID == id {
			return Square(i)
		}
	}
	return NoSquare
}

// Count returns the number of occupied squares.
func (v *Visual) Count() int {
	n := 0
	for _, o := range v {
		if !o.Empty() {
			n++
		}
	}
	return n
}
