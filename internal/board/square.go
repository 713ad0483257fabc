// Package board holds the vocabulary shared by every part of the chessboard:
// squares, pieces, moves, placements and the geometry that maps them to pixels.
package board

// Square indexes the 64 squares rank by rank from a1, so a1=0, h1=7 and
// h8=63. Every iteration over the board uses this order.
type Square uint8

// One line per rank.
const (
	A1, B1, C1, D1, E1, F1, G1, H1 Square = 8*iota + 0, 8*iota + 1, 8*iota + 2, 8*iota + 3, 8*iota + 4, 8*iota + 5, 8*iota + 6, 8*iota + 7
	A2, B2, C2, D2, E2, F2, G2, H2
	A3, B3, C3, D3, E3, F3, G3, H3
	A4, B4, C4, D4, E4, F4, G4, H4
	A5, B5, C5, D5, E5, F5, G5, H5
	A6, B6, C6, D6, E6, F6, G6, H6
	A7, B7, C7, D7, E7, F7, G7, H7
	A8, B8, C8, D8, E8, F8, G8, H8
)

// NoSquare is off the board.
const NoSquare Square = 64

func (sq Square) File() int { return int(sq % 8) }
func (sq Square) Rank() int { return int(sq / 8) }

// IsValid reports whether sq is on the board.
func (sq Square) IsValid() bool {
	return sq < NoSquare
}

// String is the square's name ("e4"), or "-" off the board.
func (sq Square) String() string {
	if !sq.IsValid() {
		return "-"
	}
	return string([]byte{byte('a' + sq.File()), byte('1' + sq.Rank())})
}

// NewSquare returns NoSquare for coordinates outside 0..7.
func NewSquare(file, rank int) Square {
	if file < 0 || file > 7 || rank < 0 || rank > 7 {
		return NoSquare
	}
	return Square(rank*8 + file)
}

// ParseSquare reads a lowercase square name.
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 {
		return NoSquare, invalidInput("square", s)
	}
	sq := NewSquare(int(s[0])-'a', int(s[1])-'1')
	if !sq.IsValid() {
		return NoSquare, invalidInput("square", s)
	}
	return sq, nil
}

// Behind is the square one rank nearer the mover's own back rank, or
// NoSquare off the board. It is where a pawn taken en passant stands.
func (sq Square) Behind(mover Color) Square {
	if mover == White {
		return NewSquare(sq.File(), sq.Rank()-1)
	}
	return NewSquare(sq.File(), sq.Rank()+1)
}

// PromotionRank is the rank a pawn of color c promotes on.
func PromotionRank(c Color) int {
	if c == White {
		return 7
	}
	return 0
}
