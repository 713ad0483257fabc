package board

import "math"

// Point is a pointer position in pixels, relative to the board's top-left
// corner.
type Point struct {
	X, Y float64
}

// Dist returns the distance between two points.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Vec is a position in board units: file and rank as floats, where a square
// occupies [file, file+1) x [rank, rank+1). A piece resting on a square sits
// at its integer corner.
type Vec struct {
	File, Rank float64
}

// SquareVec returns the resting position of a piece on sq.
func SquareVec(sq Square) Vec {
	return Vec{File: float64(sq.File()), Rank: float64(sq.Rank())}
}

// Lerp interpolates between a and b by t in [0, 1].
func Lerp(a, b Vec, t float64) Vec {
	return Vec{File: a.File + (b.File-a.File)*t, Rank: a.Rank + (b.Rank-a.Rank)*t}
}

// Geometry maps between pixels and squares for a square board of Size
// pixels per side, drawn from White's side unless Flipped.
type Geometry struct {
	Size    float64
	Flipped bool
}

// SquareSize returns the side of one square in pixels.
func (g Geometry) SquareSize() float64 {
	return g.Size / 8
}

// Contains reports whether pt lies on the board.
func (g Geometry) Contains(pt Point) bool {
	return pt.X >= 0 && pt.Y >= 0 && pt.X < g.Size && pt.Y < g.Size
}

// SquareAt returns the square under pt, or false if pt is off the board.
func (g Geometry) SquareAt(pt Point) (Square, bool) {
	if !g.Contains(pt) {
		return NoSquare, false
	}
	col := int(pt.X / g.SquareSize())
	row := int(pt.Y / g.SquareSize())
	file, rank := col, 7-row // Flip so rank 1 is at bottom
	if g.Flipped {
		file, rank = 7-col, row
	}
	return NewSquare(file, rank), true
}

// ToPixels converts a board-unit position to the pixel position of the
// top-left corner of a piece drawn there.
func (g Geometry) ToPixels(v Vec) Point {
	ss := g.SquareSize()
	if g.Flipped {
		return Point{X: (7 - v.File) * ss, Y: v.Rank * ss}
	}
	return Point{X: v.File * ss, Y: (7 - v.Rank) * ss}
}

// ToBoard converts a pointer position to the board-unit position a piece
// centred on the pointer would have.
func (g Geometry) ToBoard(pt Point) Vec {
	ss := g.SquareSize()
	col := pt.X/ss - 0.5
	row := pt.Y/ss - 0.5
	if g.Flipped {
		return Vec{File: 7 - col, Rank: row}
	}
	return Vec{File: col, Rank: 7 - row}
}

// SquareOrigin returns the pixel position of the top-left corner of sq.
func (g Geometry) SquareOrigin(sq Square) Point {
	return g.ToPixels(SquareVec(sq))
}

// SquareCenter returns the pixel centre of sq.
func (g Geometry) SquareCenter(sq Square) Point {
	o := g.SquareOrigin(sq)
	half := g.SquareSize() / 2
	return Point{X: o.X + half, Y: o.Y + half}
}

// PromotionSquares returns the squares the promotion affordance covers for a
// pawn promoting on to: a column of four starting at to and running towards
// the centre of the board, one per entry of PromotionTypes.
func PromotionSquares(to Square) [4]Square {
	var out [4]Square
	step := -1
	if to.Rank() < 4 {
		step = 1
	}
	for i := range out {
		out[i] = NewSquare(to.File(), to.Rank()+step*i)
	}
	return out
}

// PromotionChoiceAt returns the piece type whose affordance lies under pt
// while a promotion on to is pending, or false if pt hit the cover.
func (g Geometry) PromotionChoiceAt(pt Point, to Square) (PieceType, bool) {
	sq, ok := g.SquareAt(pt)
	if !ok {
		return NoPieceType, false
	}
	for i, s := range PromotionSquares(to) {
		if s == sq {
			return PromotionTypes[i], true
		}
	}
	return NoPieceType, false
}
