package board

import "strings"

// Move is a request to move the piece on From to To. Promotion is
// NoPieceType unless a pawn reaches the far rank.
type Move struct {
	From      Square
	To        Square
	Promotion PieceType
}

// NoMove represents an invalid or null move.
var NoMove = Move{From: NoSquare, To: NoSquare, Promotion: NoPieceType}

// NewMove creates a normal move.
func NewMove(from, to Square) Move {
	return Move{From: from, To: to, Promotion: NoPieceType}
}

// NewPromotion creates a promotion move.
func NewPromotion(from, to Square, promo PieceType) Move {
	return Move{From: from, To: to, Promotion: promo}
}

// IsPromotion returns true if the move carries a promotion kind.
func (m Move) IsPromotion() bool {
	return m.Promotion != NoPieceType
}

// IsValid reports whether the move names two distinct board squares and,
// if set, a promotion kind a pawn may take.
func (m Move) IsValid() bool {
	if !m.From.IsValid() || !m.To.IsValid() || m.From == m.To {
		return false
	}
	switch m.Promotion {
	case NoPieceType, Knight, Bishop, Rook, Queen:
		return true
	}
	return false
}

// String returns the UCI format of the move (e.g., "e2e4", "e7e8q").
func (m Move) String() string {
	if !m.From.IsValid() || !m.To.IsValid() {
		return "0000"
	}
	s := m.From.String() + m.To.String()
	if m.IsPromotion() {
		s += string(m.Promotion.Char())
	}
	return s
}

// ParseMove resolves the string forms a caller may hand the board:
// "e2e4", "e2-e4", "e7e8q", "e7-e8=Q". Anything else is InvalidInput.
func ParseMove(s string) (Move, error) {
	raw := s
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "-", "")
	s = strings.ReplaceAll(s, "=", "")

	if len(s) != 4 && len(s) != 5 {
		return NoMove, invalidInput("move", raw)
	}

	from, err := ParseSquare(s[0:2])
	if err != nil {
		return NoMove, invalidInput("move", raw)
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NoMove, invalidInput("move", raw)
	}

	m := NewMove(from, to)
	if len(s) == 5 {
		pt, err := ParsePieceType(s[4])
		if err != nil || pt == Pawn || pt == King {
			return NoMove, invalidInput("promotion", raw)
		}
		m.Promotion = pt
	}
	if !m.IsValid() {
		return NoMove, invalidInput("move", raw)
	}
	return m, nil
}

// MoveInfo describes a legal move as reported by a position authority.
type MoveInfo struct {
	Move
	Piece     Piece
	Capture   bool
	EnPassant bool
	Castle    bool
}

// NeedsPromotion reports whether the described move is a pawn reaching the
// far rank.
func (mi MoveInfo) NeedsPromotion() bool {
	return mi.Piece.Type() == Pawn && mi.To.Rank() == PromotionRank(mi.Piece.Color())
}
