package board

import (
	"strconv"
	"strings"
)

// StartFEN is the FEN string for the starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// ParsePosition resolves a caller-supplied position spec into a full,
// six-field FEN. Accepted forms are "start", a full FEN, or a FEN with only
// the leading fields (at minimum the piece placement); missing fields take
// "w - - 0 1".
func ParsePosition(spec string) (string, error) {
	spec = strings.TrimSpace(spec)
	if spec == "start" {
		return StartFEN, nil
	}

	parts := strings.Fields(spec)
	if len(parts) == 0 || len(parts) > 6 {
		return "", invalidInput("position", spec)
	}

	if _, err := ParsePlacement(parts[0]); err != nil {
		return "", err
	}

	defaults := []string{"", "w", "-", "-", "0", "1"}
	for i := len(parts); i < 6; i++ {
		parts = append(parts, defaults[i])
	}

	if _, err := ParseColor(parts[1]); err != nil {
		return "", invalidInput("side to move", parts[1])
	}
	if _, err := parseCastlingRights(parts[2]); err != nil {
		return "", err
	}
	if parts[3] != "-" {
		if _, err := ParseSquare(parts[3]); err != nil {
			return "", invalidInput("en passant", parts[3])
		}
	}
	for _, n := range parts[4:] {
		if _, err := strconv.Atoi(n); err != nil {
			return "", invalidInput("move counter", n)
		}
	}

	return strings.Join(parts, " "), nil
}

// ParsePlacement parses the piece placement field of a FEN string.
func ParsePlacement(field string) (Placement, error) {
	pos := EmptyPlacement()

	// A full FEN is accepted too; only the first field matters here.
	if i := strings.IndexByte(field, ' '); i >= 0 {
		field = field[:i]
	}

	ranks := strings.Split(field, "/")
	if len(ranks) != 8 {
		return pos, invalidInput("placement", field)
	}

	for i, rankStr := range ranks {
		rank := 7 - i // FEN starts from rank 8
		file := 0

		for j := 0; j < len(rankStr); j++ {
			c := rankStr[j]
			if file > 7 {
				return pos, invalidInput("placement", field)
			}

			if c >= '1' && c <= '8' {
				file += int(c - '0')
				continue
			}

			piece := PieceFromChar(c)
			if piece == NoPiece {
				return pos, invalidInput("placement", field)
			}
			pos[NewSquare(file, rank)] = piece
			file++
		}

		if file != 8 {
			return pos, invalidInput("placement", field)
		}
	}

	return pos, nil
}

// FEN returns the piece placement field for p.
func (p *Placement) FEN() string {
	var sb strings.Builder

	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			piece := p[NewSquare(file, rank)]
			if piece == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteString(piece.String())
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}

	return sb.String()
}

// CastlingRights represents the available castling options.
type CastlingRights uint8

const (
	WhiteKingSideCastle  CastlingRights = 1 << iota // K
	WhiteQueenSideCastle                            // Q
	BlackKingSideCastle                             // k
	BlackQueenSideCastle                            // q
	NoCastling           CastlingRights = 0
)

// String returns the FEN castling rights string.
func (cr CastlingRights) String() string {
	if cr == NoCastling {
		return "-"
	}
	s := ""
	if cr&WhiteKingSideCastle != 0 {
		s += "K"
	}
	if cr&WhiteQueenSideCastle != 0 {
		s += "Q"
	}
	if cr&BlackKingSideCastle != 0 {
		s += "k"
	}
	if cr&BlackQueenSideCastle != 0 {
		s += "q"
	}
	return s
}

// parseCastlingRights parses the castling rights section of a FEN string.
func parseCastlingRights(castling string) (CastlingRights, error) {
	if castling == "-" {
		return NoCastling, nil
	}

	var cr CastlingRights
	for _, c := range castling {
		switch c {
		case 'K':
			cr |= WhiteKingSideCastle
		case 'Q':
			cr |= WhiteQueenSideCastle
		case 'k':
			cr |= BlackKingSideCastle
		case 'q':
			cr |= BlackQueenSideCastle
		default:
			return NoCastling, invalidInput("castling", castling)
		}
	}
	return cr, nil
}

// castlingHomes lists, per right, the king and rook squares it depends on.
var castlingHomes = []struct {
	right      CastlingRights
	king, rook Square
	kingPiece  Piece
	rookPiece  Piece
}{
	{WhiteKingSideCastle, E1, H1, WhiteKing, WhiteRook},
	{WhiteQueenSideCastle, E1, A1, WhiteKing, WhiteRook},
	{BlackKingSideCastle, E8, H8, BlackKing, BlackRook},
	{BlackQueenSideCastle, E8, A8, BlackKing, BlackRook},
}

// EditFEN replaces the placement of a full FEN with p, keeping side to move
// and counters. Castling rights whose king or rook left home are dropped and
// the en-passant target is cleared, so the result stays loadable.
func EditFEN(fen string, p Placement) (string, error) {
	full, err := ParsePosition(fen)
	if err != nil {
		return "", err
	}
	parts := strings.Fields(full)
	cr, _ := parseCastlingRights(parts[2])

	parts[0] = p.FEN()
	parts[2] = pruneCastling(cr, p).String()
	parts[3] = "-"
	return strings.Join(parts, " "), nil
}

// ConsistentFEN resolves spec like ParsePosition, then drops the castling
// rights and en-passant target the placement cannot support.
func ConsistentFEN(spec string) (string, error) {
	full, err := ParsePosition(spec)
	if err != nil {
		return "", err
	}
	parts := strings.Fields(full)
	p, _ := ParsePlacement(parts[0])
	cr, _ := parseCastlingRights(parts[2])

	parts[2] = pruneCastling(cr, p).String()
	if parts[3] != "-" {
		ep, _ := ParseSquare(parts[3])
		mover, _ := ParseColor(parts[1])
		if !enPassantPossible(ep, mover, p) {
			parts[3] = "-"
		}
	}
	return strings.Join(parts, " "), nil
}

func pruneCastling(cr CastlingRights, p Placement) CastlingRights {
	for _, h := range castlingHomes {
		if cr&h.right != 0 && (p[h.king] != h.kingPiece || p[h.rook] != h.rookPiece) {
			cr &^= h.right
		}
	}
	return cr
}

// enPassantPossible reports whether ep is the square an opposing pawn just
// skipped with a double push: empty, on the third rank from the pusher's
// side, with that pawn standing right past it.
func enPassantPossible(ep Square, mover Color, p Placement) bool {
	rank := 5
	if mover == Black {
		rank = 2
	}
	if !ep.IsValid() || ep.Rank() != rank || p[ep] != NoPiece {
		return false
	}
	return p[ep.Behind(mover)] == NewPiece(Pawn, mover.Other())
}

// SideToMove returns the side-to-move field of a full FEN.
func SideToMove(fen string) Color {
	parts := strings.Fields(fen)
	if len(parts) < 2 {
		return White
	}
	c, err := ParseColor(parts[1])
	if err != nil {
		return White
	}
	return c
}
