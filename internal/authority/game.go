package authority

import (
	"errors"
	"fmt"

	"github.com/hailam/chessboard/internal/board"
	"github.com/notnil/chess"
)

var errPromotionRequired = errors.New("promotion piece required")

// Game is an Authority backed by a notnil/chess game. It is not safe for
// concurrent use; a board confines it to one goroutine.
type Game struct {
	start   string
	game    *chess.Game
	history []MoveResult
}

// NewGame creates an authority at the starting position.
func NewGame() *Game {
	g, _ := FromFEN(board.StartFEN)
	return g
}

// FromFEN creates an authority at the given position.
func FromFEN(fen string) (*Game, error) {
	g := &Game{}
	if err := g.Load(fen); err != nil {
		return nil, err
	}
	return g, nil
}

// Load replaces the position and clears the history.
func (g *Game) Load(fen string) error {
	full, err := board.ParsePosition(fen)
	if err != nil {
		return err
	}
	game, err := newChessGame(full)
	if err != nil {
		return err
	}
	g.start = full
	g.game = game
	g.history = nil
	return nil
}

func newChessGame(fen string) (*chess.Game, error) {
	opt, err := chess.FEN(fen)
	if err != nil {
		return nil, &board.Error{Kind: board.KindInvalidInput, Field: "position", Value: fen, Err: err}
	}
	return chess.NewGame(opt), nil
}

// Get returns the piece on sq, or board.NoPiece.
func (g *Game) Get(sq board.Square) board.Piece {
	if !sq.IsValid() {
		return board.NoPiece
	}
	return fromChessPiece(g.game.Position().Board().Piece(chess.Square(sq)))
}

// Placement returns the piece kinds of the current position.
func (g *Game) Placement() board.Placement {
	p := board.EmptyPlacement()
	b := g.game.Position().Board()
	for sq := board.A1; sq <= board.H8; sq++ {
		p[sq] = fromChessPiece(b.Piece(chess.Square(sq)))
	}
	return p
}

// Moves returns the legal moves from sq, or all legal moves for NoSquare.
func (g *Game) Moves(sq board.Square) []board.MoveInfo {
	var out []board.MoveInfo
	for _, m := range g.game.ValidMoves() {
		from := board.Square(m.S1())
		if sq != board.NoSquare && from != sq {
			continue
		}
		out = append(out, g.describe(m))
	}
	return out
}

func (g *Game) describe(m *chess.Move) board.MoveInfo {
	from, to := board.Square(m.S1()), board.Square(m.S2())
	return board.MoveInfo{
		Move:      board.NewPromotion(from, to, fromChessType(m.Promo())),
		Piece:     g.Get(from),
		Capture:   m.HasTag(chess.Capture) || m.HasTag(chess.EnPassant),
		EnPassant: m.HasTag(chess.EnPassant),
		Castle:    m.HasTag(chess.KingSideCastle) || m.HasTag(chess.QueenSideCastle),
	}
}

// find returns the valid move matching m.
func (g *Game) find(m board.Move) (*chess.Move, error) {
	needsPromo := false
	for _, cm := range g.game.ValidMoves() {
		if board.Square(cm.S1()) != m.From || board.Square(cm.S2()) != m.To {
			continue
		}
		if fromChessType(cm.Promo()) == m.Promotion {
			return cm, nil
		}
		if m.Promotion == board.NoPieceType {
			needsPromo = true
		}
	}
	if needsPromo {
		return nil, board.IllegalMove(m, errPromotionRequired)
	}
	return nil, board.IllegalMove(m, nil)
}

// Move applies m if it is legal.
func (g *Game) Move(m board.Move) (MoveResult, error) {
	if !m.IsValid() {
		return MoveResult{}, &board.Error{Kind: board.KindInvalidInput, Move: m.String()}
	}

	cm, err := g.find(m)
	if err != nil {
		return MoveResult{}, err
	}

	info := g.describe(cm)
	res := MoveResult{
		Move:       m,
		Piece:      info.Piece,
		Captured:   board.NoPiece,
		CapturedOn: board.NoSquare,
		EnPassant:  info.EnPassant,
		Castle:     info.Castle,
		SAN:        chess.AlgebraicNotation{}.Encode(g.game.Position(), cm),
		Before:     g.game.FEN(),
	}
	if info.EnPassant {
		res.CapturedOn = m.To.Behind(info.Piece.Color())
		res.Captured = board.NewPiece(board.Pawn, info.Piece.Color().Other())
	} else if captured := g.Get(m.To); captured != board.NoPiece {
		res.CapturedOn = m.To
		res.Captured = captured
	}

	if err := g.game.Move(cm); err != nil {
		return MoveResult{}, board.IllegalMove(m, err)
	}
	res.After = g.game.FEN()
	g.history = append(g.history, res)
	return res, nil
}

// Undo takes back the last move by replaying the rest of the history.
func (g *Game) Undo() (MoveResult, bool) {
	if len(g.history) == 0 {
		return MoveResult{}, false
	}
	last := g.history[len(g.history)-1]

	game, err := newChessGame(g.start)
	if err != nil {
		return MoveResult{}, false
	}
	replay := &Game{start: g.start, game: game}
	for _, r := range g.history[:len(g.history)-1] {
		if _, err := replay.Move(r.Move); err != nil {
			// History was produced by this authority; failing here is a bug.
			panic(fmt.Sprintf("authority: replay of %v failed: %v", r.Move, err))
		}
	}

	*g = *replay
	return last, true
}

// Turn returns the side to move.
func (g *Game) Turn() board.Color {
	return fromChessColor(g.game.Position().Turn())
}

// FEN returns the full FEN of the current position.
func (g *Game) FEN() string {
	return g.game.FEN()
}

// IsGameOver reports whether the game has a result.
func (g *Game) IsGameOver() bool {
	return g.game.Outcome() != chess.NoOutcome
}

// Outcome returns the game result in PGN form.
func (g *Game) Outcome() string {
	return string(g.game.Outcome())
}

// History returns the moves applied since the last Load.
func (g *Game) History() []MoveResult {
	out := make([]MoveResult, len(g.history))
	copy(out, g.history)
	return out
}

func fromChessColor(c chess.Color) board.Color {
	switch c {
	case chess.White:
		return board.White
	case chess.Black:
		return board.Black
	}
	return board.NoColor
}

func fromChessType(pt chess.PieceType) board.PieceType {
	switch pt {
	case chess.Pawn:
		return board.Pawn
	case chess.Knight:
		return board.Knight
	case chess.Bishop:
		return board.Bishop
	case chess.Rook:
		return board.Rook
	case chess.Queen:
		return board.Queen
	case chess.King:
		return board.King
	}
	return board.NoPieceType
}

func fromChessPiece(p chess.Piece) board.Piece {
	if p == chess.NoPiece {
		return board.NoPiece
	}
	return board.NewPiece(fromChessType(p.Type()), fromChessColor(p.Color()))
}
