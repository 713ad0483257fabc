// Package authority defines the position authority the board defers to for
// every question of chess legality, and an implementation backed by
// github.com/notnil/chess.
package authority

import "github.com/hailam/chessboard/internal/board"

// Authority owns the logical chess state.
type Authority interface {
	// Get returns the piece on sq, or board.NoPiece.
	Get(sq board.Square) board.Piece
	// Placement returns the piece kinds of the current position.
	Placement() board.Placement
	// Moves returns the legal moves from sq, or every legal move when sq is
	// board.NoSquare.
	Moves(sq board.Square) []board.MoveInfo
	// Move applies m if it is legal.
	Move(m board.Move) (MoveResult, error)
	// Undo takes back the last move.
	Undo() (MoveResult, bool)
	Turn() board.Color
	// FEN returns the full six-field FEN, the position fingerprint.
	FEN() string
	// Load replaces the position and clears the history.
	Load(fen string) error
	IsGameOver() bool
	// Outcome returns the result string ("1-0", "0-1", "1/2-1/2", "*").
	Outcome() string
	History() []MoveResult
}

// MoveResult describes a move the authority has applied.
// CapturedOn differs from Move.To only for en passant.
type MoveResult struct {
	Move       board.Move
	Piece      board.Piece
	Captured   board.Piece
	CapturedOn board.Square
	EnPassant  bool
	Castle     bool
	SAN        string
	Before     string
	After      string
}

// IsCapture reports whether the move took a piece.
func (r MoveResult) IsCapture() bool {
	return r.Captured != board.NoPiece
}
