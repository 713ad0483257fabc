package chessboard

import (
	"fmt"

	"github.com/hailam/chessboard/internal/board"
)

// Snapshot is enough to rebuild a board: the position its history starts
// from and the moves played since, in UCI form.
type Snapshot struct {
	Start string
	Moves []string
	FEN   string
}

// Snapshot captures the board's position and history.
func (b *Board) Snapshot() Snapshot {
	fen := b.FEN()
	s := Snapshot{Start: fen, FEN: fen}
	for i, r := range b.History() {
		if i == 0 {
			s.Start = r.Before
		}
		s.Moves = append(s.Moves, r.Move.String())
	}
	return s
}

// Restore loads s without animation. The moves are replayed so that they
// can be taken back. On error the board shows the position reached so far.
func (b *Board) Restore(s Snapshot) error {
	start, err := board.ParsePosition(s.Start)
	if err != nil {
		return fmt.Errorf("restore: %w", err)
	}
	b.machine.Cancel()
	if err := b.load(start); err != nil {
		return fmt.Errorf("restore: %w", err)
	}
	defer func() {
		b.schedule(Options{Instant: true})
		b.flush()
	}()

	for _, spec := range s.Moves {
		m, err := board.ParseMove(spec)
		if err != nil {
			return fmt.Errorf("restore: %w", err)
		}
		if !b.playing() {
			return fmt.Errorf("restore: %w", board.IllegalMove(m, errNoAuthority))
		}
		if _, err := b.auth.Move(m); err != nil {
			return fmt.Errorf("restore: %w", err)
		}
	}
	b.cache.Invalidate(b.FEN())
	return nil
}
