package chessboard

import (
	"github.com/hailam/chessboard/internal/board"
	"github.com/hailam/chessboard/internal/surface"
)

// host is the face a Board shows its interaction machine.
type host struct {
	b *Board
}

func (h host) Geometry() board.Geometry { return h.b.geo }
func (h host) Busy() bool { return h.b.Busy() }
func (h host) Piece(sq board.Square) board.Piece { return h.b.Piece(sq) }

func (h host) Movable(sq board.Square) bool {
	b := h.b
	p := b.Piece(sq)
	if p == board.NoPiece || !b.cfg.CanMove(p.Color()) {
		return false
	}
	return !b.playing() || p.Color() == b.auth.Turn()
}

func (h host) LegalTargets(sq board.Square) board.SquareSet {
	b := h.b
	if !b.playing() {
		return 0
	}
	return b.cache.LegalTargets(sq, b.auth.FEN(), b.targets)
}

// targets lists the destinations of the piece on sq. A king that may
// castle can also be dropped on the rook it castles with.
func (b *Board) targets(sq board.Square) board.SquareSet {
	var set board.SquareSet
	for _, mi := range b.auth.Moves(sq) {
		set = set.Add(mi.To)
		if !mi.Castle {
			continue
		}
		rook := castleRook(mi.Move)
		if b.auth.Get(rook) == board.NewPiece(board.Rook, mi.Piece.Color()) {
			set = set.Add(rook)
		}
	}
	return set
}

func (h host) NeedsPromotion(from, to board.Square) bool {
	if !h.b.playing() {
		return false
	}
	for _, mi := range h.b.auth.Moves(from) {
		if mi.To == to && mi.NeedsPromotion() {
			return true
		}
	}
	return false
}

func (h host) Commit(m board.Move, dragged bool) bool {
	b := h.b
	if _, err := b.play(m, dragged, Options{}); err != nil {
		b.log.Debug().Err(err).Stringer("move", m).Msg("commit refused")
		return false
	}
	b.redo = nil
	return true
}

func (h host) node(sq board.Square) (surface.Node, bool) {
	occ := h.b.coord.Visual()[sq]
	if occ.Empty() {
		return nil, false
	}
	return h.b.surface.Node(occ.ID)
}

func (h host) DragStart(sq board.Square) bool {
	b := h.b
	p := b.Piece(sq)
	if b.cb.OnDragStart != nil && !b.cb.OnDragStart(sq, p) {
		return false
	}
	n, ok := h.node(sq)
	if !ok {
		b.log.Warn().Stringer("square", sq).Msg("no node to drag")
		return false
	}
	return n.Lift() == nil
}

func (h host) DragMove(from board.Square, pt board.Point) {
	b := h.b
	if n, ok := h.node(from); ok {
		n.Follow(b.geo.ToBoard(pt))
	}
	if b.cb.OnDragMove != nil {
		over, _ := b.geo.SquareAt(pt)
		b.cb.OnDragMove(from, over, pt)
	}
}

func (h host) Drop(from, to board.Square) {
	if h.b.cb.OnDrop != nil {
		h.b.cb.OnDrop(from, to)
	}
}

func (h host) Snapback(from board.Square) {
	b := h.b
	occ := b.coord.Visual()[from]
	if occ.Empty() {
		return
	}
	d := b.cfg.SnapbackDuration
	if !b.cfg.Animate {
		d = 0
	}
	b.coord.Snapback(occ.ID, from, d).Then(func() {
		if b.cb.OnSnapbackEnd != nil {
			b.cb.OnSnapbackEnd(from, occ.Piece)
		}
	})
}

// Trash removes the piece on from. The position stays loadable: castling
// rights that depended on it are dropped. Kings stay while an authority is
// attached.
func (h host) Trash(from board.Square) bool {
	b := h.b
	p := b.Piece(from)
	if p == board.NoPiece || (b.auth != nil && p.Type() == board.King) {
		return false
	}
	b.flush()

	target := b.Placement()
	target[from] = board.NoPiece
	fen, err := board.EditFEN(b.FEN(), target)
	if err == nil {
		err = b.load(fen)
	}
	if err != nil {
		b.log.Warn().Err(err).Stringer("square", from).Msg("trash refused")
		return false
	}
	b.log.Debug().Stringer("square", from).Stringer("piece", p).Msg("piece trashed")
	b.render(Options{})
	b.changed()
	return true
}

func (h host) Select(sq board.Square) { h.b.surface.Select(sq) }
func (h host) Deselect(sq board.Square) { h.b.surface.Deselect(sq) }
func (h host) ShowHints(targets board.SquareSet) { h.b.surface.ShowHints(targets) }
func (h host) ClearHints() { h.b.surface.ClearHints() }
func (h host) ShowPromotion(to board.Square, c board.Color) { h.b.surface.ShowPromotion(to, c) }
func (h host) HidePromotion() { h.b.surface.HidePromotion() }
