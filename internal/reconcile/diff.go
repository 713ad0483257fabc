package reconcile

import "github.com/hailam/chessboard/internal/board"

// LastMove is what the board knows about the move that produced the target
// placement. Diff works without it; with it, en passant and promotion are
// attributed to the squares the move actually used.
type LastMove struct {
	Move       board.Move
	Piece      board.Piece
	EnPassant  bool
	CapturedOn board.Square
}

// pass holds the bookkeeping of one Diff call.
type pass struct {
	current board.Visual
	target  board.Placement

	sources []board.Square // squares losing their piece, in square order
	dests   []board.Square // squares gaining a piece, in square order

	used     [64]bool         // source already consumed
	reserved [64]bool         // source that may not translate (en passant victim)
	from     [64]board.Square // dest -> matched source
	promoted [64]bool
}

func (p *pass) kind(sq board.Square) board.Piece {
	o := p.current[sq]
	if o.Empty() {
		return board.NoPiece
	}
	return o.Piece
}

// Diff returns the operations that carry current to target, in the order
// removes, translations (each followed by its promotion), inserts. The
// result depends only on its inputs; Diff of a placement against its own
// kinds is empty.
func Diff(current board.Visual, target board.Placement, last *LastMove) []Operation {
	p := &pass{current: current, target: target}
	for i := range p.from {
		p.from[i] = board.NoSquare
	}

	for sq := board.A1; sq <= board.H8; sq++ {
		cur, tgt := p.kind(sq), target[sq]
		if cur == tgt {
			continue
		}
		if cur != board.NoPiece {
			p.sources = append(p.sources, sq)
		}
		if tgt != board.NoPiece {
			p.dests = append(p.dests, sq)
		}
	}
	if len(p.sources) == 0 && len(p.dests) == 0 {
		return nil
	}

	p.reserveEnPassant(last)
	p.matchTranslations()
	p.matchPromotions(last)

	return p.emit()
}

// reserveEnPassant keeps the pawn taken en passant out of translation
// matching: it was captured, not moved.
func (p *pass) reserveEnPassant(last *LastMove) {
	if last == nil || !last.EnPassant {
		return
	}
	capSq := last.CapturedOn
	if !capSq.IsValid() {
		capSq = last.Move.To.Behind(last.Piece.Color())
	}
	if !capSq.IsValid() || p.kind(capSq).Type() != board.Pawn || p.target[capSq] != board.NoPiece {
		return
	}
	p.reserved[capSq] = true
}

// matchTranslations pairs each gaining square with the first available
// losing square of the same kind, both in square-iteration order.
func (p *pass) matchTranslations() {
	for _, d := range p.dests {
		want := p.target[d]
		for _, s := range p.sources {
			if p.used[s] || p.reserved[s] || s == d {
				continue
			}
			if p.kind(s) == want {
				p.used[s] = true
				p.from[d] = s
				break
			}
		}
	}
}

// matchPromotions pairs a promotion-rank square gaining an unmatched
// non-pawn kind with the pawn that must have promoted there.
func (p *pass) matchPromotions(last *LastMove) {
	for _, d := range p.dests {
		if p.from[d] != board.NoSquare {
			continue
		}
		newKind := p.target[d]
		c := newKind.Color()
		if newKind.Type() == board.Pawn || newKind.Type() == board.King || d.Rank() != board.PromotionRank(c) {
			continue
		}
		pawn := board.NewPiece(board.Pawn, c)

		src := board.NoSquare
		if last != nil && last.Move.To == d && last.Move.IsPromotion() {
			if s := last.Move.From; s.IsValid() && p.available(s) && p.kind(s) == pawn {
				src = s
			}
		}
		if src == board.NoSquare {
			src = p.nearestPawn(d, pawn)
		}
		if src == board.NoSquare {
			continue
		}

		p.used[src] = true
		p.from[d] = src
		p.promoted[d] = true
	}
}

func (p *pass) available(s board.Square) bool {
	return !p.used[s] && !p.reserved[s] && p.target[s] != p.kind(s)
}

// nearestPawn finds an unused pawn one step short of d that could have
// reached it by a push or a capture, preferring the same file.
func (p *pass) nearestPawn(d board.Square, pawn board.Piece) board.Square {
	best, bestDist := board.NoSquare, 2
	for _, s := range p.sources {
		if !p.available(s) || p.kind(s) != pawn {
			continue
		}
		if s.Rank() != d.Behind(pawn.Color()).Rank() {
			continue
		}
		dist := s.File() - d.File()
		if dist < 0 {
			dist = -dist
		}
		if dist < bestDist {
			best, bestDist = s, dist
		}
	}
	return best
}

func (p *pass) emit() []Operation {
	var removes, moves, inserts []Operation

	for _, s := range p.sources {
		if p.used[s] {
			continue
		}
		o := p.current[s]
		capture := p.reserved[s] || (p.target[s] != board.NoPiece && p.target[s].Color() != o.Piece.Color())
		removes = append(removes, Remove(s, o.ID, o.Piece, capture))
	}

	for _, d := range p.dests {
		s := p.from[d]
		if s == board.NoSquare {
			inserts = append(inserts, Insert(d, p.target[d]))
			continue
		}
		o := p.current[s]
		moves = append(moves, Translate(o.ID, o.Piece, s, d))
		if p.promoted[d] {
			moves = append(moves, Promote(d, o.ID, o.Piece, p.target[d]))
		}
	}

	ops := make([]Operation, 0, len(removes)+len(moves)+len(inserts))
	ops = append(ops, removes...)
	ops = append(ops, moves...)
	return append(ops, inserts...)
}
