package reconcile

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/hailam/chessboard/internal/board"
)

func placement(t *testing.T, fen string) board.Placement {
	t.Helper()
	p, err := board.ParsePlacement(fen)
	if err != nil {
		t.Fatalf("ParsePlacement(%q): %v", fen, err)
	}
	return p
}

// visual renders fen with identities 1, 2, 3... in square order.
func visual(t *testing.T, fen string) board.Visual {
	t.Helper()
	p := placement(t, fen)
	v := board.EmptyVisual()
	var next board.PieceID
	for sq := board.A1; sq <= board.H8; sq++ {
		if p[sq] != board.NoPiece {
			next++
			v[sq] = board.Occupant{ID: next, Piece: p[sq]}
		}
	}
	return v
}

// apply runs ops against v, numbering inserted pieces from 1000.
func apply(v board.Visual, ops []Operation) board.Visual {
	next := board.PieceID(1000)
	for _, op := range ops {
		if op.Op == OpInsert {
			op.ID = next
			next++
		}
		ApplyTo(&v, op)
	}
	return v
}

func TestDiffIdentical(t *testing.T) {
	for _, fen := range []string{
		board.StartFEN,
		"8/8/8/8/8/8/8/8",
		"4k3/8/8/3pP3/8/8/8/4K3",
	} {
		v := visual(t, fen)
		if ops := Diff(v, v.Kinds(), nil); len(ops) != 0 {
			t.Errorf("Diff(%q, itself) = %v, want no operations", fen, ops)
		}
	}
}

func TestDiffPawnPush(t *testing.T) {
	v := visual(t, board.StartFEN)
	e2 := v[board.E2].ID

	got := Diff(v, placement(t, "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR"), nil)
	want := []Operation{Translate(e2, board.WhitePawn, board.E2, board.E4)}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Diff mismatch (-want +got):\n%s", diff)
	}
}

func TestDiffCapture(t *testing.T) {
	// e1=#1 d4=#2 e5=#3 e8=#4
	v := visual(t, "4k3/8/8/4p3/3P4/8/8/4K3")

	got := Diff(v, placement(t, "4k3/8/8/4P3/8/8/8/4K3"), nil)
	want := []Operation{
		Remove(board.E5, 3, board.BlackPawn, true),
		Translate(2, board.WhitePawn, board.D4, board.E5),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Diff mismatch (-want +got):\n%s", diff)
	}
}

func TestDiffEnPassant(t *testing.T) {
	// e1=#1 d5=#2 e5=#3 e8=#4
	v := visual(t, "4k3/8/8/3pP3/8/8/8/4K3")
	target := placement(t, "4k3/8/3P4/8/8/8/8/4K3")

	last := &LastMove{
		Move:       board.NewMove(board.E5, board.D6),
		Piece:      board.WhitePawn,
		EnPassant:  true,
		CapturedOn: board.NoSquare,
	}
	got := Diff(v, target, last)
	want := []Operation{
		Remove(board.D5, 2, board.BlackPawn, true),
		Translate(3, board.WhitePawn, board.E5, board.D6),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Diff with metadata mismatch (-want +got):\n%s", diff)
	}

	// Without metadata the pawn still disappears, just not as a capture.
	got = Diff(v, target, nil)
	want[0].Capture = false
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Diff without metadata mismatch (-want +got):\n%s", diff)
	}
}

func TestDiffCastling(t *testing.T) {
	// e1=#1 h1=#2 e8=#3
	v := visual(t, "4k3/8/8/8/8/8/8/4K2R")

	got := Diff(v, placement(t, "4k3/8/8/8/8/8/8/5RK1"), nil)
	want := []Operation{
		Translate(2, board.WhiteRook, board.H1, board.F1),
		Translate(1, board.WhiteKing, board.E1, board.G1),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Diff mismatch (-want +got):\n%s", diff)
	}
}

func TestDiffPromotion(t *testing.T) {
	// e1=#1 a2=#2 e7=#3
	v := visual(t, "8/4P3/8/8/8/8/k7/4K3")

	got := Diff(v, placement(t, "4Q3/8/8/8/8/8/k7/4K3"), nil)
	want := []Operation{
		Translate(3, board.WhitePawn, board.E7, board.E8),
		Promote(board.E8, 3, board.WhitePawn, board.WhiteQueen),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Diff mismatch (-want +got):\n%s", diff)
	}
}

func TestDiffPromotionCapture(t *testing.T) {
	// e1=#1 a2=#2 c7=#3 e7=#4 d8=#5
	v := visual(t, "3r4/2P1P3/8/8/8/8/k7/4K3")
	target := placement(t, "3N4/2P5/8/8/8/8/k7/4K3")

	last := &LastMove{
		Move:       board.NewPromotion(board.E7, board.D8, board.Knight),
		Piece:      board.WhitePawn,
		CapturedOn: board.D8,
	}
	got := Diff(v, target, last)
	want := []Operation{
		Remove(board.D8, 5, board.BlackRook, true),
		Translate(4, board.WhitePawn, board.E7, board.D8),
		Promote(board.D8, 4, board.WhitePawn, board.WhiteKnight),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Diff mismatch (-want +got):\n%s", diff)
	}
}

func TestDiffPromotionWithoutMetadata(t *testing.T) {
	// Both c7 and e7 could have captured on d8; square order decides.
	v := visual(t, "3r4/2P1P3/8/8/8/8/k7/4K3")
	target := placement(t, "3N4/8/8/8/8/8/k7/4K3")

	got := Diff(v, target, nil)
	want := []Operation{
		Remove(board.E7, 4, board.WhitePawn, false),
		Remove(board.D8, 5, board.BlackRook, true),
		Translate(3, board.WhitePawn, board.C7, board.D8),
		Promote(board.D8, 3, board.WhitePawn, board.WhiteKnight),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Diff mismatch (-want +got):\n%s", diff)
	}
}

func TestDiffFromEmpty(t *testing.T) {
	target := placement(t, board.StartFEN)
	ops := Diff(board.EmptyVisual(), target, nil)

	if len(ops) != 32 {
		t.Fatalf("got %d operations, want 32", len(ops))
	}
	prev := board.NoSquare
	for _, op := range ops {
		if op.Op != OpInsert {
			t.Fatalf("unexpected %v", op)
		}
		if prev != board.NoSquare && op.To <= prev {
			t.Errorf("inserts out of square order: %v after %v", op.To, prev)
		}
		prev = op.To
	}
}

func TestDiffConservesPlacement(t *testing.T) {
	tests := []struct {
		name     string
		from, to string
	}{
		{"opening", board.StartFEN, "rnbqkb1r/pppp1ppp/5n2/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R"},
		{"clear", board.StartFEN, "8/8/8/8/8/8/8/8"},
		{"unrelated", "4k3/8/8/8/8/8/8/4K3", "r3k2r/8/8/8/8/8/8/R3K2R"},
		{"swap", "8/8/8/8/8/8/8/RN6", "8/8/8/8/8/8/8/NR6"},
		{"promotion and capture", "3r4/2P1P3/8/8/8/8/k7/4K3", "3Q4/4P3/8/8/8/8/k7/4K3"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v := visual(t, tc.from)
			target := placement(t, tc.to)

			ops := Diff(v, target, nil)
			after := apply(v, ops)
			if diff := cmp.Diff(target, after.Kinds()); diff != "" {
				t.Errorf("placement after apply mismatch (-want +got):\n%s", diff)
			}
			if again := Diff(after, target, nil); len(again) != 0 {
				t.Errorf("second Diff = %v, want none", again)
			}
		})
	}
}

func TestDiffKeepsIdentity(t *testing.T) {
	v := visual(t, board.StartFEN)
	knight := v[board.G1].ID

	after := apply(v, Diff(v, placement(t, "rnbqkbnr/pppppppp/8/8/8/5N2/PPPPPPPP/RNBQKB1R"), nil))
	if after[board.F3].ID != knight {
		t.Errorf("f3 holds %v, want the g1 knight %v", after[board.F3].ID, knight)
	}
	if after[board.B1].ID != v[board.B1].ID {
		t.Error("untouched knight changed identity")
	}
}
