package interaction

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/hailam/chessboard/internal/authority"
	"github.com/hailam/chessboard/internal/board"
	"github.com/rs/zerolog"
)

// fakeHost is a board backed by a real authority that records what the
// machine asks of it.
type fakeHost struct {
	game  *authority.Game
	geo   board.Geometry
	busy  bool
	veto  bool
	trash bool
	fail  bool

	calls []string
}

func newHost(t *testing.T, fen string) *fakeHost {
	t.Helper()
	g, err := authority.FromFEN(fen)
	if err != nil {
		t.Fatal(err)
	}
	return &fakeHost{game: g, geo: board.Geometry{Size: 800}}
}

func (h *fakeHost) record(format string, args ...any) {
	h.calls = append(h.calls, fmt.Sprintf(format, args...))
}

func (h *fakeHost) has(call string) bool {
	for _, c := range h.calls {
		if c == call {
			return true
		}
	}
	return false
}

func (h *fakeHost) Geometry() board.Geometry { return h.geo }
func (h *fakeHost) Busy() bool { return h.busy }
func (h *fakeHost) Piece(sq board.Square) board.Piece { return h.game.Get(sq) }

func (h *fakeHost) Movable(sq board.Square) bool {
	p := h.game.Get(sq)
	return p != board.NoPiece && p.Color() == h.game.Turn()
}

func (h *fakeHost) LegalTargets(sq board.Square) board.SquareSet {
	var set board.SquareSet
	for _, mi := range h.game.Moves(sq) {
		set = set.Add(mi.To)
	}
	return set
}

func (h *fakeHost) NeedsPromotion(from, to board.Square) bool {
	for _, mi := range h.game.Moves(from) {
		if mi.To == to && mi.NeedsPromotion() {
			return true
		}
	}
	return false
}

func (h *fakeHost) Commit(m board.Move, dragged bool) bool {
	h.record("commit %v dragged=%v", m, dragged)
	if h.fail {
		return false
	}
	_, err := h.game.Move(m)
	return err == nil
}

func (h *fakeHost) DragStart(sq board.Square) bool {
	h.record("dragStart %v", sq)
	return !h.veto
}

func (h *fakeHost) DragMove(from board.Square, pt board.Point) {}

func (h *fakeHost) Drop(from, to board.Square) { h.record("drop %v %v", from, to) }
func (h *fakeHost) Snapback(from board.Square) { h.record("snapback %v", from) }

func (h *fakeHost) Trash(from board.Square) bool {
	h.record("trash %v", from)
	return h.trash
}

func (h *fakeHost) Select(sq board.Square) { h.record("select %v", sq) }
func (h *fakeHost) Deselect(sq board.Square) { h.record("deselect %v", sq) }
func (h *fakeHost) ShowHints(targets board.SquareSet) { h.record("hints %v", targets) }
func (h *fakeHost) ClearHints() { h.record("clearHints") }
func (h *fakeHost) HidePromotion() { h.record("hidePromotion") }

func (h *fakeHost) ShowPromotion(to board.Square, c board.Color) {
	h.record("showPromotion %v %v", to, c)
}

var testConfig = Config{DragThreshold: 5, Draggable: true, ShowHints: true}

func newMachine(h *fakeHost, cfg Config) *Machine {
	return New(h, cfg, zerolog.Nop())
}

func center(h *fakeHost, sq board.Square) board.Point {
	return h.geo.SquareCenter(sq)
}

func commits(h *fakeHost) []string {
	var out []string
	for _, c := range h.calls {
		if strings.HasPrefix(c, "commit") {
			out = append(out, c)
		}
	}
	return out
}

func TestClickSelectThenCommit(t *testing.T) {
	h := newHost(t, board.StartFEN)
	m := newMachine(h, testConfig)

	m.Click(board.E2)
	if m.State() != Selected || m.Selected() != board.E2 {
		t.Fatalf("after click e2: state=%v selected=%v", m.State(), m.Selected())
	}
	m.Click(board.E4)

	want := []string{
		"select e2",
		"hints {e3 e4}",
		"deselect e2",
		"clearHints",
		"commit e2e4 dragged=false",
	}
	if diff := cmp.Diff(want, h.calls); diff != "" {
		t.Errorf("calls (-want +got):\n%s", diff)
	}
	if m.State() != Idle || m.Session() != nil {
		t.Errorf("state=%v session=%+v after commit", m.State(), m.Session())
	}
	if h.game.Get(board.E4) != board.WhitePawn {
		t.Error("move not played")
	}
}

func TestClickSelectedSquareDeselects(t *testing.T) {
	h := newHost(t, board.StartFEN)
	m := newMachine(h, testConfig)

	m.Click(board.G1)
	m.Click(board.G1)
	if m.State() != Idle || m.Session() != nil {
		t.Errorf("state=%v, want idle without session", m.State())
	}
	if len(commits(h)) != 0 {
		t.Error("deselect committed a move")
	}
}

func TestIllegalDestination(t *testing.T) {
	h := newHost(t, board.StartFEN)
	m := newMachine(h, testConfig)

	m.Click(board.E2)
	m.Click(board.E5)
	if m.State() != Idle {
		t.Errorf("state=%v after illegal destination", m.State())
	}

	// A destination holding a movable piece selects it instead.
	m.Click(board.E2)
	m.Click(board.G1)
	if m.State() != Selected || m.Selected() != board.G1 {
		t.Errorf("state=%v selected=%v, want g1 selected", m.State(), m.Selected())
	}
	if len(commits(h)) != 0 {
		t.Errorf("illegal destinations reached the authority: %v", commits(h))
	}
}

func TestNonMovablePieceIgnored(t *testing.T) {
	h := newHost(t, board.StartFEN)
	m := newMachine(h, testConfig)

	m.Click(board.E7)
	if m.State() != Idle || len(h.calls) != 0 {
		t.Errorf("black piece selectable on white's turn: %v", h.calls)
	}
}

func TestPromotionByClick(t *testing.T) {
	h := newHost(t, "4k3/P7/8/8/8/8/8/4K3 w - - 0 1")
	m := newMachine(h, testConfig)

	m.Click(board.A7)
	m.Click(board.A8)
	if m.State() != PromotionPending {
		t.Fatalf("state=%v, want promotionPending", m.State())
	}
	if !h.has("showPromotion a8 white") {
		t.Errorf("affordance not shown: %v", h.calls)
	}

	// The affordance runs a8 queen, a7 knight, a6 rook, a5 bishop.
	m.Click(board.A7)
	if diff := cmp.Diff([]string{"commit a7a8n dragged=false"}, commits(h)); diff != "" {
		t.Errorf("commits (-want +got):\n%s", diff)
	}
	if h.game.Get(board.A8) != board.WhiteKnight {
		t.Errorf("a8 = %v", h.game.Get(board.A8))
	}
}

func TestPromotionByPointer(t *testing.T) {
	h := newHost(t, "4k3/P7/8/8/8/8/8/4K3 w - - 0 1")
	m := newMachine(h, testConfig)

	m.Click(board.A7)
	m.Click(board.A8)
	m.PointerDown(center(h, board.A6))

	if diff := cmp.Diff([]string{"commit a7a8r dragged=false"}, commits(h)); diff != "" {
		t.Errorf("commits (-want +got):\n%s", diff)
	}
}

func TestPromotionCancelledByCover(t *testing.T) {
	h := newHost(t, "4k3/P7/8/8/8/8/8/4K3 w - - 0 1")
	m := newMachine(h, testConfig)

	m.Click(board.A7)
	m.Click(board.A8)
	m.PointerDown(center(h, board.H1))

	if m.State() != Idle || len(commits(h)) != 0 {
		t.Errorf("state=%v commits=%v", m.State(), commits(h))
	}
	if !h.has("hidePromotion") {
		t.Error("affordance left open")
	}
}

func TestDragCommit(t *testing.T) {
	h := newHost(t, board.StartFEN)
	m := newMachine(h, testConfig)

	start := center(h, board.E2)
	m.PointerDown(start)
	m.PointerMove(board.Point{X: start.X + 2, Y: start.Y})
	if m.State() != Pressed {
		t.Fatalf("state=%v below threshold", m.State())
	}
	m.PointerMove(center(h, board.E4))
	if m.State() != Dragging {
		t.Fatalf("state=%v past threshold", m.State())
	}
	m.PointerUp(center(h, board.E4))

	if !h.has("drop e2 e4") {
		t.Errorf("drop not reported: %v", h.calls)
	}
	if diff := cmp.Diff([]string{"commit e2e4 dragged=true"}, commits(h)); diff != "" {
		t.Errorf("commits (-want +got):\n%s", diff)
	}
	if m.State() != Idle {
		t.Errorf("state=%v after drop", m.State())
	}
}

func TestShortPressIsClick(t *testing.T) {
	h := newHost(t, board.StartFEN)
	m := newMachine(h, testConfig)

	start := center(h, board.E2)
	m.PointerDown(start)
	m.PointerMove(board.Point{X: start.X + 3, Y: start.Y - 2})
	m.PointerUp(board.Point{X: start.X + 3, Y: start.Y - 2})

	if m.State() != Selected || m.Selected() != board.E2 {
		t.Errorf("state=%v selected=%v", m.State(), m.Selected())
	}
	if h.has("dragStart e2") {
		t.Error("short press started a drag")
	}
}

func TestDropOnOriginKeepsSelection(t *testing.T) {
	h := newHost(t, board.StartFEN)
	m := newMachine(h, testConfig)

	m.PointerDown(center(h, board.D2))
	m.PointerMove(center(h, board.D4))
	m.PointerUp(center(h, board.D2))

	if !h.has("snapback d2") {
		t.Errorf("no snapback: %v", h.calls)
	}
	if m.State() != Selected || m.Selected() != board.D2 {
		t.Errorf("state=%v selected=%v", m.State(), m.Selected())
	}
}

func TestDropOnIllegalSquare(t *testing.T) {
	h := newHost(t, board.StartFEN)
	m := newMachine(h, testConfig)

	m.PointerDown(center(h, board.D2))
	m.PointerMove(center(h, board.D5))
	m.PointerUp(center(h, board.D5))

	if !h.has("snapback d2") || m.State() != Idle {
		t.Errorf("state=%v calls=%v", m.State(), h.calls)
	}
	if len(commits(h)) != 0 {
		t.Error("illegal drop reached the authority")
	}
}

func TestDropOffBoard(t *testing.T) {
	off := board.Point{X: 900, Y: 100}

	t.Run("snapback", func(t *testing.T) {
		h := newHost(t, board.StartFEN)
		m := newMachine(h, testConfig)
		m.PointerDown(center(h, board.B1))
		m.PointerMove(off)
		m.PointerUp(off)

		if !h.has("drop b1 -") || !h.has("snapback b1") || h.has("trash b1") {
			t.Errorf("calls=%v", h.calls)
		}
		if m.State() != Idle {
			t.Errorf("state=%v", m.State())
		}
	})

	t.Run("trash", func(t *testing.T) {
		h := newHost(t, board.StartFEN)
		h.trash = true
		cfg := testConfig
		cfg.TrashOffBoard = true
		m := newMachine(h, cfg)
		m.PointerDown(center(h, board.B1))
		m.PointerMove(off)
		m.PointerUp(off)

		if !h.has("trash b1") || h.has("snapback b1") {
			t.Errorf("calls=%v", h.calls)
		}
	})

	t.Run("trash refused", func(t *testing.T) {
		h := newHost(t, board.StartFEN)
		cfg := testConfig
		cfg.TrashOffBoard = true
		m := newMachine(h, cfg)
		m.PointerDown(center(h, board.E1))
		m.PointerMove(off)
		m.PointerUp(off)

		if !h.has("trash e1") || !h.has("snapback e1") {
			t.Errorf("calls=%v", h.calls)
		}
	})
}

func TestDragVeto(t *testing.T) {
	h := newHost(t, board.StartFEN)
	h.veto = true
	m := newMachine(h, testConfig)

	m.PointerDown(center(h, board.E2))
	m.PointerMove(center(h, board.E4))
	if m.State() == Dragging {
		t.Fatal("vetoed drag started")
	}
	m.PointerUp(center(h, board.E4))
	if len(commits(h)) != 0 {
		t.Error("vetoed drag committed")
	}
}

func TestRefusedDragSnapsBack(t *testing.T) {
	h := newHost(t, board.StartFEN)
	h.fail = true
	m := newMachine(h, testConfig)

	m.PointerDown(center(h, board.E2))
	m.PointerMove(center(h, board.E4))
	m.PointerUp(center(h, board.E4))

	if !h.has("snapback e2") {
		t.Errorf("refused move did not snap back: %v", h.calls)
	}
	if m.State() != Idle {
		t.Errorf("state=%v", m.State())
	}
}

func TestBusyIgnoresInput(t *testing.T) {
	h := newHost(t, board.StartFEN)
	h.busy = true
	m := newMachine(h, testConfig)

	m.Click(board.E2)
	m.PointerDown(center(h, board.E2))
	m.PointerUp(center(h, board.E2))

	if m.State() != Idle || len(h.calls) != 0 {
		t.Errorf("input handled while busy: %v", h.calls)
	}
}

func TestCancelDrag(t *testing.T) {
	h := newHost(t, board.StartFEN)
	m := newMachine(h, testConfig)

	m.PointerDown(center(h, board.G1))
	m.PointerMove(center(h, board.F3))
	m.Cancel()

	if !h.has("snapback g1") || m.State() != Idle || m.Session() != nil {
		t.Errorf("state=%v calls=%v", m.State(), h.calls)
	}
}

func TestNotDraggable(t *testing.T) {
	h := newHost(t, board.StartFEN)
	cfg := testConfig
	cfg.Draggable = false
	m := newMachine(h, cfg)

	m.PointerDown(center(h, board.E2))
	m.PointerMove(center(h, board.E4))
	m.PointerUp(center(h, board.E4))

	if h.has("dragStart e2") || len(commits(h)) != 0 {
		t.Errorf("calls=%v", h.calls)
	}
}
