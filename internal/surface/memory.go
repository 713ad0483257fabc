package surface

import (
	"sort"
	"time"

	"github.com/hailam/chessboard/internal/anim"
	"github.com/hailam/chessboard/internal/board"
	"github.com/rs/zerolog"
)

// Memory is a Surface that keeps its whole state in memory and reports
// every change as an Event. Motion is computed from its clock, so a desktop
// renderer can draw it directly and tests can step it frame by frame.
type Memory struct {
	clock anim.Clock
	log   zerolog.Logger

	nodes       map[board.PieceID]*memoryNode
	highlighted board.SquareSet
	selected    board.SquareSet
	hints       board.SquareSet
	promotion   Promotion
	flipped     bool

	record    bool
	events    []Event
	listeners []func(Event)
}

// Promotion is the state of the promotion affordance.
type Promotion struct {
	Open  bool
	To    board.Square
	Color board.Color
}

// MemoryOption configures a Memory surface.
type MemoryOption func(*Memory)

// WithLogger sets the logger.
func WithLogger(log zerolog.Logger) MemoryOption {
	return func(m *Memory) { m.log = log }
}

// WithRecording keeps every event for Events.
func WithRecording() MemoryOption {
	return func(m *Memory) { m.record = true }
}

// NewMemory creates an empty surface driven by clock.
func NewMemory(clock anim.Clock, opts ...MemoryOption) *Memory {
	m := &Memory{
		clock: clock,
		log:   zerolog.Nop(),
		nodes: make(map[board.PieceID]*memoryNode),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Subscribe registers fn to receive every subsequent event.
func (m *Memory) Subscribe(fn func(Event)) {
	m.listeners = append(m.listeners, fn)
}

// Events returns the recorded events.
func (m *Memory) Events() []Event {
	out := make([]Event, len(m.events))
	copy(out, m.events)
	return out
}

// TakeEvents returns the recorded events and forgets them.
func (m *Memory) TakeEvents() []Event {
	out := m.events
	m.events = nil
	return out
}

func (m *Memory) emit(e Event) {
	if m.record {
		m.events = append(m.events, e)
	}
	for _, fn := range m.listeners {
		fn(e)
	}
}

// Now returns the surface clock's time.
func (m *Memory) Now() time.Time {
	return m.clock.Now()
}

// Put implements Surface.
func (m *Memory) Put(sq board.Square, id board.PieceID, p board.Piece) Node {
	if old, ok := m.nodes[id]; ok {
		m.log.Debug().Stringer("id", id).Msg("replacing node")
		old.Destroy()
	}
	n := &memoryNode{m: m, id: id, piece: p, pos: board.SquareVec(sq)}
	m.nodes[id] = n
	m.emit(Event{Kind: EventPut, ID: id, Piece: p.Code(), Square: sq.String()})
	return n
}

// Node implements Surface.
func (m *Memory) Node(id board.PieceID) (Node, bool) {
	n, ok := m.nodes[id]
	if !ok {
		return nil, false
	}
	return n, true
}

// Nodes returns every live node ordered by id, lifted nodes last.
func (m *Memory) Nodes() []Node {
	ids := make([]board.PieceID, 0, len(m.nodes))
	for id := range m.nodes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := m.nodes[ids[i]], m.nodes[ids[j]]
		if a.lifted != b.lifted {
			return b.lifted
		}
		return ids[i] < ids[j]
	})
	out := make([]Node, len(ids))
	for i, id := range ids {
		out[i] = m.nodes[id]
	}
	return out
}

// Resting returns the nodes that stand still on a square, keyed by it.
// Nodes in motion, lifted or mid-effect are left out.
func (m *Memory) Resting() board.Visual {
	v := board.EmptyVisual()
	for _, n := range m.nodes {
		if n.moving || n.lifted {
			continue
		}
		sq := board.NewSquare(int(n.pos.File), int(n.pos.Rank))
		if sq.IsValid() && board.SquareVec(sq) == n.pos {
			v[sq] = board.Occupant{ID: n.id, Piece: n.piece}
		}
	}
	return v
}

func (m *Memory) Highlight(sq board.Square) {
	m.highlighted = m.highlighted.Add(sq)
	m.emit(Event{Kind: EventHighlight, Square: sq.String()})
}

func (m *Memory) Dehighlight(sq board.Square) {
	m.highlighted = m.highlighted.Remove(sq)
	m.emit(Event{Kind: EventDehighlight, Square: sq.String()})
}

func (m *Memory) Select(sq board.Square) {
	m.selected = m.selected.Add(sq)
	m.emit(Event{Kind: EventSelect, Square: sq.String()})
}

func (m *Memory) Deselect(sq board.Square) {
	m.selected = m.selected.Remove(sq)
	m.emit(Event{Kind: EventDeselect, Square: sq.String()})
}

func (m *Memory) ShowHints(targets board.SquareSet) {
	m.hints = targets
	m.emit(Event{Kind: EventHints, Squares: squareNames(targets)})
}

func (m *Memory) ClearHints() {
	if m.hints.Empty() {
		return
	}
	m.hints = 0
	m.emit(Event{Kind: EventClearHints})
}

func (m *Memory) ShowPromotion(to board.Square, c board.Color) {
	m.promotion = Promotion{Open: true, To: to, Color: c}
	m.emit(Event{Kind: EventShowPromotion, Square: to.String(), Color: c.String()})
}

func (m *Memory) HidePromotion() {
	if !m.promotion.Open {
		return
	}
	m.promotion = Promotion{To: board.NoSquare, Color: board.NoColor}
	m.emit(Event{Kind: EventHidePromotion})
}

func (m *Memory) SetFlipped(flipped bool) {
	m.flipped = flipped
	m.emit(Event{Kind: EventFlip, Flipped: flipped})
}

// Highlighted returns the highlighted squares.
func (m *Memory) Highlighted() board.SquareSet { return m.highlighted }

// Selected returns the selected squares.
func (m *Memory) Selected() board.SquareSet { return m.selected }

// Hints returns the squares showing move hints.
func (m *Memory) Hints() board.SquareSet { return m.hints }

// Promotion returns the promotion affordance state.
func (m *Memory) Promotion() Promotion { return m.promotion }

// Flipped reports whether the board is drawn from Black's side.
func (m *Memory) Flipped() bool { return m.flipped }
