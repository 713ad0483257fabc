// Package interaction turns pointer and click input into committed moves.
//
// The machine owns no pieces. It asks its Host what may move where, tells
// it what to decorate, and hands it finished moves to commit.
package interaction

import (
	"github.com/hailam/chessboard/internal/board"
	"github.com/rs/zerolog"
)

// State is the interaction state of a board.
type State uint8

const (
	Idle State = iota
	Pressed
	Dragging
	Selected
	PromotionPending
	Committing
)

var stateNames = [...]string{"idle", "pressed", "dragging", "selected", "promotionPending", "committing"}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// Host is the board the machine drives.
type Host interface {
	Geometry() board.Geometry
	// Busy reports a commit still being finalized; input is ignored
	// meanwhile.
	Busy() bool

	Piece(sq board.Square) board.Piece
	Movable(sq board.Square) bool
	LegalTargets(sq board.Square) board.SquareSet
	NeedsPromotion(from, to board.Square) bool
	// Commit plays m and reports whether it was accepted. A dragged move
	// is dropped in place rather than animated from its origin.
	Commit(m board.Move, dragged bool) bool

	// DragStart lifts the piece on sq, or refuses to.
	DragStart(sq board.Square) bool
	DragMove(from board.Square, pt board.Point)
	// Drop reports where a drag ended; to is NoSquare off the board.
	Drop(from, to board.Square)
	Snapback(from board.Square)
	// Trash removes the dragged piece from the position, or refuses to.
	Trash(from board.Square) bool

	Select(sq board.Square)
	Deselect(sq board.Square)
	ShowHints(targets board.SquareSet)
	ClearHints()
	ShowPromotion(to board.Square, c board.Color)
	HidePromotion()
}

// Config tunes the machine.
type Config struct {
	// DragThreshold is how far, in pixels, a press must travel to become a
	// drag.
	DragThreshold float64
	Draggable     bool
	TrashOffBoard bool
	ShowHints     bool
}

// Session is the transient state of one selection or drag.
type Session struct {
	Selected board.Square
	Targets  board.SquareSet

	Press      board.Point
	PressedOn  board.Square
	Drag       bool
	DragOrigin board.Square

	PromotionFrom board.Square
	PromotionTo   board.Square
}

func newSession() *Session {
	return &Session{
		Selected:      board.NoSquare,
		PressedOn:     board.NoSquare,
		DragOrigin:    board.NoSquare,
		PromotionFrom: board.NoSquare,
		PromotionTo:   board.NoSquare,
	}
}

// Machine is the interaction state machine of one board. It is not safe
// for concurrent use.
type Machine struct {
	host Host
	cfg  Config
	log  zerolog.Logger

	state   State
	session *Session
}

// New creates an idle machine.
func New(host Host, cfg Config, log zerolog.Logger) *Machine {
	return &Machine{host: host, cfg: cfg, log: log}
}

// SetConfig replaces the configuration. An active session is cancelled.
func (m *Machine) SetConfig(cfg Config) {
	m.Cancel()
	m.cfg = cfg
}

// State returns the current state.
func (m *Machine) State() State {
	return m.state
}

// Session returns a copy of the current session, or nil when idle.
func (m *Machine) Session() *Session {
	if m.session == nil {
		return nil
	}
	s := *m.session
	return &s
}

// Selected returns the selected square, or NoSquare.
func (m *Machine) Selected() board.Square {
	if m.session == nil {
		return board.NoSquare
	}
	return m.session.Selected
}

func (m *Machine) sess() *Session {
	if m.session == nil {
		m.session = newSession()
	}
	return m.session
}

// busy reports whether input must be dropped.
func (m *Machine) busy(event string) bool {
	if m.state != Committing && !m.host.Busy() {
		return false
	}
	m.log.Debug().
		Err(&board.Error{Kind: board.KindReentrancy, Field: event}).
		Stringer("state", m.state).
		Msg("input ignored")
	return true
}

// PointerDown starts a press at pt.
func (m *Machine) PointerDown(pt board.Point) {
	if m.busy("pointerDown") {
		return
	}
	geo := m.host.Geometry()

	if m.state == PromotionPending {
		if choice, ok := geo.PromotionChoiceAt(pt, m.session.PromotionTo); ok {
			m.ChoosePromotion(choice)
			return
		}
		m.cancelPromotion()
		return
	}

	sq, on := geo.SquareAt(pt)
	if !on {
		m.deselect()
		return
	}

	s := m.sess()
	s.Press = pt
	s.PressedOn = sq

	// A press on a legal target is a click in the making, never a drag.
	if m.state == Selected && s.Targets.Has(sq) {
		return
	}
	if m.cfg.Draggable && m.host.Movable(sq) {
		s.DragOrigin = sq
		m.state = Pressed
	}
}

// PointerMove tracks the pointer. A press travelling past the threshold
// becomes a drag.
func (m *Machine) PointerMove(pt board.Point) {
	if m.busy("pointerMove") {
		return
	}
	switch m.state {
	case Pressed:
		s := m.session
		if pt.Dist(s.Press) < m.cfg.DragThreshold {
			return
		}
		m.startDrag(pt)
	case Dragging:
		m.host.DragMove(m.session.DragOrigin, pt)
	}
}

func (m *Machine) startDrag(pt board.Point) {
	s := m.session
	origin := s.DragOrigin
	if !m.host.DragStart(origin) {
		m.log.Debug().Stringer("square", origin).Msg("drag vetoed")
		m.restore()
		s.DragOrigin = board.NoSquare
		return
	}
	if s.Selected != origin {
		m.clearSelection()
		m.selectSquare(origin)
	}
	s.Drag = true
	m.state = Dragging
	m.host.DragMove(origin, pt)
}

// restore returns from a press to the state the selection implies.
func (m *Machine) restore() {
	if m.session != nil && m.session.Selected != board.NoSquare {
		m.state = Selected
		return
	}
	m.state = Idle
}

// PointerUp ends a press or a drag at pt.
func (m *Machine) PointerUp(pt board.Point) {
	if m.busy("pointerUp") {
		return
	}
	if m.session == nil {
		return
	}
	s := m.session

	switch m.state {
	case Dragging:
		m.drop(pt)
		return
	case Pressed:
		m.restore()
	}

	pressed := s.PressedOn
	s.PressedOn = board.NoSquare
	s.DragOrigin = board.NoSquare
	if pressed == board.NoSquare {
		return
	}
	if sq, ok := m.host.Geometry().SquareAt(pt); ok && sq == pressed {
		m.click(sq)
	}
	if m.state == Idle {
		m.session = nil
	}
}

// Click handles a tap on sq, for input without pointer coordinates.
func (m *Machine) Click(sq board.Square) {
	if m.busy("click") {
		return
	}
	if !sq.IsValid() {
		return
	}
	if m.state == PromotionPending {
		for i, s := range board.PromotionSquares(m.session.PromotionTo) {
			if s == sq {
				m.ChoosePromotion(board.PromotionTypes[i])
				return
			}
		}
		m.cancelPromotion()
		return
	}
	if m.state == Pressed || m.state == Dragging {
		return
	}
	m.click(sq)
}

func (m *Machine) click(sq board.Square) {
	if m.state == Selected {
		s := m.session
		switch {
		case sq == s.Selected:
			m.deselect()
		case s.Targets.Has(sq):
			m.attempt(s.Selected, sq, false)
		default:
			m.rejectDestination(sq)
		}
		return
	}
	if m.host.Movable(sq) {
		m.selectSquare(sq)
	}
}

// rejectDestination clears the selection after an illegal destination,
// selecting the piece there instead when it may move.
func (m *Machine) rejectDestination(sq board.Square) {
	m.log.Debug().Stringer("square", sq).Msg("illegal destination")
	m.deselect()
	if m.host.Movable(sq) {
		m.selectSquare(sq)
	}
}

func (m *Machine) drop(pt board.Point) {
	s := m.session
	origin := s.DragOrigin
	s.Drag = false
	s.DragOrigin = board.NoSquare
	s.PressedOn = board.NoSquare

	sq, on := m.host.Geometry().SquareAt(pt)
	if !on {
		m.host.Drop(origin, board.NoSquare)
		if !m.cfg.TrashOffBoard || !m.host.Trash(origin) {
			m.host.Snapback(origin)
		}
		m.deselect()
		return
	}

	m.host.Drop(origin, sq)
	switch {
	case sq == origin:
		m.host.Snapback(origin)
		m.state = Selected
	case s.Targets.Has(sq):
		m.state = Selected
		m.attempt(origin, sq, true)
	default:
		m.host.Snapback(origin)
		m.state = Selected
		m.rejectDestination(sq)
	}
}

func (m *Machine) attempt(from, to board.Square, dragged bool) {
	if m.host.NeedsPromotion(from, to) {
		if dragged {
			m.host.Snapback(from)
		}
		s := m.session
		s.PromotionFrom, s.PromotionTo = from, to
		m.host.ClearHints()
		m.host.ShowPromotion(to, m.host.Piece(from).Color())
		m.state = PromotionPending
		return
	}
	m.commit(board.NewMove(from, to), dragged)
}

// ChoosePromotion completes a pending promotion with pt.
func (m *Machine) ChoosePromotion(pt board.PieceType) {
	if m.busy("promote") || m.state != PromotionPending {
		return
	}
	valid := false
	for _, t := range board.PromotionTypes {
		valid = valid || t == pt
	}
	if !valid {
		m.cancelPromotion()
		return
	}
	s := m.session
	m.host.HidePromotion()
	m.commit(board.NewPromotion(s.PromotionFrom, s.PromotionTo, pt), false)
}

func (m *Machine) cancelPromotion() {
	m.host.HidePromotion()
	m.deselect()
}

func (m *Machine) commit(mv board.Move, dragged bool) {
	m.state = Committing
	m.clearSelection()
	ok := m.host.Commit(mv, dragged)
	if !ok {
		m.log.Debug().Stringer("move", mv).Msg("move refused")
		if dragged {
			m.host.Snapback(mv.From)
		}
	}
	m.session = nil
	m.state = Idle
}

// Cancel aborts whatever session is in progress.
func (m *Machine) Cancel() {
	if m.session == nil {
		m.state = Idle
		return
	}
	switch m.state {
	case Committing:
		return
	case Dragging:
		m.host.Snapback(m.session.DragOrigin)
	case PromotionPending:
		m.host.HidePromotion()
	}
	m.deselect()
}

func (m *Machine) selectSquare(sq board.Square) {
	s := m.sess()
	s.Selected = sq
	s.Targets = m.host.LegalTargets(sq)
	m.host.Select(sq)
	if m.cfg.ShowHints {
		m.host.ShowHints(s.Targets)
	}
	m.state = Selected
}

func (m *Machine) clearSelection() {
	if m.session == nil || m.session.Selected == board.NoSquare {
		return
	}
	m.host.Deselect(m.session.Selected)
	m.host.ClearHints()
	m.session.Selected = board.NoSquare
	m.session.Targets = 0
}

// deselect ends the session.
func (m *Machine) deselect() {
	m.clearSelection()
	m.session = nil
	m.state = Idle
}
