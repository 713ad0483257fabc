// Package chessboard is the board component: it keeps a rendered surface in
// step with a position authority, turns pointer input into moves and
// reports what happened through callbacks.
//
// A Board is confined to one goroutine. Animation time advances only when
// the clock it was built with is advanced.
package chessboard

import (
	"errors"
	"fmt"

	"github.com/hailam/chessboard/internal/anim"
	"github.com/hailam/chessboard/internal/authority"
	"github.com/hailam/chessboard/internal/board"
	"github.com/hailam/chessboard/internal/config"
	"github.com/hailam/chessboard/internal/interaction"
	"github.com/hailam/chessboard/internal/movecache"
	"github.com/hailam/chessboard/internal/reconcile"
	"github.com/hailam/chessboard/internal/surface"
	"github.com/rs/zerolog"
)

// EmptyFEN is the position Clear renders.
const EmptyFEN = "8/8/8/8/8/8/8/8 w - - 0 1"

// DefaultSize is the board side in pixels until Resize is called.
const DefaultSize = 640

var (
	// ErrVetoed is wrapped by moves an OnMove callback refused.
	ErrVetoed = errors.New("move vetoed")

	errNoAuthority = errors.New("no position authority")
)

// Options adjusts how a single call is rendered.
type Options struct {
	// Instant skips animation even when the board animates.
	Instant bool
	// Sequential plays the operations one after another.
	Sequential bool
}

// Callbacks are the hooks a board calls. Any of them may be nil.
type Callbacks struct {
	// OnMove is asked before a move reaches the authority; false vetoes it.
	OnMove func(m board.Move) bool
	// OnMoveEnd runs once the move's animation has settled.
	OnMoveEnd func(res authority.MoveResult)
	// OnChange runs after the logical position changed.
	OnChange func(fen string)

	OnDragStart   func(sq board.Square, p board.Piece) bool
	OnDragMove    func(from, over board.Square, pt board.Point)
	OnDrop        func(from, to board.Square)
	OnSnapbackEnd func(sq board.Square, p board.Piece)
}

// Option configures a Board.
type Option func(*Board)

// WithLogger sets the logger. Boards log nothing by default.
func WithLogger(log zerolog.Logger) Option {
	return func(b *Board) { b.log = log }
}

// WithCallbacks sets the callbacks.
func WithCallbacks(cb Callbacks) Option {
	return func(b *Board) { b.cb = cb }
}

// WithSize sets the board side in pixels.
func WithSize(px float64) Option {
	return func(b *Board) { b.geo.Size = px }
}

type pendingRender struct {
	opts   Options
	future *anim.Future
	timer  anim.Timer
}

// Board is one chessboard.
type Board struct {
	cfg     config.Config
	cb      Callbacks
	log     zerolog.Logger
	clock   anim.Clock
	surface surface.Surface
	auth    authority.Authority
	cache   *movecache.Cache
	coord   *reconcile.Coordinator
	machine *interaction.Machine
	geo     board.Geometry

	// fen is the position when the authority does not hold it: there is
	// none, or the position is not playable.
	fen      string
	detached bool

	notified string
	pending  *pendingRender
	inflight *anim.Future
	redo     []authority.MoveResult
}

// New creates a board drawing on s. auth may be nil: the board then renders
// whatever it is given but refuses every move.
func New(cfg config.Config, s surface.Surface, clock anim.Clock, auth authority.Authority, opts ...Option) (*Board, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("chessboard: %w", err)
	}

	b := &Board{
		cfg:     cfg,
		log:     zerolog.Nop(),
		clock:   clock,
		surface: s,
		auth:    auth,
		geo:     board.Geometry{Size: DefaultSize, Flipped: cfg.OrientationColor() == board.Black},
		fen:     EmptyFEN,
	}
	for _, opt := range opts {
		opt(b)
	}
	if auth == nil {
		b.detached = true
	}

	cache, err := movecache.New(movecache.WithTTL(cfg.CacheTTL), movecache.WithClock(clock.Now))
	if err != nil {
		return nil, fmt.Errorf("chessboard: %w", err)
	}
	b.cache = cache
	b.coord = reconcile.NewCoordinator(s, clock, cfg.Timing(), b.log)
	b.machine = interaction.New(host{b}, cfg.Interaction(), b.log)

	s.SetFlipped(b.geo.Flipped)
	b.notified = b.FEN()
	b.cache.Invalidate(b.notified)
	b.render(Options{Instant: true})
	return b, nil
}

// Close releases the move cache and drops any pending render.
func (b *Board) Close() {
	if b.pending != nil && b.pending.timer != nil {
		b.pending.timer.Stop()
	}
	b.pending = nil
	b.cache.Close()
}

// playing reports whether the authority holds the position.
func (b *Board) playing() bool {
	return b.auth != nil && !b.detached
}

// FEN returns the full FEN of the logical position.
func (b *Board) FEN() string {
	if b.playing() {
		return b.auth.FEN()
	}
	return b.fen
}

// Placement returns the logical piece placement.
func (b *Board) Placement() board.Placement {
	if b.playing() {
		return b.auth.Placement()
	}
	p, _ := board.ParsePlacement(b.fen)
	return p
}

// Piece returns the piece on sq in the logical position.
func (b *Board) Piece(sq board.Square) board.Piece {
	p := b.Placement()
	return p.At(sq)
}

// Visual returns the visual placement. A debounced position shows up here
// once it renders.
func (b *Board) Visual() board.Visual {
	return b.coord.Visual()
}

// Config returns the board configuration.
func (b *Board) Config() config.Config {
	return b.cfg
}

// SetConfig replaces the configuration. Any interaction in progress is
// cancelled.
func (b *Board) SetConfig(cfg config.Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("chessboard: %w", err)
	}
	if cfg.OrientationColor() != b.cfg.OrientationColor() {
		b.geo.Flipped = cfg.OrientationColor() == board.Black
		b.surface.SetFlipped(b.geo.Flipped)
	}
	b.cfg = cfg
	b.coord.SetTiming(cfg.Timing())
	b.machine.SetConfig(cfg.Interaction())
	return nil
}

// Geometry returns the pixel mapping of the board.
func (b *Board) Geometry() board.Geometry {
	return b.geo
}

// Resize sets the board side in pixels.
func (b *Board) Resize(px float64) {
	b.geo.Size = px
}

// State returns the interaction state.
func (b *Board) State() interaction.State {
	return b.machine.State()
}

// Selected returns the selected square, or NoSquare.
func (b *Board) Selected() board.Square {
	return b.machine.Selected()
}

// Busy reports whether a committed move is still animating. Input is
// ignored meanwhile.
func (b *Board) Busy() bool {
	return b.inflight != nil && !b.inflight.Settled()
}

// SetPosition loads spec: "start", a full FEN or a placement-only FEN.
// Calls within the debounce interval coalesce into one render of the last
// position; they all return the same future.
func (b *Board) SetPosition(spec string, opts Options) (*anim.Future, error) {
	fen, err := board.ParsePosition(spec)
	if err != nil {
		return nil, fmt.Errorf("set position: %w", err)
	}
	b.machine.Cancel()
	if err := b.load(fen); err != nil {
		return nil, fmt.Errorf("set position: %w", err)
	}
	return b.schedule(opts), nil
}

// Clear removes every piece.
func (b *Board) Clear() *anim.Future {
	f, _ := b.SetPosition(EmptyFEN, Options{})
	return f
}

// Reset loads the starting position.
func (b *Board) Reset() *anim.Future {
	f, _ := b.SetPosition("start", Options{})
	return f
}

// load replaces the logical position. Castling rights and en-passant
// targets the placement cannot back are dropped first. Positions without
// exactly one king per side are held by the board alone and cannot be
// played.
func (b *Board) load(fen string) error {
	fen, err := board.ConsistentFEN(fen)
	if err != nil {
		return err
	}
	p, err := board.ParsePlacement(fen)
	if err != nil {
		return err
	}
	detached := true
	if b.auth != nil && playable(p) {
		if err := b.auth.Load(fen); err != nil {
			return err
		}
		detached = false
	}
	b.fen = fen
	b.detached = detached
	b.redo = nil
	b.cache.Invalidate(b.FEN())
	return nil
}

func playable(p board.Placement) bool {
	var white, black int
	for _, pc := range p {
		switch pc {
		case board.WhiteKing:
			white++
		case board.BlackKing:
			black++
		}
	}
	return white == 1 && black == 1
}

func (b *Board) schedule(opts Options) *anim.Future {
	if b.pending == nil {
		b.pending = &pendingRender{future: anim.NewFuture()}
		if b.cfg.Debounce > 0 {
			b.pending.timer = b.clock.AfterFunc(b.cfg.Debounce, b.flush)
		}
	}
	b.pending.opts = opts
	f := b.pending.future
	if b.pending.timer == nil {
		b.flush()
	}
	return f
}

// flush renders a pending position now.
func (b *Board) flush() {
	p := b.pending
	if p == nil {
		return
	}
	b.pending = nil
	if p.timer != nil {
		p.timer.Stop()
	}
	b.render(p.opts).Then(p.future.Resolve)
	b.changed()
}

func (b *Board) render(opts Options) *anim.Future {
	ops := reconcile.Diff(b.coord.Visual(), b.Placement(), nil)
	return b.coord.Apply(ops, b.applyOptions(opts))
}

func (b *Board) applyOptions(opts Options) reconcile.Options {
	return reconcile.Options{
		Animate:    b.cfg.Animate && !opts.Instant,
		Sequential: b.cfg.Sequential || opts.Sequential,
	}
}

func (b *Board) changed() {
	fen := b.FEN()
	if fen == b.notified {
		return
	}
	b.notified = fen
	b.log.Debug().Str("fen", fen).Msg("position changed")
	if b.cb.OnChange != nil {
		b.cb.OnChange(fen)
	}
}

// Move plays spec: "e2e4", "e2-e4", "e7e8q" or "e7-e8=Q".
func (b *Board) Move(spec string, opts Options) (*anim.Future, error) {
	m, err := board.ParseMove(spec)
	if err != nil {
		return nil, fmt.Errorf("move: %w", err)
	}
	return b.ApplyMove(m, opts)
}

// ApplyMove plays m. The returned future settles when its animation has.
func (b *Board) ApplyMove(m board.Move, opts Options) (*anim.Future, error) {
	if !m.IsValid() {
		return nil, &board.Error{Kind: board.KindInvalidInput, Move: m.String()}
	}
	b.machine.Cancel()
	f, err := b.play(m, false, opts)
	if err != nil {
		return nil, err
	}
	b.redo = nil
	return f, nil
}

// play hands m to the authority and renders the result. A dragged piece is
// already under the pointer at its destination, so it is dropped in place
// while the rest of the move animates.
func (b *Board) play(m board.Move, dragged bool, opts Options) (*anim.Future, error) {
	if !b.playing() {
		return nil, board.IllegalMove(m, errNoAuthority)
	}
	b.flush()
	m = b.castleOntoRook(m)
	if b.cb.OnMove != nil && !b.cb.OnMove(m) {
		return nil, board.IllegalMove(m, ErrVetoed)
	}

	mover := b.coord.Visual()[m.From].ID
	res, err := b.auth.Move(m)
	if err != nil {
		return nil, err
	}
	b.cache.Invalidate(res.After)
	b.log.Info().
		Str("san", res.SAN).
		Stringer("move", res.Move).
		Str("fen", res.After).
		Msg("move played")

	last := &reconcile.LastMove{
		Move:       res.Move,
		Piece:      res.Piece,
		EnPassant:  res.EnPassant,
		CapturedOn: res.CapturedOn,
	}
	ops := reconcile.Diff(b.coord.Visual(), b.auth.Placement(), last)

	var f *anim.Future
	if dragged {
		var dropped, rest []reconcile.Operation
		for _, op := range ops {
			if op.ID == mover && (op.Op == reconcile.OpTranslate || op.Op == reconcile.OpPromote) {
				dropped = append(dropped, op)
			} else {
				rest = append(rest, op)
			}
		}
		f = anim.All(
			b.coord.Apply(dropped, reconcile.Options{}),
			b.coord.Apply(rest, b.applyOptions(opts)),
		)
	} else {
		f = b.coord.Apply(ops, b.applyOptions(opts))
	}
	b.inflight = f

	if b.auth.IsGameOver() {
		b.log.Info().Str("outcome", b.auth.Outcome()).Msg("game over")
	}
	b.changed()
	f.Then(func() {
		if b.cb.OnMoveEnd != nil {
			b.cb.OnMoveEnd(res)
		}
	})
	return f, nil
}

// castleOntoRook turns a king move onto its own rook into the castling
// move towards that rook.
func (b *Board) castleOntoRook(m board.Move) board.Move {
	p := b.auth.Get(m.From)
	if p.Type() != board.King || b.auth.Get(m.To) != board.NewPiece(board.Rook, p.Color()) {
		return m
	}
	for _, mi := range b.auth.Moves(m.From) {
		if mi.Castle && castleRook(mi.Move) == m.To {
			return mi.Move
		}
	}
	return m
}

// castleRook returns the home square of the rook a castling king move
// castles with.
func castleRook(m board.Move) board.Square {
	if m.To.File() > m.From.File() {
		return board.NewSquare(7, m.From.Rank())
	}
	return board.NewSquare(0, m.From.Rank())
}

// Undo takes back the last move.
func (b *Board) Undo() (authority.MoveResult, bool) {
	if !b.playing() {
		return authority.MoveResult{}, false
	}
	b.machine.Cancel()
	b.flush()
	res, ok := b.auth.Undo()
	if !ok {
		return res, false
	}
	b.redo = append(b.redo, res)
	b.cache.Invalidate(b.auth.FEN())
	b.log.Debug().Stringer("move", res.Move).Msg("move taken back")

	b.inflight = b.render(Options{})
	b.changed()
	return res, true
}

// Redo replays the last move taken back. New moves clear the redo stack; a
// vetoed replay leaves it as it was.
func (b *Board) Redo() (authority.MoveResult, bool) {
	if !b.playing() || len(b.redo) == 0 {
		return authority.MoveResult{}, false
	}
	b.machine.Cancel()
	res := b.redo[len(b.redo)-1]
	if _, err := b.play(res.Move, false, Options{}); err != nil {
		b.log.Warn().Err(err).Stringer("move", res.Move).Msg("redo failed")
		if !errors.Is(err, ErrVetoed) {
			b.redo = nil
		}
		return authority.MoveResult{}, false
	}
	b.redo = b.redo[:len(b.redo)-1]
	return res, true
}

// CanRedo reports whether Redo has a move to replay.
func (b *Board) CanRedo() bool {
	return len(b.redo) > 0
}

// History returns the moves played since the position was last loaded.
func (b *Board) History() []authority.MoveResult {
	if !b.playing() {
		return nil
	}
	return b.auth.History()
}

// Outcome returns the game result, "*" while the game is in progress or
// when no authority holds the position.
func (b *Board) Outcome() string {
	if !b.playing() {
		return "*"
	}
	return b.auth.Outcome()
}

// Highlight marks sq.
func (b *Board) Highlight(sq board.Square) {
	b.surface.Highlight(sq)
}

// Dehighlight unmarks sq.
func (b *Board) Dehighlight(sq board.Square) {
	b.surface.Dehighlight(sq)
}

// Flip turns the board around.
func (b *Board) Flip() {
	b.machine.Cancel()
	b.geo.Flipped = !b.geo.Flipped
	b.surface.SetFlipped(b.geo.Flipped)
}

// Orientation returns the side drawn at the bottom.
func (b *Board) Orientation() board.Color {
	if b.geo.Flipped {
		return board.Black
	}
	return board.White
}

// Pointer and click input, in pixels relative to the board's top-left
// corner.

func (b *Board) PointerDown(pt board.Point) { b.machine.PointerDown(pt) }
func (b *Board) PointerMove(pt board.Point) { b.machine.PointerMove(pt) }
func (b *Board) PointerUp(pt board.Point) { b.machine.PointerUp(pt) }
func (b *Board) Click(sq board.Square) { b.machine.Click(sq) }
func (b *Board) ChoosePromotion(pt board.PieceType) { b.machine.ChoosePromotion(pt) }
func (b *Board) Cancel() { b.machine.Cancel() }
