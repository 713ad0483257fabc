package remote

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hailam/chessboard/internal/anim"
	"github.com/hailam/chessboard/internal/authority"
	"github.com/hailam/chessboard/internal/board"
	"github.com/hailam/chessboard/internal/chessboard"
	"github.com/hailam/chessboard/internal/config"
	"github.com/hailam/chessboard/internal/storage"
	"github.com/hailam/chessboard/internal/surface"
	"github.com/rs/zerolog"
)

// ErrClosed is returned by calls into a session that has stopped.
var ErrClosed = errors.New("remote: session closed")

var (
	errNothingToUndo = errors.New("nothing to undo")
	errNothingToRedo = errors.New("nothing to redo")
)

// Sink receives the frames a session sends to one client.
type Sink interface {
	Send(msg Message) error
}

// Client is one connection attached to a session.
type Client struct {
	sink Sink
}

// NewClient wraps a sink.
func NewClient(sink Sink) *Client {
	return &Client{sink: sink}
}

type envelope struct {
	from *Client
	cmd  Command
	err  error
}

// Status is the part of a session the REST API reports.
type Status struct {
	ID          string   `json:"id"`
	FEN         string   `json:"fen"`
	State       string   `json:"state"`
	Orientation string   `json:"orientation"`
	Outcome     string   `json:"outcome"`
	Moves       []string `json:"moves"`
	Clients     int      `json:"clients"`
}

// SessionOptions configures a session actor.
type SessionOptions struct {
	Config config.Config
	// Frame is the ticker period driving animations.
	Frame time.Duration
	// Idle stops a session that has had no client for this long. Zero
	// keeps it forever.
	Idle    time.Duration
	Storage *storage.Storage
	Log     zerolog.Logger
}

// Session owns one board. Everything touching the board, its surface or
// the clients runs on the session goroutine.
type Session struct {
	id   string
	opts SessionOptions
	log  zerolog.Logger

	clock   *anim.FrameClock
	surface *surface.Memory
	board   *chessboard.Board

	clients map[*Client]struct{}
	idle    time.Time

	inbox chan envelope
	calls chan func()
	join  chan *Client
	leave chan *Client
	stop  chan struct{}
	done  chan struct{}

	onExit func(*Session)
}

func newSession(id string, opts SessionOptions) (*Session, error) {
	if opts.Frame <= 0 {
		opts.Frame = 16 * time.Millisecond
	}
	now := time.Now()
	s := &Session{
		id:      id,
		opts:    opts,
		log:     opts.Log.With().Str("session", id).Logger(),
		clock:   anim.NewFrameClock(now),
		clients: make(map[*Client]struct{}),
		idle:    now,
		inbox:   make(chan envelope, 64),
		calls:   make(chan func()),
		join:    make(chan *Client),
		leave:   make(chan *Client),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	s.surface = surface.NewMemory(s.clock, surface.WithLogger(s.log))
	s.surface.Subscribe(s.forward)

	b, err := chessboard.New(opts.Config, s.surface, s.clock, authority.NewGame(),
		chessboard.WithLogger(s.log),
		chessboard.WithCallbacks(chessboard.Callbacks{
			OnChange:  s.onChange,
			OnMoveEnd: s.onMoveEnd,
		}),
	)
	if err != nil {
		return nil, err
	}
	s.board = b
	return s, nil
}

// ID returns the session id.
func (s *Session) ID() string {
	return s.id
}

// Done is closed once the session goroutine has exited.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

func (s *Session) run() {
	defer close(s.done)
	defer s.shutdown()

	ticker := time.NewTicker(s.opts.Frame)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case c := <-s.join:
			s.clients[c] = struct{}{}
			s.sendTo(c, NewMessage(MessageSnapshot, s.snapshot()))
			s.log.Debug().Int("clients", len(s.clients)).Msg("client joined")
		case c := <-s.leave:
			delete(s.clients, c)
			s.idle = time.Now()
			s.log.Debug().Int("clients", len(s.clients)).Msg("client left")
		case env := <-s.inbox:
			err := env.err
			if err == nil {
				err = s.apply(env.cmd)
			}
			if err != nil {
				s.log.Debug().Err(err).Str("type", string(env.cmd.Type)).Msg("command rejected")
				s.sendTo(env.from, errorMessage(err))
			}
		case fn := <-s.calls:
			fn()
		case now := <-ticker.C:
			s.clock.Advance(now)
			if s.opts.Idle > 0 && len(s.clients) == 0 && now.Sub(s.idle) > s.opts.Idle {
				s.log.Info().Msg("idle session stopped")
				return
			}
		}
	}
}

func (s *Session) shutdown() {
	s.save()
	s.board.Close()
	if s.onExit != nil {
		s.onExit(s)
	}
}

// Stop ends the session and waits for it to exit.
func (s *Session) Stop() {
	select {
	case s.stop <- struct{}{}:
	case <-s.done:
	}
	<-s.done
}

// Join attaches a client. It receives a snapshot first, then every event.
func (s *Session) Join(c *Client) error {
	select {
	case s.join <- c:
		return nil
	case <-s.done:
		return ErrClosed
	}
}

// Leave detaches a client. Once it returns the session no longer writes
// to the client.
func (s *Session) Leave(c *Client) {
	select {
	case s.leave <- c:
	case <-s.done:
	}
}

// Submit queues a decoded command from c.
func (s *Session) Submit(c *Client, cmd Command) error {
	return s.enqueue(envelope{from: c, cmd: cmd})
}

// Reject reports err to c from the session goroutine.
func (s *Session) Reject(c *Client, err error) error {
	return s.enqueue(envelope{from: c, err: err})
}

func (s *Session) enqueue(env envelope) error {
	select {
	case <-s.done:
		return ErrClosed
	default:
	}
	select {
	case s.inbox <- env:
		return nil
	case <-s.done:
		return ErrClosed
	}
}

// call runs fn on the session goroutine and waits for it.
func (s *Session) call(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	select {
	case s.calls <- func() { fn(); close(finished) }:
	case <-s.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	<-finished
	return nil
}

// Status reports the session's position and interaction state.
func (s *Session) Status(ctx context.Context) (Status, error) {
	var st Status
	err := s.call(ctx, func() {
		st = Status{
			ID:          s.id,
			FEN:         s.board.FEN(),
			State:       s.board.State().String(),
			Orientation: s.board.Orientation().String(),
			Outcome:     s.board.Outcome(),
			Moves:       s.board.Snapshot().Moves,
			Clients:     len(s.clients),
		}
	})
	return st, err
}

func (s *Session) apply(cmd Command) error {
	b := s.board
	switch cmd.Type {
	case MessageClick:
		b.Click(cmd.Square)
	case MessagePointerDown:
		b.PointerDown(cmd.Point)
	case MessagePointerMove:
		b.PointerMove(cmd.Point)
	case MessagePointerUp:
		b.PointerUp(cmd.Point)
	case MessagePromote:
		b.ChoosePromotion(cmd.Piece)
	case MessageCancel:
		b.Cancel()
	case MessageMove:
		_, err := b.ApplyMove(cmd.Move, cmd.Options)
		return err
	case MessagePosition:
		_, err := b.SetPosition(cmd.Position, cmd.Options)
		return err
	case MessageUndo:
		if _, ok := b.Undo(); !ok {
			return errNothingToUndo
		}
	case MessageRedo:
		if _, ok := b.Redo(); !ok {
			return errNothingToRedo
		}
	case MessageFlip:
		b.Flip()
		s.save()
	case MessageReset:
		b.Reset()
	case MessageClear:
		b.Clear()
	default:
		return fmt.Errorf("unhandled message %q", cmd.Type)
	}
	return nil
}

// forward relays every surface event to all clients.
func (s *Session) forward(ev surface.Event) {
	s.broadcast(NewMessage(MessageType(ev.Kind), ev))
}

func (s *Session) onChange(fen string) {
	s.broadcast(NewMessage(MessageChange, changePayload{FEN: fen}))
	s.save()
}

func (s *Session) onMoveEnd(res authority.MoveResult) {
	s.broadcast(NewMessage(MessageMoveEnd, moveEndPayload{
		Move:    res.Move.String(),
		SAN:     res.SAN,
		FEN:     res.After,
		Outcome: s.board.Outcome(),
	}))
}

func (s *Session) broadcast(msg Message) {
	for c := range s.clients {
		s.sendTo(c, msg)
	}
}

func (s *Session) sendTo(c *Client, msg Message) {
	if c == nil {
		return
	}
	if _, ok := s.clients[c]; !ok {
		return
	}
	if err := c.sink.Send(msg); err != nil {
		s.log.Warn().Err(err).Msg("dropping client after failed write")
		delete(s.clients, c)
		s.idle = time.Now()
	}
}

func (s *Session) snapshot() snapshotPayload {
	visual := s.board.Visual()
	snap := snapshotPayload{
		ID:          s.id,
		FEN:         s.board.FEN(),
		Orientation: s.board.Orientation().String(),
		State:       s.board.State().String(),
		Pieces:      []occupantPayload{},
		Highlighted: squareNames(s.surface.Highlighted()),
		Selected:    squareNames(s.surface.Selected()),
		Hints:       squareNames(s.surface.Hints()),
	}
	for sq := board.Square(0); sq < board.NoSquare; sq++ {
		occ := visual[sq]
		if occ.Empty() {
			continue
		}
		snap.Pieces = append(snap.Pieces, occupantPayload{ID: occ.ID, Piece: occ.Piece.Code(), Square: sq.String()})
	}
	return snap
}

func (s *Session) save() {
	if s.opts.Storage == nil {
		return
	}
	snap := s.board.Snapshot()
	err := s.opts.Storage.SaveSession(storage.Session{
		ID:          s.id,
		Start:       snap.Start,
		Moves:       snap.Moves,
		FEN:         snap.FEN,
		Orientation: s.board.Orientation().String(),
	})
	if err != nil {
		s.log.Warn().Err(err).Msg("[Storage] failed to save session")
	}
}

// restore loads a saved session onto the board before the actor starts.
func (s *Session) restore(saved storage.Session) error {
	err := s.board.Restore(chessboard.Snapshot{Start: saved.Start, Moves: saved.Moves, FEN: saved.FEN})
	if saved.Orientation != "" && saved.Orientation != s.board.Orientation().String() {
		s.board.Flip()
	}
	return err
}
