package reconcile

import (
	"time"

	"github.com/hailam/chessboard/internal/anim"
	"github.com/hailam/chessboard/internal/board"
	"github.com/hailam/chessboard/internal/surface"
	"github.com/rs/zerolog"
)

// Options selects how a batch of operations is played.
type Options struct {
	Animate    bool
	Sequential bool
}

// Timing holds the durations and styles operations are animated with.
type Timing struct {
	MoveDuration    time.Duration
	AppearDuration  time.Duration
	RemoveDuration  time.Duration
	SequentialDelay time.Duration
	Easing          anim.Easing
	CaptureEffect   anim.Effect
	RemoveEffect    anim.Effect
	AppearEffect    anim.Effect
}

// DefaultTiming returns the timing a board uses unless configured.
func DefaultTiming() Timing {
	return Timing{
		MoveDuration:    200 * time.Millisecond,
		AppearDuration:  200 * time.Millisecond,
		RemoveDuration:  150 * time.Millisecond,
		SequentialDelay: 50 * time.Millisecond,
		Easing:          anim.EaseInOut,
		CaptureEffect:   anim.EffectFadeOut,
		RemoveEffect:    anim.EffectFadeOut,
		AppearEffect:    anim.EffectFadeIn,
	}
}

// Handle is the live animation of one piece. At most one is live per piece;
// starting another cancels it.
type Handle struct {
	ID     uint64
	Target board.PieceID

	cancelled bool
	job       *job
}

// Cancelled reports whether a later operation superseded this one.
func (h *Handle) Cancelled() bool { return h.cancelled }

type jobState uint8

const (
	jobQueued jobState = iota
	jobRunning
	jobDone
)

type job struct {
	op    Operation
	b     *batch
	state jobState
	dur   time.Duration // overrides the timing default when non-zero
}

type batch struct {
	opts    Options
	jobs    []*job
	pending int
	future  *anim.Future
	timer   anim.Timer
}

// Coordinator plays operations on a surface and owns the visual placement.
// The placement reflects every operation handed to Apply as soon as Apply
// returns, so the next Diff always runs against the last requested state.
type Coordinator struct {
	surface surface.Surface
	clock   anim.Clock
	timing  Timing
	log     zerolog.Logger

	visual  board.Visual
	nextID  board.PieceID
	handles uint64
	live    map[board.PieceID]*Handle
	active  []*batch
	settled []*anim.Future
}

// NewCoordinator creates a coordinator for an empty surface.
func NewCoordinator(s surface.Surface, clock anim.Clock, timing Timing, log zerolog.Logger) *Coordinator {
	if timing.Easing == nil {
		timing.Easing = anim.Linear
	}
	return &Coordinator{
		surface: s,
		clock:   clock,
		timing:  timing,
		log:     log,
		visual:  board.EmptyVisual(),
		live:    make(map[board.PieceID]*Handle),
	}
}

// SetTiming replaces the timing for operations started from now on.
func (c *Coordinator) SetTiming(t Timing) {
	if t.Easing == nil {
		t.Easing = anim.Linear
	}
	c.timing = t
}

// Visual returns the visual placement.
func (c *Coordinator) Visual() board.Visual {
	return c.visual
}

// Busy reports whether any batch is still playing.
func (c *Coordinator) Busy() bool {
	return len(c.active) > 0
}

// Live returns the live handle of piece id.
func (c *Coordinator) Live(id board.PieceID) (*Handle, bool) {
	h, ok := c.live[id]
	return h, ok
}

// Apply plays ops and returns a future settled once all of them completed
// or were superseded. Inserted pieces are given fresh identities.
func (c *Coordinator) Apply(ops []Operation, opts Options) *anim.Future {
	if len(ops) == 0 {
		return anim.Resolved()
	}
	ops = append([]Operation(nil), ops...)
	for i := range ops {
		if ops[i].Op == OpInsert {
			c.nextID++
			ops[i].ID = c.nextID
		}
	}
	jobs := make([]*job, len(ops))
	for i, op := range ops {
		jobs[i] = &job{op: op}
	}
	return c.run(jobs, opts)
}

// Snapback returns piece id to sq, superseding whatever it was doing. The
// visual placement is not changed: the piece never left sq logically.
func (c *Coordinator) Snapback(id board.PieceID, sq board.Square, d time.Duration) *anim.Future {
	n, ok := c.surface.Node(id)
	if !ok {
		c.unavailable(id, sq)
		return anim.Resolved()
	}
	op := Translate(id, n.Piece(), sq, sq)
	return c.run([]*job{{op: op, dur: d}}, Options{Animate: d > 0})
}

func (c *Coordinator) run(jobs []*job, opts Options) *anim.Future {
	before := c.visual
	c.supersede(jobs, before)

	b := &batch{opts: opts, jobs: jobs, pending: len(jobs), future: anim.NewFuture()}
	for _, j := range jobs {
		j.b = b
		ApplyTo(&c.visual, j.op)
	}
	c.active = append(c.active, b)

	c.log.Debug().
		Int("ops", len(jobs)).
		Bool("animate", opts.Animate).
		Bool("sequential", opts.Sequential).
		Msg("applying operations")

	switch {
	case !opts.Animate:
		for _, j := range jobs {
			c.instant(j)
		}
	case opts.Sequential:
		c.startNext(b)
	default:
		for _, j := range jobs {
			if j.state == jobQueued && !b.running(j.op.ID) {
				c.start(j)
			}
		}
	}

	f := b.future
	c.drain()
	return f
}

func (b *batch) running(id board.PieceID) bool {
	for _, j := range b.jobs {
		if j.op.ID == id && j.state == jobRunning {
			return true
		}
	}
	return false
}

// supersede cancels whatever older batches still have in store for the
// pieces jobs touch. Dropped operations keep their lasting effects: a
// queued promotion still changes the piece, a queued removal still
// destroys it.
func (c *Coordinator) supersede(jobs []*job, before board.Visual) {
	seen := make(map[board.PieceID]bool)
	for _, nj := range jobs {
		id := nj.op.ID
		if nj.op.Op == OpInsert || seen[id] {
			continue
		}
		seen[id] = true

		superseded := false
		for _, b := range c.active {
			for _, j := range b.jobs {
				if j.op.ID != id || j.state != jobQueued {
					continue
				}
				c.fastForward(j.op)
				c.complete(j, false)
				superseded = true
			}
		}

		if h, ok := c.live[id]; ok {
			h.cancelled = true
			delete(c.live, id)
			if n, ok := c.surface.Node(id); ok {
				n.Stop()
				if h.job.op.Op == OpRemove {
					n.Destroy()
				}
			}
			c.log.Debug().Stringer("id", id).Uint64("handle", h.ID).Msg("animation superseded")
			c.complete(h.job, false)
			superseded = true
		}

		if superseded && nj.op.Op != OpTranslate {
			if sq := before.Find(id); sq != board.NoSquare {
				if n, ok := c.surface.Node(id); ok {
					n.Place(sq)
				}
			}
		}
	}
}

func (c *Coordinator) fastForward(op Operation) {
	switch op.Op {
	case OpInsert:
		c.surface.Put(op.To, op.ID, op.Piece)
	case OpRemove:
		if n, ok := c.surface.Node(op.ID); ok {
			n.Destroy()
		}
	case OpPromote:
		if n, ok := c.surface.Node(op.ID); ok {
			n.SetPiece(op.Piece)
		}
	}
}

func (c *Coordinator) startNext(b *batch) {
	for _, j := range b.jobs {
		if j.state == jobQueued {
			c.start(j)
			return
		}
	}
}

func (c *Coordinator) node(j *job) (surface.Node, bool) {
	n, ok := c.surface.Node(j.op.ID)
	if !ok || n.Destroyed() {
		sq := j.op.From
		if !sq.IsValid() {
			sq = j.op.To
		}
		c.unavailable(j.op.ID, sq)
		return nil, false
	}
	return n, true
}

func (c *Coordinator) unavailable(id board.PieceID, sq board.Square) {
	c.log.Warn().
		Err(board.SurfaceUnavailable(id, sq)).
		Stringer("id", id).
		Stringer("square", sq).
		Msg("node missing, operation counted complete")
}

func (c *Coordinator) start(j *job) {
	j.state = jobRunning
	op := j.op

	if op.Op == OpInsert {
		n := c.surface.Put(op.To, op.ID, op.Piece)
		if c.timing.AppearEffect == anim.EffectNone || c.timing.AppearDuration <= 0 {
			c.complete(j, true)
			return
		}
		c.play(j, func(done func()) error {
			return n.Animate(c.timing.AppearEffect, c.timing.AppearDuration, done)
		})
		return
	}

	n, ok := c.node(j)
	if !ok {
		c.complete(j, true)
		return
	}

	switch op.Op {
	case OpTranslate:
		d := c.timing.MoveDuration
		if j.dur > 0 {
			d = j.dur
		}
		c.play(j, func(done func()) error {
			return n.Translate(op.To, d, c.timing.Easing, done)
		})

	case OpRemove:
		effect := c.timing.RemoveEffect
		if op.Capture {
			effect = c.timing.CaptureEffect
		}
		if effect == anim.EffectNone || c.timing.RemoveDuration <= 0 {
			n.Destroy()
			c.complete(j, true)
			return
		}
		c.play(j, func(done func()) error {
			return n.Animate(effect, c.timing.RemoveDuration, func() {
				n.Destroy()
				done()
			})
		})

	case OpPromote:
		if err := n.SetPiece(op.Piece); err != nil {
			c.unavailable(op.ID, op.To)
		}
		c.complete(j, true)
	}
}

// play starts a timed operation under a new handle.
func (c *Coordinator) play(j *job, begin func(done func()) error) {
	c.handles++
	h := &Handle{ID: c.handles, Target: j.op.ID, job: j}
	c.live[j.op.ID] = h

	if err := begin(func() { c.finish(h) }); err != nil {
		delete(c.live, j.op.ID)
		c.unavailable(j.op.ID, j.op.To)
		c.complete(j, true)
	}
}

func (c *Coordinator) finish(h *Handle) {
	if h.cancelled {
		return
	}
	if c.live[h.Target] == h {
		delete(c.live, h.Target)
	}
	c.complete(h.job, true)
	c.drain()
}

// instant performs an operation without animation.
func (c *Coordinator) instant(j *job) {
	j.state = jobRunning
	op := j.op
	if op.Op == OpInsert {
		c.surface.Put(op.To, op.ID, op.Piece)
		c.complete(j, true)
		return
	}
	if n, ok := c.node(j); ok {
		switch op.Op {
		case OpTranslate:
			n.Place(op.To)
		case OpRemove:
			n.Destroy()
		case OpPromote:
			n.SetPiece(op.Piece)
		}
	}
	c.complete(j, true)
}

// complete marks j done. Successors start only when j ran to completion;
// a superseded job's successors are dropped by the same supersession.
func (c *Coordinator) complete(j *job, ran bool) {
	if j.state == jobDone {
		return
	}
	wasRunning := j.state == jobRunning
	j.state = jobDone
	b := j.b
	b.pending--

	if b.pending == 0 {
		c.finishBatch(b)
		return
	}
	if !b.opts.Animate || (!ran && !wasRunning) {
		return
	}

	if b.opts.Sequential {
		if !wasRunning || b.timer != nil {
			return
		}
		if c.timing.SequentialDelay <= 0 {
			c.startNext(b)
			return
		}
		b.timer = c.clock.AfterFunc(c.timing.SequentialDelay, func() {
			b.timer = nil
			c.startNext(b)
			c.drain()
		})
		return
	}

	if !ran {
		return
	}
	for _, next := range b.jobs {
		if next.op.ID == j.op.ID && next.state == jobQueued {
			c.start(next)
			return
		}
	}
}

func (c *Coordinator) finishBatch(b *batch) {
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	for i, x := range c.active {
		if x == b {
			c.active = append(c.active[:i], c.active[i+1:]...)
			break
		}
	}
	c.settled = append(c.settled, b.future)
}

// drain resolves settled futures once the coordinator is consistent, so
// callbacks may call back into it.
func (c *Coordinator) drain() {
	for len(c.settled) > 0 {
		f := c.settled[0]
		c.settled = c.settled[1:]
		f.Resolve()
	}
}
