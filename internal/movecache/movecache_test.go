package movecache

import (
	"testing"
	"time"

	"github.com/hailam/chessboard/internal/board"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) now() time.Time { return f.t }

func countingSource(calls *int, targets board.SquareSet) Source {
	return func(board.Square) board.SquareSet {
		*calls++
		return targets
	}
}

func TestCacheHitAndMiss(t *testing.T) {
	clk := &fakeClock{t: time.Unix(1000, 0)}
	c, err := New(WithClock(clk.now))
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	calls := 0
	want := board.NewSquareSet(board.E3, board.E4)
	src := countingSource(&calls, want)

	if got := c.LegalTargets(board.E2, board.StartFEN, src); got != want {
		t.Errorf("first lookup = %v, want %v", got, want)
	}
	if got := c.LegalTargets(board.E2, board.StartFEN, src); got != want {
		t.Errorf("second lookup = %v, want %v", got, want)
	}
	if calls != 1 {
		t.Errorf("source called %d times, want 1", calls)
	}
	if hits, misses := c.Stats(); hits != 1 || misses != 1 {
		t.Errorf("Stats() = %d,%d want 1,1", hits, misses)
	}
	if c.HitRate() != 50 {
		t.Errorf("HitRate() = %.1f, want 50", c.HitRate())
	}
}

func TestCacheExpires(t *testing.T) {
	clk := &fakeClock{t: time.Unix(1000, 0)}
	c, err := New(WithClock(clk.now), WithTTL(time.Second))
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	calls := 0
	src := countingSource(&calls, board.NewSquareSet(board.F3, board.H3))

	c.LegalTargets(board.G1, board.StartFEN, src)
	clk.t = clk.t.Add(500 * time.Millisecond)
	c.LegalTargets(board.G1, board.StartFEN, src)
	if calls != 1 {
		t.Fatalf("source called %d times before expiry, want 1", calls)
	}

	clk.t = clk.t.Add(time.Second)
	c.LegalTargets(board.G1, board.StartFEN, src)
	if calls != 2 {
		t.Errorf("source called %d times after expiry, want 2", calls)
	}
}

func TestCacheKeyedByFingerprint(t *testing.T) {
	c, err := New()
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	calls := 0
	src := countingSource(&calls, board.NewSquareSet(board.E4))

	c.Invalidate(board.StartFEN)
	c.LegalTargets(board.E2, board.StartFEN, src)

	next := "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1"
	c.Invalidate(next)
	c.LegalTargets(board.E2, next, src)
	if calls != 2 {
		t.Errorf("source called %d times across fingerprints, want 2", calls)
	}

	// Same fingerprint again is not a write.
	c.Invalidate(next)
	c.LegalTargets(board.E2, next, src)
	if calls != 2 {
		t.Errorf("source called %d times after no-op invalidate, want 2", calls)
	}
}

func TestNilSource(t *testing.T) {
	c, err := New()
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	if got := c.LegalTargets(board.E2, "x", nil); !got.Empty() {
		t.Errorf("nil source returned %v", got)
	}
}
