package anim

import (
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestFrameClockOrder(t *testing.T) {
	c := NewFrameClock(epoch)
	var got []string

	c.AfterFunc(30*time.Millisecond, func() { got = append(got, "c") })
	c.AfterFunc(10*time.Millisecond, func() { got = append(got, "a") })
	c.AfterFunc(10*time.Millisecond, func() { got = append(got, "b") })
	stopped := c.AfterFunc(20*time.Millisecond, func() { got = append(got, "stopped") })

	if !stopped.Stop() {
		t.Error("Stop on pending timer returned false")
	}
	if stopped.Stop() {
		t.Error("second Stop returned true")
	}

	c.Step(15 * time.Millisecond)
	if diff := cmp.Diff([]string{"a", "b"}, got); diff != "" {
		t.Errorf("after 15ms (-want +got):\n%s", diff)
	}
	c.Step(15 * time.Millisecond)
	if diff := cmp.Diff([]string{"a", "b", "c"}, got); diff != "" {
		t.Errorf("after 30ms (-want +got):\n%s", diff)
	}
	if c.Pending() != 0 {
		t.Errorf("Pending() = %d", c.Pending())
	}
}

func TestFrameClockNestedTimers(t *testing.T) {
	c := NewFrameClock(epoch)
	var at []time.Duration

	c.AfterFunc(10*time.Millisecond, func() {
		at = append(at, c.Now().Sub(epoch))
		c.AfterFunc(10*time.Millisecond, func() {
			at = append(at, c.Now().Sub(epoch))
		})
	})

	// One large step fires both, each at its own deadline.
	c.Step(time.Second)
	want := []time.Duration{10 * time.Millisecond, 20 * time.Millisecond}
	if diff := cmp.Diff(want, at); diff != "" {
		t.Errorf("deadlines (-want +got):\n%s", diff)
	}
	if c.Now() != epoch.Add(time.Second) {
		t.Errorf("Now() = %v", c.Now())
	}
}

func TestEasing(t *testing.T) {
	for _, name := range EasingNames {
		e, ok := ParseEasing(name)
		if !ok {
			t.Fatalf("ParseEasing(%q) failed", name)
		}
		if e(0) != 0 || math.Abs(e(1)-1) > 1e-9 {
			t.Errorf("%s: e(0)=%v e(1)=%v", name, e(0), e(1))
		}
		prev := 0.0
		for i := 1; i <= 10; i++ {
			v := e(float64(i) / 10)
			if v < prev {
				t.Errorf("%s not monotonic at %d", name, i)
			}
			prev = v
		}
	}
	if _, ok := ParseEasing("bounce"); ok {
		t.Error("ParseEasing accepted unknown name")
	}
	if e, ok := ParseEasing("EASEOUT"); !ok || e(0.5) != EaseOut(0.5) {
		t.Error("ParseEasing is not case-insensitive")
	}
}

func TestProgress(t *testing.T) {
	tests := []struct {
		elapsed time.Duration
		d       time.Duration
		want    float64
	}{
		{0, 100 * time.Millisecond, 0},
		{50 * time.Millisecond, 100 * time.Millisecond, 0.5},
		{200 * time.Millisecond, 100 * time.Millisecond, 1},
		{-time.Second, 100 * time.Millisecond, 0},
		{0, 0, 1},
	}
	for _, tc := range tests {
		if got := Progress(epoch, epoch.Add(tc.elapsed), tc.d); math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("Progress(%v of %v) = %v, want %v", tc.elapsed, tc.d, got, tc.want)
		}
	}
}

func TestEffects(t *testing.T) {
	if EffectFadeOut.Opacity(0.25) != 0.75 || EffectFadeIn.Opacity(0.25) != 0.25 {
		t.Error("fade opacity wrong")
	}
	if EffectShrink.Scale(1) != 0 || EffectGrow.Scale(1) != 1 || EffectNone.Scale(0.3) != 1 {
		t.Error("scale wrong")
	}
	if EffectShake.Offset(1) != 0 || EffectFadeOut.Offset(0.3) != 0 {
		t.Error("offset outside shake")
	}
	if EffectShake.Offset(0.02) == 0 {
		t.Error("shake has no offset mid-effect")
	}
	for _, e := range []Effect{EffectNone, EffectFadeOut, EffectShrink, EffectFadeIn, EffectGrow, EffectShake} {
		got, ok := ParseEffect(e.String())
		if !ok || got != e {
			t.Errorf("ParseEffect(%q) = %v, %v", e.String(), got, ok)
		}
	}
}

func TestFuture(t *testing.T) {
	f := NewFuture()
	var calls []int
	f.Then(func() { calls = append(calls, 1) })
	f.Then(func() { calls = append(calls, 2) })

	select {
	case <-f.Done():
		t.Fatal("Done closed before Resolve")
	default:
	}

	f.Resolve()
	f.Resolve()
	f.Then(func() { calls = append(calls, 3) })

	if !f.Settled() {
		t.Error("not settled")
	}
	<-f.Done()
	if diff := cmp.Diff([]int{1, 2, 3}, calls); diff != "" {
		t.Errorf("callbacks (-want +got):\n%s", diff)
	}
}

func TestAll(t *testing.T) {
	a, b := NewFuture(), NewFuture()
	all := All(a, b)

	a.Resolve()
	if all.Settled() {
		t.Fatal("All settled with one pending")
	}
	b.Resolve()
	if !all.Settled() {
		t.Fatal("All not settled")
	}
	if !All().Settled() {
		t.Error("All() of nothing is not settled")
	}
}
