package anim

// Future is the completion of a batch of visual work. It is settled at most
// once. Then callbacks run on the goroutine that settles it.
type Future struct {
	done    chan struct{}
	settled bool
	then    []func()
}

// NewFuture returns an unsettled future.
func NewFuture() *Future {
	return &Future{done: make(chan struct{})}
}

// Resolved returns a future that is already settled.
func Resolved() *Future {
	f := NewFuture()
	f.Resolve()
	return f
}

// Resolve settles the future and runs its callbacks in registration order.
// Later calls do nothing.
func (f *Future) Resolve() {
	if f.settled {
		return
	}
	f.settled = true
	close(f.done)
	then := f.then
	f.then = nil
	for _, fn := range then {
		fn()
	}
}

// Settled reports whether the future has been resolved.
func (f *Future) Settled() bool {
	return f.settled
}

// Done returns a channel closed on settlement.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Then runs fn once the future settles, immediately if it already has.
func (f *Future) Then(fn func()) *Future {
	if f.settled {
		fn()
		return f
	}
	f.then = append(f.then, fn)
	return f
}

// All settles once every one of fs has.
func All(fs ...*Future) *Future {
	out := NewFuture()
	remaining := len(fs)
	if remaining == 0 {
		out.Resolve()
		return out
	}
	for _, f := range fs {
		f.Then(func() {
			remaining--
			if remaining == 0 {
				out.Resolve()
			}
		})
	}
	return out
}
