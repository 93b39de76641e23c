package lifecycle

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/agent-racer/authsync/internal/refresh"
)

// Scheduler is the part of refresh.Scheduler the observer drives.
type Scheduler interface {
	Start()
	Stop()
	SetForeground(bool)
}

// Handle owns one registration with a Source. Its closed state is its own;
// closing it a second time does nothing.
type Handle struct {
	stop   func()
	once   sync.Once
	closed atomic.Bool
}

func newHandle(stop func()) *Handle {
	return &Handle{stop: stop}
}

// Close unregisters from the source once.
func (h *Handle) Close() {
	h.once.Do(func() {
		h.closed.Store(true)
		if h.stop != nil {
			h.stop()
		}
	})
}

// Closed reports whether Close has run.
func (h *Handle) Closed() bool {
	return h.closed.Load()
}

// Options configure an Observer.
type Options struct {
	// Refresh is fired once, without waiting, on every return to the
	// foreground when RefetchOnFocus is set.
	Refresh        refresh.Func
	RefetchOnFocus bool
}

// Observer moves the scheduler between foreground and background.
type Observer struct {
	sched   Scheduler
	refresh refresh.Func
	handle  *Handle

	mu             sync.Mutex
	state          State
	refetchOnFocus bool

	// async runs fire-and-forget work; tests replace it.
	async func(func())
}

// Observe registers a new observer with src. The application is assumed to
// be in the foreground.
func Observe(src Source, sched Scheduler, opts Options) (*Observer, error) {
	o := &Observer{
		sched:          sched,
		refresh:        opts.Refresh,
		state:          Foreground,
		refetchOnFocus: opts.RefetchOnFocus,
		async:          func(fn func()) { go fn() },
	}

	// Signals delivered before the handle is stored wait on o.mu.
	o.mu.Lock()
	defer o.mu.Unlock()
	stop, err := src.Observe(o.Handle)
	if err != nil {
		return nil, fmt.Errorf("observe lifecycle: %w", err)
	}
	o.handle = newHandle(stop)
	return o, nil
}

// Handle applies one signal. Signals that do not change state are ignored,
// as is everything after Close.
func (o *Observer) Handle(sig Signal) {
	next, ok := Classify(sig)
	if !ok {
		return
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.handle.Closed() {
		return
	}
	if next == o.state {
		return
	}
	o.state = next

	switch next {
	case Background:
		o.sched.SetForeground(false)
		o.sched.Stop()
	case Foreground:
		o.sched.SetForeground(true)
		o.sched.Start()
		if o.refetchOnFocus && o.refresh != nil {
			fn := o.refresh
			o.async(func() { refresh.BestEffort("focus refetch", fn) })
		}
	}
}

// State returns the current visibility state.
func (o *Observer) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// SetRefetchOnFocus toggles the focus-regain refresh.
func (o *Observer) SetRefetchOnFocus(on bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.refetchOnFocus = on
}

// Close unregisters from the source and stops the scheduler. It is safe to
// call more than once.
func (o *Observer) Close() {
	o.handle.Close()

	o.mu.Lock()
	defer o.mu.Unlock()
	o.sched.Stop()
}
