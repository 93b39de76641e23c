// Package scope wires an auth client, a refresh scheduler and a lifecycle
// observer into one live snapshot stream owned by the host.
package scope

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/agent-racer/authsync/internal/client"
	"github.com/agent-racer/authsync/internal/lifecycle"
	"github.com/agent-racer/authsync/internal/refresh"
	"github.com/agent-racer/authsync/internal/session"
)

type options struct {
	interval       time.Duration
	refetchOnFocus bool
}

// Option configures a Scope.
type Option func(*options)

// WithInterval polls the auth client every d. Zero or negative disables
// polling, which is the default.
func WithInterval(d time.Duration) Option {
	return func(o *options) { o.interval = d }
}

// WithRefetchOnFocus controls the extra refresh fired whenever the
// application returns to the foreground. Enabled by default.
func WithRefetchOnFocus(on bool) Option {
	return func(o *options) { o.refetchOnFocus = on }
}

// Scope owns a synchronizer, scheduler and lifecycle observer for one auth
// client.
type Scope struct {
	sync      *session.Synchronizer
	scheduler *refresh.Scheduler
	observer  *lifecycle.Observer

	closeOnce sync.Once
	closed    atomic.Bool
}

// New builds a scope and starts it: the scheduler begins polling (if an
// interval is set) and the client's cache recovery is fired without waiting.
// Its result arrives through the client's event stream.
func New(c client.AuthClient, src lifecycle.Source, opts ...Option) (*Scope, error) {
	return newScope(c, src, func(fn func()) { go fn() }, opts...)
}

func newScope(c client.AuthClient, src lifecycle.Source, async func(func()), opts ...Option) (*Scope, error) {
	o := options{refetchOnFocus: true}
	for _, opt := range opts {
		opt(&o)
	}

	syncer := session.NewSynchronizer(c)
	sched := refresh.NewScheduler(c.Refresh, o.interval)

	obs, err := lifecycle.Observe(src, sched, lifecycle.Options{
		Refresh:        c.Refresh,
		RefetchOnFocus: o.refetchOnFocus,
	})
	if err != nil {
		syncer.Close()
		return nil, err
	}

	s := &Scope{
		sync:      syncer,
		scheduler: sched,
		observer:  obs,
	}

	sched.Start()
	async(func() { refresh.BestEffort("recover from cache", c.RecoverFromCache) })
	return s, nil
}

// Current returns the latest snapshot.
func (s *Scope) Current() session.Snapshot {
	return s.sync.Current()
}

// Subscribe registers fn for every subsequent snapshot.
func (s *Scope) Subscribe(fn func(session.Snapshot)) (cancel func()) {
	return s.sync.Subscribe(fn)
}

// Polling reports whether the refresh ticker is live.
func (s *Scope) Polling() bool {
	return s.scheduler.Running()
}

// Interval returns the polling interval.
func (s *Scope) Interval() time.Duration {
	return s.scheduler.Interval()
}

// Foreground reports whether the lifecycle observer sees the app as visible.
func (s *Scope) Foreground() bool {
	return s.observer.State() == lifecycle.Foreground
}

// SetInterval changes the polling interval. When polling was off and the
// application is visible, polling starts on the new interval.
func (s *Scope) SetInterval(d time.Duration) {
	if s.closed.Load() {
		return
	}
	s.scheduler.SetInterval(d)
	if s.Foreground() && !s.scheduler.Running() {
		s.scheduler.Start()
	}
}

// SetRefetchOnFocus toggles the focus-regain refresh.
func (s *Scope) SetRefetchOnFocus(on bool) {
	s.observer.SetRefetchOnFocus(on)
}

// Close releases the lifecycle registration, stops polling and detaches from
// the auth client. Later calls do nothing.
func (s *Scope) Close() {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		s.observer.Close()
		s.scheduler.Stop()
		s.sync.Close()
	})
}
