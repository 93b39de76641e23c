package client

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

const defaultSessionTTL = 30 * time.Minute

// ErrSignedOut is returned by Refresh when there is no session to refresh.
var ErrSignedOut = errors.New("no active session")

// Memory is an in-process AuthClient. It holds its state in memory, emits
// events synchronously on the calling goroutine and serialises emission so
// subscribers observe events in the order they were produced.
type Memory struct {
	mu      sync.Mutex // protects the fields below
	session Session
	status  Status
	cached  Session
	subs    []subscriber
	nextSub int

	refreshErr error
	latency    time.Duration
	ttl        time.Duration
	now        func() time.Time

	emitMu sync.Mutex // serialises state change + delivery
}

type subscriber struct {
	id int
	fn func(Event)
}

// MemoryOption configures a Memory client.
type MemoryOption func(*Memory)

// WithSession seeds the client as already signed in.
func WithSession(s Session) MemoryOption {
	return func(m *Memory) {
		m.session = s.Clone()
		m.status = StatusAuthenticated
	}
}

// WithStatus seeds the client's status.
func WithStatus(st Status) MemoryOption {
	return func(m *Memory) { m.status = st }
}

// WithCachedSession sets the session RecoverFromCache restores.
func WithCachedSession(s Session) MemoryOption {
	return func(m *Memory) { m.cached = s.Clone() }
}

// WithLatency delays Refresh, SignIn and RecoverFromCache.
func WithLatency(d time.Duration) MemoryOption {
	return func(m *Memory) { m.latency = d }
}

// WithSessionTTL sets how far each refresh pushes the session's expiry.
func WithSessionTTL(d time.Duration) MemoryOption {
	return func(m *Memory) { m.ttl = d }
}

// NewMemory creates an in-memory auth client.
func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{ttl: defaultSessionTTL, now: time.Now}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Session implements AuthClient.
func (m *Memory) Session() Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session.Clone()
}

// Status implements AuthClient.
func (m *Memory) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// Subscribe implements AuthClient.
func (m *Memory) Subscribe(fn func(Event)) func() {
	m.mu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs = append(m.subs, subscriber{id: id, fn: fn})
	m.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			for i, s := range m.subs {
				if s.id == id {
					m.subs = append(m.subs[:i:i], m.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// Subscribers returns the number of registered subscribers.
func (m *Memory) Subscribers() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.subs)
}

// SetRefreshError makes subsequent refreshes fail with err. Pass nil to
// restore normal behaviour.
func (m *Memory) SetRefreshError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refreshErr = err
}

// Refresh implements AuthClient. It extends the session's expiry and emits
// SessionChanged.
func (m *Memory) Refresh(ctx context.Context) error {
	if err := m.wait(ctx); err != nil {
		return err
	}

	m.emitMu.Lock()
	defer m.emitMu.Unlock()

	m.mu.Lock()
	if m.refreshErr != nil {
		err := m.refreshErr
		m.mu.Unlock()
		return err
	}
	if m.session == nil {
		m.mu.Unlock()
		return ErrSignedOut
	}
	next := m.session.Clone()
	next["expires"] = m.now().Add(m.ttl).UTC().Format(time.RFC3339)
	m.session = next
	m.mu.Unlock()

	m.emit(SessionChanged{Session: next.Clone()})
	return nil
}

// RecoverFromCache implements AuthClient. It moves through Loading and ends
// Authenticated when a cached or current session exists, Unauthenticated
// otherwise.
func (m *Memory) RecoverFromCache(ctx context.Context) error {
	m.setStatus(StatusLoading)

	if err := m.wait(ctx); err != nil {
		m.setStatus(StatusUnauthenticated)
		return err
	}

	m.emitMu.Lock()
	defer m.emitMu.Unlock()

	m.mu.Lock()
	cached := m.cached.Clone()
	if cached == nil {
		cached = m.session.Clone()
	}
	m.mu.Unlock()

	if cached == nil {
		m.setStatusLocked(StatusUnauthenticated)
		return nil
	}
	m.setSessionLocked(cached)
	m.setStatusLocked(StatusAuthenticated)
	return nil
}

// SignIn creates a session for user and caches it.
func (m *Memory) SignIn(ctx context.Context, user string) error {
	m.setStatus(StatusLoading)

	if err := m.wait(ctx); err != nil {
		m.setStatus(StatusUnauthenticated)
		return err
	}

	s := Session{
		"id":      uuid.NewString(),
		"name":    user,
		"expires": m.now().Add(m.ttl).UTC().Format(time.RFC3339),
	}

	m.emitMu.Lock()
	defer m.emitMu.Unlock()

	m.mu.Lock()
	m.cached = s.Clone()
	m.mu.Unlock()

	m.setSessionLocked(s)
	m.setStatusLocked(StatusAuthenticated)
	log.Printf("memory client: signed in %s", user)
	return nil
}

// SignOut drops the session and the cache.
func (m *Memory) SignOut(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.emitMu.Lock()
	defer m.emitMu.Unlock()

	m.mu.Lock()
	m.cached = nil
	m.mu.Unlock()

	m.setSessionLocked(nil)
	m.setStatusLocked(StatusUnauthenticated)
	return nil
}

func (m *Memory) setStatus(st Status) {
	m.emitMu.Lock()
	defer m.emitMu.Unlock()
	m.setStatusLocked(st)
}

// setStatusLocked updates the status and emits. Caller must hold m.emitMu.
func (m *Memory) setStatusLocked(st Status) {
	m.mu.Lock()
	m.status = st
	m.mu.Unlock()
	m.emit(StatusChanged{Status: st})
}

// setSessionLocked updates the session and emits. Caller must hold m.emitMu.
func (m *Memory) setSessionLocked(s Session) {
	m.mu.Lock()
	m.session = s.Clone()
	m.mu.Unlock()
	m.emit(SessionChanged{Session: s.Clone()})
}

// emit delivers ev to a copy of the subscriber list. Caller must hold
// m.emitMu and must not hold m.mu.
func (m *Memory) emit(ev Event) {
	m.mu.Lock()
	subs := make([]subscriber, len(m.subs))
	copy(subs, m.subs)
	m.mu.Unlock()

	for _, s := range subs {
		s.fn(ev)
	}
}

func (m *Memory) wait(ctx context.Context) error {
	m.mu.Lock()
	d := m.latency
	m.mu.Unlock()
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
