package session

import (
	"log"
	"sync"

	"github.com/agent-racer/authsync/internal/client"
)

// Synchronizer mirrors an AuthClient's session and status as a stream of
// snapshots. Each event replaces exactly one field of the current snapshot
// and every observer is notified, in subscription order, before the next
// event is processed.
type Synchronizer struct {
	deliverMu sync.Mutex // serialises event handling and observer delivery

	mu          sync.Mutex // protects the fields below
	current     Snapshot
	observers   []observer
	nextID      int
	closed      bool
	unsubscribe func()
}

type observer struct {
	id int
	fn func(Snapshot)
}

// NewSynchronizer subscribes to c and seeds the current snapshot with c's
// present session and status, so late subscribers never see a stale default.
func NewSynchronizer(c client.AuthClient) *Synchronizer {
	s := &Synchronizer{}

	// Hold mu across subscribe + capture so an event racing with construction
	// is applied on top of the captured values, never underneath them.
	s.mu.Lock()
	s.unsubscribe = c.Subscribe(s.handle)
	s.current = NewSnapshot(c.Session(), c.Status())
	s.mu.Unlock()

	return s
}

// Current returns the latest snapshot.
func (s *Synchronizer) Current() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Subscribe registers fn for every subsequent snapshot. fn runs on the
// goroutine that delivered the auth event and must not emit auth events
// itself. The returned func removes fn and may be called more than once.
func (s *Synchronizer) Subscribe(fn func(Snapshot)) (cancel func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	if !s.closed {
		s.observers = append(s.observers, observer{id: id, fn: fn})
	}
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { s.removeObserver(id) })
	}
}

func (s *Synchronizer) removeObserver(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, o := range s.observers {
		if o.id == id {
			s.observers = append(s.observers[:i:i], s.observers[i+1:]...)
			return
		}
	}
}

// Close cancels the auth client subscription and drops all observers.
// Events that arrive afterwards are ignored. Calling Close again is a no-op.
func (s *Synchronizer) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.observers = nil
	unsubscribe := s.unsubscribe
	s.unsubscribe = nil
	s.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}

// Closed reports whether Close has been called.
func (s *Synchronizer) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Synchronizer) handle(ev client.Event) {
	s.deliverMu.Lock()
	defer s.deliverMu.Unlock()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	next, ok := apply(s.current, ev)
	if !ok {
		s.mu.Unlock()
		log.Printf("session: ignoring unknown auth event %T", ev)
		return
	}
	s.current = next
	observers := make([]observer, len(s.observers))
	copy(observers, s.observers)
	s.mu.Unlock()

	for _, o := range observers {
		if s.Closed() {
			return
		}
		o.fn(next)
	}
}

// apply maps an event onto the snapshot it produces.
func apply(cur Snapshot, ev client.Event) (Snapshot, bool) {
	switch ev := ev.(type) {
	case client.SessionChanged:
		return cur.CopyWith(Set(ev.Session), Keep[client.Status]()), true
	case client.StatusChanged:
		return cur.CopyWith(Keep[client.Session](), Set(ev.Status)), true
	default:
		return cur, false
	}
}
