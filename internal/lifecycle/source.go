package lifecycle

import (
	"errors"
	"sync"
)

// ErrClosed is returned when observing a closed source.
var ErrClosed = errors.New("lifecycle source closed")

// Source delivers host visibility signals. Observe registers fn and returns
// a func that stops delivery.
type Source interface {
	Observe(fn func(Signal)) (stop func(), err error)
}

// Manual is a Source driven by explicit Emit calls. The terminal host feeds
// it from focus and suspend messages.
type Manual struct {
	mu     sync.Mutex
	subs   map[int]func(Signal)
	order  []int
	nextID int
	closed bool
}

// NewManual creates an open manual source.
func NewManual() *Manual {
	return &Manual{subs: make(map[int]func(Signal))}
}

// Observe implements Source.
func (m *Manual) Observe(fn func(Signal)) (func(), error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, ErrClosed
	}
	id := m.nextID
	m.nextID++
	m.subs[id] = fn
	m.order = append(m.order, id)
	return func() { m.remove(id) }, nil
}

func (m *Manual) remove(id int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.subs[id]; !ok {
		return
	}
	delete(m.subs, id)
	for i, v := range m.order {
		if v == id {
			m.order = append(m.order[:i:i], m.order[i+1:]...)
			break
		}
	}
}

// Emit delivers sig to every observer in registration order.
func (m *Manual) Emit(sig Signal) {
	m.mu.Lock()
	fns := make([]func(Signal), 0, len(m.order))
	for _, id := range m.order {
		fns = append(fns, m.subs[id])
	}
	m.mu.Unlock()

	for _, fn := range fns {
		fn(sig)
	}
}

// Observers returns the number of registered observers.
func (m *Manual) Observers() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.subs)
}

// Close drops all observers and rejects new ones.
func (m *Manual) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.subs = make(map[int]func(Signal))
	m.order = nil
}
