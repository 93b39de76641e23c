package app

import (
	"sync"

	"github.com/agent-racer/authsync/internal/session"
	tea "github.com/charmbracelet/bubbletea"
)

// Subscriber is anything that publishes snapshots.
type Subscriber interface {
	Subscribe(fn func(session.Snapshot)) (cancel func())
}

// Feed hands snapshots to the Bubble Tea program. Publishers never block:
// only the newest unread snapshot is kept.
type Feed struct {
	mu     sync.Mutex
	latest session.Snapshot

	ready  chan struct{}
	done   chan struct{}
	cancel func()
	once   sync.Once
}

// NewFeed subscribes to src.
func NewFeed(src Subscriber) *Feed {
	f := &Feed{
		ready: make(chan struct{}, 1),
		done:  make(chan struct{}),
	}
	f.cancel = src.Subscribe(f.push)
	return f
}

func (f *Feed) push(s session.Snapshot) {
	f.mu.Lock()
	f.latest = s
	f.mu.Unlock()

	select {
	case f.ready <- struct{}{}:
	default:
	}
}

// Next waits for the next snapshot. It must be re-issued after every
// SnapshotMsg. After Close it yields nil.
func (f *Feed) Next() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-f.done:
			return nil
		default:
		}
		select {
		case <-f.ready:
		case <-f.done:
			return nil
		}
		f.mu.Lock()
		defer f.mu.Unlock()
		return SnapshotMsg{Snapshot: f.latest}
	}
}

// Close unsubscribes and releases any pending Next.
func (f *Feed) Close() {
	f.once.Do(func() {
		f.cancel()
		close(f.done)
	})
}
