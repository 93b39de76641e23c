package app

import (
	"testing"
	"time"

	"github.com/agent-racer/authsync/internal/client"
	"github.com/agent-racer/authsync/internal/session"
)

// manualSubscriber hands the feed's callback to the test.
type manualSubscriber struct {
	fn        func(session.Snapshot)
	cancelled int
}

func (s *manualSubscriber) Subscribe(fn func(session.Snapshot)) func() {
	s.fn = fn
	return func() { s.cancelled++ }
}

func TestFeedKeepsLatest(t *testing.T) {
	src := &manualSubscriber{}
	f := NewFeed(src)
	defer f.Close()

	for _, st := range []client.Status{client.StatusLoading, client.StatusUnauthenticated, client.StatusAuthenticated} {
		src.fn(session.NewSnapshot(nil, st))
	}

	msg, ok := f.Next()().(SnapshotMsg)
	if !ok {
		t.Fatal("Next() did not yield a SnapshotMsg")
	}
	if got := msg.Snapshot.Status(); got != client.StatusAuthenticated {
		t.Errorf("Status() = %s, want authenticated", got)
	}
}

func TestFeedNextWaits(t *testing.T) {
	src := &manualSubscriber{}
	f := NewFeed(src)
	defer f.Close()

	got := make(chan any, 1)
	go func() { got <- f.Next()() }()

	select {
	case <-got:
		t.Fatal("Next() returned before anything was published")
	case <-time.After(20 * time.Millisecond):
	}

	src.fn(session.NewSnapshot(client.Session{"id": "u1"}, client.StatusAuthenticated))
	select {
	case msg := <-got:
		if snap := msg.(SnapshotMsg).Snapshot; snap.Session().ID() != "u1" {
			t.Errorf("session id = %q, want u1", snap.Session().ID())
		}
	case <-time.After(time.Second):
		t.Fatal("Next() never returned")
	}
}

func TestFeedClose(t *testing.T) {
	src := &manualSubscriber{}
	f := NewFeed(src)

	got := make(chan any, 1)
	go func() { got <- f.Next()() }()

	f.Close()
	f.Close()

	select {
	case msg := <-got:
		if msg != nil {
			t.Errorf("Next() after Close = %v, want nil", msg)
		}
	case <-time.After(time.Second):
		t.Fatal("Close did not release Next()")
	}
	if src.cancelled != 1 {
		t.Errorf("unsubscribed %d times, want 1", src.cancelled)
	}

	src.fn(session.NewSnapshot(nil, client.StatusLoading))
	if msg := f.Next()(); msg != nil {
		t.Errorf("Next() after Close = %v, want nil", msg)
	}
}
