package debug

import (
	"strings"
	"testing"
	"time"
)

func TestAddEntry(t *testing.T) {
	m := New()
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	m.now = func() time.Time { return at }

	m.Add(KindAuth, "status: authenticated")
	if len(m.Entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(m.Entries))
	}
	if m.Entries[0].Kind != KindAuth {
		t.Errorf("expected kind %q, got %q", KindAuth, m.Entries[0].Kind)
	}
	if !m.Entries[0].Time.Equal(at) {
		t.Errorf("expected time %s, got %s", at, m.Entries[0].Time)
	}
}

func TestAddf(t *testing.T) {
	m := New()
	m.Addf(KindConfig, "interval %s", 30*time.Second)
	if got := m.Entries[0].Message; got != "interval 30s" {
		t.Errorf("message = %q, want %q", got, "interval 30s")
	}
}

func TestMaxEntries(t *testing.T) {
	m := New()
	for i := 0; i < maxEntries+50; i++ {
		m.Addf(KindAuth, "msg %d", i)
	}
	if len(m.Entries) != maxEntries {
		t.Errorf("expected %d entries, got %d", maxEntries, len(m.Entries))
	}
	if got := m.Entries[0].Message; got != "msg 50" {
		t.Errorf("oldest kept entry = %q, want %q", got, "msg 50")
	}
}

func TestScroll(t *testing.T) {
	m := New()
	for i := 0; i < 20; i++ {
		m.Add(KindLifecycle, "msg")
	}

	steps := []struct {
		up, down int
		want     int
	}{
		{up: 5, want: 5},
		{down: 3, want: 2},
		{down: 10, want: 0},
		{up: 100, want: 19},
	}
	for _, s := range steps {
		if s.up > 0 {
			m.ScrollUp(s.up)
		}
		if s.down > 0 {
			m.ScrollDown(s.down)
		}
		if m.Offset != s.want {
			t.Errorf("after up=%d down=%d: offset %d, want %d", s.up, s.down, m.Offset, s.want)
		}
	}

	m.Add(KindLifecycle, "new")
	if m.Offset != 0 {
		t.Error("adding entry should reset scroll to 0")
	}
}

func TestViewEmpty(t *testing.T) {
	v := New().View(80, 20)
	if !strings.Contains(v, "No events") {
		t.Error("empty view should show 'No events' message")
	}
}

func TestViewWithEntries(t *testing.T) {
	m := New()
	m.Add(KindLifecycle, "background")
	m.Add(KindError, "refresh failed")
	v := m.View(80, 20)
	for _, want := range []string{"background", "refresh failed", "life", "err"} {
		if !strings.Contains(v, want) {
			t.Errorf("view should contain %q", want)
		}
	}
}
