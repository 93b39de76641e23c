// Package debug provides the scrollable event log overlay: auth events,
// lifecycle transitions, config reloads and action failures.
package debug

import (
	"fmt"
	"strings"
	"time"

	"github.com/agent-racer/authsync/internal/theme"
	"github.com/charmbracelet/lipgloss"
)

const maxEntries = 200

// Kind tags an entry with its origin.
type Kind string

const (
	KindAuth      Kind = "auth"
	KindLifecycle Kind = "life"
	KindConfig    Kind = "cfg"
	KindAction    Kind = "act"
	KindError     Kind = "err"
)

// Entry is a single event log line.
type Entry struct {
	Time    time.Time
	Kind    Kind
	Message string
}

// Model holds debug log state.
type Model struct {
	Entries []Entry
	Offset  int // lines scrolled up from the newest entry

	now func() time.Time
}

// New creates an empty debug model.
func New() Model {
	return Model{now: time.Now}
}

// Add appends an entry, drops the oldest beyond the cap and jumps back to
// the newest line.
func (m *Model) Add(kind Kind, message string) {
	now := time.Now
	if m.now != nil {
		now = m.now
	}
	m.Entries = append(m.Entries, Entry{Time: now(), Kind: kind, Message: message})
	if over := len(m.Entries) - maxEntries; over > 0 {
		m.Entries = m.Entries[over:]
	}
	m.Offset = 0
}

// Addf is Add with formatting.
func (m *Model) Addf(kind Kind, format string, args ...any) {
	m.Add(kind, fmt.Sprintf(format, args...))
}

// ScrollUp moves the viewport towards older entries.
func (m *Model) ScrollUp(n int) {
	m.Offset = min(m.Offset+n, max(len(m.Entries)-1, 0))
}

// ScrollDown moves the viewport towards newer entries.
func (m *Model) ScrollDown(n int) {
	m.Offset = max(m.Offset-n, 0)
}

// View renders the log as an overlay panel.
func (m Model) View(width, height int) string {
	innerW := max(width-4, 20)
	visible := max(height-6, 3)

	title := theme.StyleHeader.Render(" EVENT LOG ")
	help := theme.StyleDimmed.Render(fmt.Sprintf("j/k:scroll  esc:close  %d entries", len(m.Entries)))

	panel := lipgloss.NewStyle().
		Width(innerW).
		Padding(1, 2).
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(theme.ColorBorder)

	if len(m.Entries) == 0 {
		body := theme.StyleDimmed.Render("  No events recorded yet.")
		return panel.Render(lipgloss.JoinVertical(lipgloss.Left, title, "", body, "", help))
	}

	end := max(len(m.Entries)-m.Offset, 0)
	start := max(end-visible, 0)

	lines := make([]string, 0, end-start)
	for _, e := range m.Entries[start:end] {
		lines = append(lines, m.renderEntry(e, innerW))
	}

	more := ""
	if m.Offset > 0 {
		more = theme.StyleDimmed.Render(fmt.Sprintf(" ↓ %d more", m.Offset))
	}
	return panel.Render(lipgloss.JoinVertical(lipgloss.Left, title, strings.Join(lines, "\n"), more, help))
}

func (m Model) renderEntry(e Entry, width int) string {
	ts := theme.StyleDimmed.Render(e.Time.Format("15:04:05.000"))
	kind := lipgloss.NewStyle().Foreground(kindColor(e.Kind)).Width(4).Render(string(e.Kind))
	msg := e.Message
	if limit := width - 20; limit > 3 && len(msg) > limit {
		msg = msg[:limit-3] + "..."
	}
	return ts + " " + kind + " " + msg
}

func kindColor(k Kind) lipgloss.Color {
	switch k {
	case KindAuth:
		return theme.ColorAuthenticated
	case KindLifecycle:
		return theme.ColorAccent
	case KindConfig:
		return theme.ColorLoading
	case KindAction:
		return theme.ColorWarning
	case KindError:
		return theme.ColorDanger
	default:
		return theme.ColorDimmed
	}
}
