package status

import (
	"fmt"
	"time"

	"github.com/agent-racer/authsync/internal/client"
	"github.com/agent-racer/authsync/internal/theme"
	"github.com/charmbracelet/lipgloss"
)

// Model holds the status bar state.
type Model struct {
	Status     client.Status
	User       string
	Polling    bool
	Interval   time.Duration
	Foreground bool
	Spinner    string // rendered spinner frame, shown while loading
	Width      int
}

// New creates a status bar model.
func New() Model {
	return Model{Foreground: true}
}

// View renders the status bar.
func (m Model) View() string {
	width := m.Width
	if width < 40 {
		width = 40
	}

	name := m.Status.String()
	glyph := theme.StatusGlyph(name)
	if m.Status == client.StatusLoading && m.Spinner != "" {
		glyph = m.Spinner
	}
	authStr := lipgloss.NewStyle().Foreground(theme.StatusColor(name)).Render(glyph + " " + name)
	if m.User != "" {
		authStr += " " + theme.StyleHeader.Render(m.User)
	}

	var pollStr string
	switch {
	case m.Interval <= 0:
		pollStr = theme.StyleDimmed.Render("polling off")
	case m.Polling:
		pollStr = lipgloss.NewStyle().Foreground(theme.ColorHealthy).Render(fmt.Sprintf("polling every %s", m.Interval))
	default:
		pollStr = lipgloss.NewStyle().Foreground(theme.ColorWarning).Render(fmt.Sprintf("polling paused (%s)", m.Interval))
	}

	var fgStr string
	if m.Foreground {
		fgStr = lipgloss.NewStyle().Foreground(theme.ColorAccent).Render("foreground")
	} else {
		fgStr = theme.StyleDimmed.Render("background")
	}

	sep := lipgloss.NewStyle().Foreground(theme.ColorBorder).Render(" | ")
	content := authStr + sep + pollStr + sep + fgStr

	return lipgloss.NewStyle().
		Width(width).
		Padding(0, 1).
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(theme.ColorBorder).
		Render(content)
}
