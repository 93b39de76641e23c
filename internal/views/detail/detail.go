// Package detail renders the session flyout: the current snapshot as a small
// markdown document, drawn with glamour.
package detail

import (
	"fmt"
	"strings"

	"github.com/agent-racer/authsync/internal/session"
	"github.com/agent-racer/authsync/internal/theme"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"
)

const (
	panelWidth   = 64
	defaultStyle = "dark"
)

var stylePanel = lipgloss.NewStyle().
	BorderStyle(lipgloss.RoundedBorder()).
	BorderForeground(theme.ColorBorder).
	Padding(0, 1)

// Model holds the state for the detail overlay.
type Model struct {
	Snapshot session.Snapshot
	// Style names a glamour standard style. Empty means dark.
	Style string
}

// New creates a detail model for snap.
func New(snap session.Snapshot) Model {
	return Model{Snapshot: snap}
}

// View renders the panel.
func (m Model) View() string {
	md, err := Markdown(m.Snapshot)
	if err != nil {
		return stylePanel.Width(panelWidth).Render(theme.StyleError.Render(err.Error()))
	}

	style := m.Style
	if style == "" {
		style = defaultStyle
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(panelWidth-4),
	)
	if err != nil {
		return stylePanel.Width(panelWidth).Render(md)
	}
	out, err := r.Render(md)
	if err != nil {
		return stylePanel.Width(panelWidth).Render(md)
	}

	footer := theme.StyleDimmed.Render("[esc] close")
	return stylePanel.Width(panelWidth).Render(strings.TrimRight(out, "\n") + "\n" + footer)
}

// Markdown describes snap as a markdown document with the session data
// dumped as YAML.
func Markdown(snap session.Snapshot) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "# Session\n\n**Status:** %s\n\n", snap.Status())

	if !snap.HasSession() {
		b.WriteString("_No session. Press `s` to sign in._\n")
		return b.String(), nil
	}

	s := snap.Session()
	fmt.Fprintf(&b, "**User:** %s\n\n", s.Name())

	data, err := yaml.Marshal(map[string]any(s))
	if err != nil {
		return "", fmt.Errorf("encode session: %w", err)
	}
	b.WriteString("```yaml\n")
	b.Write(data)
	b.WriteString("```\n")
	return b.String(), nil
}
