// Package theme provides the Lip Gloss palette and shared styles for the
// authsync terminal host. It is a leaf package with no internal imports.
package theme

import "github.com/charmbracelet/lipgloss"

// Auth status colors.
var (
	ColorInitial         = lipgloss.Color("#6b7280")
	ColorLoading         = lipgloss.Color("#7c3aed")
	ColorAuthenticated   = lipgloss.Color("#16a34a")
	ColorUnauthenticated = lipgloss.Color("#d97706")
)

// UI chrome colors.
var (
	ColorBorder  = lipgloss.Color("#4b5563")
	ColorDimmed  = lipgloss.Color("#6b7280")
	ColorBright  = lipgloss.Color("#f9fafb")
	ColorAccent  = lipgloss.Color("#3b82f6")
	ColorHealthy = lipgloss.Color("#22c55e")
	ColorWarning = lipgloss.Color("#d97706")
	ColorDanger  = lipgloss.Color("#dc2626")
)

// StatusColor returns the color for an auth status in its text form.
func StatusColor(status string) lipgloss.Color {
	switch status {
	case "loading":
		return ColorLoading
	case "authenticated":
		return ColorAuthenticated
	case "unauthenticated":
		return ColorUnauthenticated
	default:
		return ColorInitial
	}
}

// StatusGlyph returns a glyph for an auth status in its text form.
func StatusGlyph(status string) string {
	switch status {
	case "loading":
		return "◌"
	case "authenticated":
		return "●"
	case "unauthenticated":
		return "○"
	default:
		return "·"
	}
}

// Reusable styles.
var (
	StyleBorder = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder)

	StyleHeader = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorBright)

	StyleDimmed = lipgloss.NewStyle().
		Foreground(ColorDimmed)

	StyleError = lipgloss.NewStyle().
		Foreground(ColorDanger)
)
