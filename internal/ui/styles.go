package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
)

// Color palette
// - Default (white/black): primary text
// - Accent (soft purple): issue keys, URLs, environment names
// - Muted (gray): secondary info, field ids, hints
// - Status is carried by unicode symbols, not color

const (
	accentHex = "#A78BFA"
	mutedHex  = "#6C7086"
)

var (
	// Accent style for issue keys, URLs and highlights
	Accent = lipgloss.NewStyle().Foreground(lipgloss.Color(accentHex))

	// Muted style for secondary info and hints
	Muted = lipgloss.NewStyle().Foreground(lipgloss.Color(mutedHex))

	// Bold style for emphasis
	Bold = lipgloss.NewStyle().Bold(true)

	// AccentBold combines accent color with bold
	AccentBold = lipgloss.NewStyle().Foreground(lipgloss.Color(accentHex)).Bold(true)
)

// AccentColor returns the accent color, or false when colors are disabled.
func AccentColor() (string, bool) {
	if colorDisabled() {
		return "", false
	}
	return accentHex, true
}

// colorDisabled follows the NO_COLOR convention (https://no-color.org).
func colorDisabled() bool {
	_, ok := os.LookupEnv("NO_COLOR")
	return ok
}
