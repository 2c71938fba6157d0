package output

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Styles holds the lipgloss styles used by text mode.
type Styles struct {
	Header1 lipgloss.Style
	Header2 lipgloss.Style
	Bold    lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style
	Path    lipgloss.Style

	StatusSuccess lipgloss.Style
	StatusFailed  lipgloss.Style
	StatusRunning lipgloss.Style
}

// newStyles builds styles bound to a lipgloss renderer. Without a TTY the
// renderer is forced to the ASCII profile so no escape codes are emitted.
func newStyles(lr *lipgloss.Renderer, isTTY bool) *Styles {
	if !isTTY {
		lr.SetColorProfile(termenv.Ascii)
	}

	return &Styles{
		Header1: lr.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		Header2: lr.NewStyle().Bold(true),
		Bold:    lr.NewStyle().Bold(true),
		Muted:   lr.NewStyle().Foreground(lipgloss.Color("8")),
		Success: lr.NewStyle().Foreground(lipgloss.Color("10")),
		Error:   lr.NewStyle().Foreground(lipgloss.Color("9")),
		Warning: lr.NewStyle().Foreground(lipgloss.Color("11")),
		Info:    lr.NewStyle().Foreground(lipgloss.Color("14")),
		Path:    lr.NewStyle().Foreground(lipgloss.Color("6")),

		StatusSuccess: lr.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
		StatusFailed:  lr.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		StatusRunning: lr.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
	}
}

// statusSymbols maps status names to the glyph printed by StatusLine.
var statusSymbols = map[string]string{
	"success": "✓",
	"failed":  "✗",
	"running": "●",
	"skipped": "○",
}
