// Package theme holds the colors shared by the report printer and the
// journal browser.
package theme

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines a color palette.
type Theme struct {
	Accent   lipgloss.Color
	Subtle   lipgloss.Color
	Text     lipgloss.Color
	Dim      lipgloss.Color
	Border   lipgloss.Color
	StatusBg lipgloss.Color
	StatusFg lipgloss.Color
	Error    lipgloss.Color

	Started  lipgloss.Color
	Finished lipgloss.Color
	Pending  lipgloss.Color
}

// DefaultTheme returns the default color palette (catppuccin-inspired).
func DefaultTheme() Theme {
	return Theme{
		Accent:   lipgloss.Color("#cba6f7"),
		Subtle:   lipgloss.Color("#6c7086"),
		Text:     lipgloss.Color("#cdd6f4"),
		Dim:      lipgloss.Color("#585b70"),
		Border:   lipgloss.Color("#45475a"),
		StatusBg: lipgloss.Color("#313244"),
		StatusFg: lipgloss.Color("#cdd6f4"),
		Error:    lipgloss.Color("#f38ba8"),
		Started:  lipgloss.Color("#89b4fa"),
		Finished: lipgloss.Color("#a6e3a1"),
		Pending:  lipgloss.Color("#f9e2af"),
	}
}

// FinishedStatuses are the status values of closed experiments.
var FinishedStatuses = []string{"completed", "complete", "finished", "done", "cancelled", "canceled", "abandoned"}

// IsFinished reports whether status names a closed experiment.
func IsFinished(status string) bool {
	s := strings.ToLower(strings.TrimSpace(status))
	for _, f := range FinishedStatuses {
		if s == f {
			return true
		}
	}
	return false
}

// StatusColor picks the color for an experiment status.
func (t Theme) StatusColor(status string) lipgloss.Color {
	switch s := strings.ToLower(strings.TrimSpace(status)); {
	case s == "":
		return t.Dim
	case s == "started":
		return t.Started
	case IsFinished(s):
		return t.Finished
	default:
		return t.Pending
	}
}

// StatusStyle returns a foreground style for status.
func (t Theme) StatusStyle(status string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.StatusColor(status))
}
