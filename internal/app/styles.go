package app

import (
	"github.com/charmbracelet/lipgloss"
)

// styles holds the terminal styles for command output
type styles struct {
	Title   lipgloss.Style
	Label   lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
	Box     lipgloss.Style
}

func newStyles() *styles {
	primary := lipgloss.Color("#7C3AED")
	muted := lipgloss.Color("#6C7086")

	return &styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(primary),
		Label: lipgloss.NewStyle().
			Width(16).
			Foreground(lipgloss.Color("#06B6D4")),
		Muted: lipgloss.NewStyle().
			Foreground(muted),
		Success: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A6E3A1")),
		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F38BA8")),
		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#45475A")).
			Padding(0, 1),
	}
}

// row renders one label/value line
func (s *styles) row(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, s.Label.Render(label), value)
}
