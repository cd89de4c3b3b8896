// Package tui holds the bubbletea models behind `catalog browse` and
// `catalog quiz`.
package tui

import "github.com/charmbracelet/lipgloss"

var (
	primary     = lipgloss.Color("#8BC34A")
	muted       = lipgloss.Color("#6b7280")
	border      = lipgloss.Color("#2a3850")
	destructive = lipgloss.Color("#e53935")
	warning     = lipgloss.Color("#FFC107")
)

type Styles struct {
	Header   lipgloss.Style
	Title    lipgloss.Style
	Muted    lipgloss.Style
	Chip     lipgloss.Style
	Selected lipgloss.Style
	Active   lipgloss.Style
	Input    lipgloss.Style
	Success  lipgloss.Style
	Error    lipgloss.Style
	Hint     lipgloss.Style
}

func DefaultStyles() Styles {
	return Styles{
		Header: lipgloss.NewStyle().
			Background(primary).
			Foreground(lipgloss.Color("#101F38")).
			Padding(0, 2).
			Bold(true),
		Title:    lipgloss.NewStyle().Bold(true),
		Muted:    lipgloss.NewStyle().Foreground(muted),
		Chip:     lipgloss.NewStyle().Foreground(primary),
		Selected: lipgloss.NewStyle().Foreground(primary).Bold(true),
		Active: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primary).
			Padding(0, 1),
		Input: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Padding(0, 1),
		Success: lipgloss.NewStyle().Foreground(primary).Bold(true),
		Error:   lipgloss.NewStyle().Foreground(destructive).Bold(true),
		Hint:    lipgloss.NewStyle().Foreground(warning),
	}
}
