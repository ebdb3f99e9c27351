package ui

import (
	"github.com/charmbracelet/lipgloss"

	"task-manager.com/task-manager/internal/constants"
	"task-manager.com/task-manager/internal/preferences"
)

type palette struct {
	accent, high, medium, low, muted lipgloss.Color
}

var schemes = map[string]palette{
	"Default":   {accent: "33", high: "1", medium: "3", low: "2", muted: "244"},
	"Solarized": {accent: "37", high: "160", medium: "136", low: "64", muted: "245"},
	"Forest":    {accent: "28", high: "124", medium: "172", low: "34", muted: "242"},
}

// Theme holds the terminal styles derived from the user's preferences.
type Theme struct {
	Name     preferences.Theme
	Header   lipgloss.Style
	Muted    lipgloss.Style
	Done     lipgloss.Style
	Reminder lipgloss.Style
	Markdown string

	priorities map[constants.TaskPriority]lipgloss.Style
}

// NewTheme maps preferences onto styles. Unknown color schemes fall back to
// Default.
func NewTheme(p preferences.Preferences) Theme {
	pal, ok := schemes[p.ColorScheme]
	if !ok {
		pal = schemes["Default"]
	}

	text := lipgloss.Color("0")
	markdown := "light"
	if p.Theme == preferences.ThemeDark {
		text = lipgloss.Color("255")
		markdown = "dark"
	}

	return Theme{
		Name:     p.Theme,
		Header:   lipgloss.NewStyle().Bold(true).Foreground(pal.accent),
		Muted:    lipgloss.NewStyle().Foreground(pal.muted),
		Done:     lipgloss.NewStyle().Foreground(pal.muted).Strikethrough(true),
		Reminder: lipgloss.NewStyle().Bold(true).Foreground(text).Background(pal.accent).Padding(0, 1),
		Markdown: markdown,
		priorities: map[constants.TaskPriority]lipgloss.Style{
			constants.PriorityHigh:   lipgloss.NewStyle().Bold(true).Foreground(pal.high),
			constants.PriorityMedium: lipgloss.NewStyle().Foreground(pal.medium),
			constants.PriorityLow:    lipgloss.NewStyle().Foreground(pal.low),
		},
	}
}

func (t Theme) Priority(p constants.TaskPriority) lipgloss.Style {
	if s, ok := t.priorities[p]; ok {
		return s
	}
	return t.Muted
}

// ColorSchemes lists the schemes NewTheme knows about.
func ColorSchemes() []string {
	return []string{"Default", "Forest", "Solarized"}
}
