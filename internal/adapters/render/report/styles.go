package report

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title    lipgloss.Style
	header   lipgloss.Style
	model    lipgloss.Style
	detail   lipgloss.Style
	response lipgloss.Style
	warning  lipgloss.Style
	section  lipgloss.Style
	empty    lipgloss.Style
	metaKey  lipgloss.Style
	metaVal  lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:    lipgloss.NewStyle().Bold(true),
		header:   lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		model:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		detail:   lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		response: lipgloss.NewStyle().Foreground(lipgloss.Color("250")).PaddingLeft(2),
		warning:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		section:  lipgloss.NewStyle().MarginTop(1),
		empty:    lipgloss.NewStyle().Faint(true),
		metaKey:  lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		metaVal:  lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	}
}
