package chat

import "github.com/charmbracelet/lipgloss"

// styles groups every lipgloss style used by the chat view.
type styles struct {
	Title   lipgloss.Style
	Score   lipgloss.Style
	User    lipgloss.Style
	System  lipgloss.Style
	Clue    lipgloss.Style
	Correct lipgloss.Style
	Wrong   lipgloss.Style
	Finish  lipgloss.Style
	Divider lipgloss.Style
	Input   lipgloss.Style
	Help    lipgloss.Style
	Error   lipgloss.Style
}

func defaultStyles() styles {
	bubble := lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.RoundedBorder())
	return styles{
		Title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")),
		Score:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		User:    bubble.BorderForeground(lipgloss.Color("63")).Foreground(lipgloss.Color("255")),
		System:  bubble.BorderForeground(lipgloss.Color("240")).Foreground(lipgloss.Color("252")),
		Clue:    bubble.BorderForeground(lipgloss.Color("39")).Foreground(lipgloss.Color("117")),
		Correct: bubble.BorderForeground(lipgloss.Color("34")).Foreground(lipgloss.Color("120")).Bold(true),
		Wrong:   bubble.BorderForeground(lipgloss.Color("160")).Foreground(lipgloss.Color("210")),
		Finish:  bubble.BorderForeground(lipgloss.Color("212")).Foreground(lipgloss.Color("219")).Bold(true),
		Divider: lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true),
		Input:   lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("63")).Padding(0, 1),
		Help:    lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	}
}
