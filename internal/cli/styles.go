package cli

import "github.com/charmbracelet/lipgloss"

var (
	ReasoningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Italic(true)

	ToolStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)

	AddedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	RemovedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	ContextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	// WarningStyle renders the toast shown for failed turns
	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("3")).
			Bold(true)

	PromptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("5")).
			Bold(true)

	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Underline(true)
)
