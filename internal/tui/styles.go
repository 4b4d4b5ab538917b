package tui

import (
	"github.com/charmbracelet/lipgloss"

	"torchlive/internal/orchestrator"
)

var (
	// HeaderStyle styles the column header row.
	HeaderStyle = lipgloss.NewStyle().Bold(true)

	// TitleStyle styles a doctor check title and the run banner.
	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))
	OKStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	FailStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	FaintStyle = lipgloss.NewStyle().Faint(true)

	promptStyle   = lipgloss.NewStyle().Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4")).Bold(true)

	statusStyles = map[string]lipgloss.Style{
		string(orchestrator.StateSucceeded): lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		string(orchestrator.StateRunning):   lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
		string(orchestrator.StateSkipped):   lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		string(orchestrator.StateFailed):    lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		string(orchestrator.StatePending):   lipgloss.NewStyle().Faint(true),
	}
)

// StatusStyle returns the lipgloss style for the given status string.
func StatusStyle(status string) lipgloss.Style {
	if s, ok := statusStyles[status]; ok {
		return s
	}
	return lipgloss.NewStyle()
}

var stateGlyphs = map[orchestrator.State]string{
	orchestrator.StateRunning:   "»",
	orchestrator.StateSkipped:   "-",
	orchestrator.StateSucceeded: "✔",
	orchestrator.StateFailed:    "✖",
}
