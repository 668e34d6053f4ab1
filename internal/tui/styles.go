package tui

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

var (
	primaryColor     = lipgloss.Color("#0EA5E9")
	goodColor        = lipgloss.Color("#10B981")
	warnColor        = lipgloss.Color("#F59E0B")
	badColor         = lipgloss.Color("#EF4444")
	mutedColor       = lipgloss.Color("#6B7280")
	textColor        = lipgloss.Color("#F9FAFB")
	borderColor      = lipgloss.Color("#374151")
	focusBorderColor = lipgloss.Color("#0EA5E9")
)

var (
	panelStyle        = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(borderColor).Padding(0, 1)
	focusedPanelStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(focusBorderColor).Padding(0, 1)
	titleStyle        = lipgloss.NewStyle().Bold(true).Foreground(primaryColor)

	mutedStyle = lipgloss.NewStyle().Foreground(mutedColor)
	goodStyle  = lipgloss.NewStyle().Foreground(goodColor)
	warnStyle  = lipgloss.NewStyle().Foreground(warnColor)
	badStyle   = lipgloss.NewStyle().Bold(true).Foreground(badColor)
	helpStyle  = lipgloss.NewStyle().Foreground(mutedColor).Italic(true)
)

func tableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(borderColor).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(textColor).
		Background(borderColor).
		Bold(false)
	return s
}
