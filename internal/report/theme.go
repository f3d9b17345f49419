package report

import "github.com/charmbracelet/lipgloss"

var (
	cPrimary = lipgloss.Color("63")  // blue
	cAccent  = lipgloss.Color("205") // magenta
	cGood    = lipgloss.Color("42")  // green
	cWarn    = lipgloss.Color("214") // orange
	cMuted   = lipgloss.Color("244") // gray
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(cAccent)
	headStyle  = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	mutedStyle = lipgloss.NewStyle().Foreground(cMuted)
	totalStyle = lipgloss.NewStyle().Bold(true).Foreground(cGood)
	warnStyle  = lipgloss.NewStyle().Bold(true).Foreground(cWarn)
)
