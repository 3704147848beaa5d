// Package ui holds the terminal styles of the livedom CLI.
package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

var (
	Primary     = lipgloss.Color("#8BC34A")
	Muted       = lipgloss.Color("#6b7280")
	Accent      = lipgloss.Color("#2196F3")
	Warning     = lipgloss.Color("#FFC107")
	Destructive = lipgloss.Color("#e53935")
)

var (
	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(Primary)

	// TagStyle renders element names in outlines
	TagStyle = lipgloss.NewStyle().Bold(true)

	// DirectiveStyle renders directive attribute names
	DirectiveStyle = lipgloss.NewStyle().Foreground(Accent)

	ValueStyle = lipgloss.NewStyle().Foreground(Warning)

	LabelStyle = lipgloss.NewStyle().Foreground(Muted).Width(26)

	ErrorStyle = lipgloss.NewStyle().Bold(true).Foreground(Destructive)

	BoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(Muted).Padding(0, 1)
)

// Row renders a label and value pair
func Row(label string, value any) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, LabelStyle.Render(label), ValueStyle.Render(fmt.Sprint(value)))
}
