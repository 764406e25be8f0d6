// Package render prints and exports planner reports.
package render

import "github.com/charmbracelet/lipgloss"

var (
	// TitleStyle is used for the report banner.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B"))

	// SectionStyle is used for section headings.
	SectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86"))

	// WarningStyle highlights alert rows.
	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	// SubtleStyle formats secondary lines such as recommendations.
	SubtleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)
