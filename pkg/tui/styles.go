package tui

import "github.com/charmbracelet/lipgloss"

var (
	ColorText     = lipgloss.Color("#F8F8F2")
	ColorMuted    = lipgloss.Color("#6272A4")
	ColorPrimary  = lipgloss.Color("#BD93F9")
	ColorInfo     = lipgloss.Color("#8BE9FD")
	ColorBgSubtle = lipgloss.Color("#363949")
)

var (
	itemStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorMuted).
			Foreground(ColorText)

	selectedStyle = itemStyle.
			BorderForeground(ColorPrimary).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(ColorText).
			Background(ColorBgSubtle).
			Padding(0, 1)

	viewerStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(ColorInfo).
			Align(lipgloss.Center, lipgloss.Center)

	mutedStyle = lipgloss.NewStyle().Foreground(ColorMuted)
	titleStyle = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)
)
