// Package tui implements the Bubble Tea TUI for stride.
package tui

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/hay-kot/stride/internal/styles"
)

var (
	bannerStyle = styles.BannerStyle.
			PaddingLeft(1).
			PaddingBottom(1)

	tabStyle = lipgloss.NewStyle().
			Foreground(styles.ColorGray).
			Padding(0, 1)

	activeTabStyle = lipgloss.NewStyle().
			Foreground(styles.ColorBlue).
			Bold(true).
			Underline(true).
			Padding(0, 1)

	filterStyle = lipgloss.NewStyle().
			Foreground(styles.ColorGray).
			PaddingLeft(1)

	statusStyle = lipgloss.NewStyle().
			Foreground(styles.ColorGreen).
			PaddingLeft(1)

	statusErrStyle = lipgloss.NewStyle().
			Foreground(styles.ColorRed).
			PaddingLeft(1)

	helpStyle = lipgloss.NewStyle().
			PaddingLeft(1)

	spinnerStyle = lipgloss.NewStyle().
			Foreground(styles.ColorBlue)

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(styles.ColorBlue).
			Padding(1, 2)

	modalTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(styles.ColorWhite)

	modalHelpStyle = lipgloss.NewStyle().
			Foreground(styles.ColorGray).
			MarginTop(1)
)

func tableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(styles.ColorGray).
		BorderBottom(true).
		Foreground(styles.ColorWhite)
	s.Selected = s.Selected.
		Foreground(styles.ColorBlue).
		Bold(true)
	return s
}
