// Package styles provides shared lipgloss styles for CLI and TUI components.
package styles

import (
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// Tokyo Night color palette.
var (
	ColorGreen  = lipgloss.Color("#9ece6a")
	ColorYellow = lipgloss.Color("#e0af68")
	ColorRed    = lipgloss.Color("#d75f6b")
	ColorBlue   = lipgloss.Color("#7aa2f7")
	ColorGray   = lipgloss.Color("#565f89")
	ColorWhite  = lipgloss.Color("#c0caf5")
)

// Banner ASCII art for the header.
const Banner = `
 ╔═╗╔╦╗╦═╗╦╔╦╗╔═╗
 ╚═╗ ║ ╠╦╝║ ║║║╣
 ╚═╝ ╩ ╩╚═╩═╩╝╚═╝`

// BannerStyle styles the ASCII art banner.
var BannerStyle = lipgloss.NewStyle().
	Foreground(ColorBlue).
	Bold(true)

// DividerStyle styles horizontal dividers.
var DividerStyle = lipgloss.NewStyle().
	Foreground(ColorGray)

// MutedStyle styles secondary text.
var MutedStyle = lipgloss.NewStyle().
	Foreground(ColorGray)

// ErrorStyle styles error messages.
var ErrorStyle = lipgloss.NewStyle().
	Foreground(ColorRed)

// WarnStyle styles warnings, such as partial failures.
var WarnStyle = lipgloss.NewStyle().
	Foreground(ColorYellow)

// SuccessStyle styles confirmations.
var SuccessStyle = lipgloss.NewStyle().
	Foreground(ColorGreen)

// FormTheme returns the huh theme used by interactive forms.
func FormTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Base = t.Focused.Base.BorderForeground(ColorBlue)
	t.Focused.Title = t.Focused.Title.Foreground(ColorBlue).Bold(true)
	t.Focused.Description = t.Focused.Description.Foreground(ColorGray)
	t.Focused.ErrorIndicator = t.Focused.ErrorIndicator.Foreground(ColorRed)
	t.Focused.ErrorMessage = t.Focused.ErrorMessage.Foreground(ColorRed)
	t.Focused.SelectSelector = t.Focused.SelectSelector.Foreground(ColorGreen)
	t.Focused.Option = t.Focused.Option.Foreground(ColorWhite)
	t.Focused.TextInput.Cursor = t.Focused.TextInput.Cursor.Foreground(ColorGreen)
	t.Focused.TextInput.Placeholder = t.Focused.TextInput.Placeholder.Foreground(ColorGray)
	t.Focused.FocusedButton = t.Focused.FocusedButton.Background(ColorBlue).Foreground(lipgloss.Color("#1a1b26"))

	t.Blurred = t.Focused
	t.Blurred.Base = t.Blurred.Base.BorderStyle(lipgloss.HiddenBorder())
	t.Blurred.Title = t.Blurred.Title.Foreground(ColorGray).Bold(false)

	return t
}
