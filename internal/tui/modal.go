package tui

import "github.com/charmbracelet/lipgloss"

// Modal is a confirmation dialog.
type Modal struct {
	title   string
	message string
	visible bool
}

// NewModal creates a visible modal with the given title and message.
func NewModal(title, message string) Modal {
	return Modal{
		title:   title,
		message: message,
		visible: true,
	}
}

// Visible returns whether the modal should be displayed.
func (m Modal) Visible() bool {
	return m.visible
}

// View renders the modal centered in a width x height area.
func (m Modal) View(width, height int) string {
	content := lipgloss.JoinVertical(
		lipgloss.Left,
		modalTitleStyle.Render(m.title),
		"",
		m.message,
		modalHelpStyle.Render("y confirm  n/esc cancel"),
	)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, modalStyle.Render(content))
}
