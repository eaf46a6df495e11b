package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// HelpModal lists the keyboard shortcuts
type HelpModal struct {
	Modal
	theme StyleTheme
}

// NewHelpModal creates a closed HelpModal
func NewHelpModal(theme StyleTheme) HelpModal {
	return HelpModal{
		Modal: NewModal("KEYBOARD SHORTCUTS", 70, 24), // resized on WindowSizeMsg
		theme: theme,
	}
}

// SetSize updates the modal size based on terminal dimensions
func (m *HelpModal) SetSize(width, height int) {
	modalWidth := max(width*3/4, 50)
	modalHeight := max(height-8, 20)

	// But don't exceed terminal size
	if modalWidth > width-4 {
		modalWidth = max(width-4, 20)
	}

	m.width = modalWidth
	m.height = modalHeight
}

// Update handles input for the help modal
func (m HelpModal) Update(msg tea.Msg) (HelpModal, tea.Cmd) {
	if !m.visible {
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "q", "?":
			m.Close()
		}

	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
	}

	return m, nil
}

// View renders the help modal
func (m HelpModal) View() string {
	if !m.visible {
		return ""
	}

	theme := m.theme
	var content strings.Builder

	titleStyle := lipgloss.NewStyle().
		Foreground(theme.Cyan).
		Bold(true)
	content.WriteString(centerText(titleStyle.Render(m.title), m.width-4))
	content.WriteString("\n\n")

	sectionStyle := lipgloss.NewStyle().
		Foreground(theme.Cyan).
		Bold(true)
	keyStyle := lipgloss.NewStyle().
		Foreground(theme.Purple).
		Bold(true)
	descStyle := lipgloss.NewStyle().
		Foreground(theme.White)

	formatCmd := func(key, desc string) string {
		keyPadded := keyStyle.Render(key) + strings.Repeat(" ", max(0, 12-lipgloss.Width(key)))
		return "  " + keyPadded + descStyle.Render(desc)
	}

	// Two columns only when there is room
	format2Col := func(key1, desc1, key2, desc2 string) string {
		if m.width > 70 {
			col1 := formatCmd(key1, desc1)
			spacing := max(2, (m.width/2)-lipgloss.Width(col1))
			return col1 + strings.Repeat(" ", spacing) + formatCmd(key2, desc2)
		}
		return formatCmd(key1, desc1) + "\n" + formatCmd(key2, desc2)
	}

	sectionHeader := func(title string) string {
		headerText := "── " + title + " "
		remaining := max(0, m.width-8-lipgloss.Width(headerText))
		return sectionStyle.Render(headerText + strings.Repeat("─", remaining))
	}

	content.WriteString(sectionHeader("NAVIGATION"))
	content.WriteString("\n")
	content.WriteString(format2Col("j/↓", "Move down", "g", "Jump to top"))
	content.WriteString("\n")
	content.WriteString(format2Col("k/↑", "Move up", "G", "Jump to bottom"))
	content.WriteString("\n\n")

	content.WriteString(sectionHeader("SONGS"))
	content.WriteString("\n")
	content.WriteString(format2Col("Enter", "Show details", "a", "Add song"))
	content.WriteString("\n")
	content.WriteString(format2Col("d", "Delete song", "r", "Reload"))
	content.WriteString("\n\n")

	content.WriteString(sectionHeader("SONG DETAIL"))
	content.WriteString("\n")
	content.WriteString(format2Col("e", "Edit song", "y", "Yank link"))
	content.WriteString("\n")
	content.WriteString(format2Col("o", "Open link", "ESC", "Close"))
	content.WriteString("\n\n")

	content.WriteString(sectionHeader("SONG FORM"))
	content.WriteString("\n")
	content.WriteString(format2Col("Tab", "Next field", "Shift+Tab", "Previous field"))
	content.WriteString("\n")
	content.WriteString(format2Col("←/→", "Choose genre", "Enter", "Save"))
	content.WriteString("\n")
	content.WriteString(format2Col("Ctrl+X", "Cancel", "ESC", "Close"))
	content.WriteString("\n\n")

	content.WriteString(sectionHeader("SYSTEM"))
	content.WriteString("\n")
	content.WriteString(format2Col("?", "This help", "q", "Quit"))
	content.WriteString("\n\n")

	footerStyle := lipgloss.NewStyle().
		Foreground(theme.Gray).
		Italic(true)
	content.WriteString(centerText(footerStyle.Render("Press ESC or ? to close"), m.width-4))

	modalStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Cyan).
		Width(m.width).
		Padding(1, 2).
		Align(lipgloss.Left)

	return modalStyle.Render(content.String())
}

// ViewWithOverlay renders the modal over a cleared background
func (m HelpModal) ViewWithOverlay(backgroundView string, width, height int) string {
	if !m.visible {
		return backgroundView
	}
	return placeOverlay(backgroundView, m.View(), width, height)
}

func centerText(s string, width int) string {
	padding := max(0, (width-lipgloss.Width(s))/2)
	return strings.Repeat(" ", padding) + s
}
