package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Modal is the overlay surface shared by every dialog: a visibility flag,
// a size and the content last injected into it.
type Modal struct {
	title   string
	width   int
	height  int
	content string
	visible bool
}

// NewModal creates a closed Modal
func NewModal(title string, width, height int) Modal {
	return Modal{
		title:  title,
		width:  width,
		height: height,
	}
}

// Open makes the overlay visible. Opening an open modal changes nothing.
func (m *Modal) Open() {
	m.visible = true
}

// Close hides the overlay. Closing a closed modal changes nothing.
func (m *Modal) Close() {
	m.visible = false
}

// IsOpen reports whether the overlay is visible
func (m Modal) IsOpen() bool {
	return m.visible
}

// SetContent replaces the modal content
func (m *Modal) SetContent(content string) {
	m.content = content
}

// View renders the modal if visible
func (m Modal) View(theme StyleTheme) string {
	if !m.visible {
		return ""
	}

	modalStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Cyan).
		Width(m.width).
		Height(m.height).
		Padding(1, 2)

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.Cyan).
		MarginBottom(1)

	var fullContent strings.Builder
	if m.title != "" {
		fullContent.WriteString(titleStyle.Render(m.title))
		fullContent.WriteString("\n")
	}
	fullContent.WriteString(m.content)

	return modalStyle.Render(fullContent.String())
}

// ViewWithOverlay renders the modal centered over a blanked background
func (m Modal) ViewWithOverlay(backgroundView string, termWidth, termHeight int, theme StyleTheme) string {
	if !m.visible {
		return backgroundView
	}
	return placeOverlay(backgroundView, m.View(theme), termWidth, termHeight)
}

// placeOverlay centers modalView over background. The first background line
// (the header bar) stays visible; the rest is cleared so the dialog reads
// as modal.
func placeOverlay(background, modalView string, termWidth, termHeight int) string {
	bgLines := strings.Split(background, "\n")
	for i := 1; i < len(bgLines); i++ {
		bgLines[i] = strings.Repeat(" ", termWidth)
	}

	if modalView == "" {
		return strings.Join(bgLines, "\n")
	}

	modalLines := strings.Split(modalView, "\n")
	modalWidth := lipgloss.Width(modalView)

	// Start at least at line 1 to not overlap header
	startY := max(1, (termHeight-len(modalLines))/2)
	startX := max(0, (termWidth-modalWidth)/2)

	result := make([]string, max(len(bgLines), startY+len(modalLines)))
	copy(result, bgLines)

	padding := strings.Repeat(" ", startX)
	for i, modalLine := range modalLines {
		result[startY+i] = padding + modalLine
	}

	return strings.Join(result, "\n")
}
