package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/songshelf/songshelf/internal/db"
)

// renderList renders the song list with the header and status bar
func renderList(m Model) string {
	if m.width == 0 {
		return "Loading..."
	}

	theme := m.theme

	title := " SONGSHELF"
	stats := fmt.Sprintf("%d songs  ◆ %d genres ", len(m.songs), len(m.genres))
	spacing := "  "
	if available := m.width - lipgloss.Width(title) - lipgloss.Width(stats); available > 0 {
		spacing = strings.Repeat(" ", available)
	}
	header := lipgloss.NewStyle().
		Bold(true).
		Width(m.width).
		Render(RenderGradientText(title+spacing+stats, string(theme.Cyan), string(theme.Accent)))

	contentHeight := max(m.height-4, 1) // header + blank + status

	var body string
	switch {
	case m.loading:
		body = theme.MutedStyle().Render("  Loading songs...")
	case m.err != nil:
		body = renderError(m.err, theme)
	case len(m.songs) == 0:
		body = renderEmptyState(theme)
	default:
		body = renderSongRows(m, m.width-2, contentHeight, theme)
	}

	main := lipgloss.NewStyle().
		Width(m.width).
		Height(contentHeight).
		Padding(0, 1).
		Render(body)

	var statusText string
	switch {
	case m.confirmDelete:
		statusText = theme.ErrorStyle().Render(m.statusMessage)
	case m.statusMessage != "":
		statusText = lipgloss.NewStyle().
			Foreground(theme.Cyan).
			Bold(true).
			Render(m.statusMessage)
	default:
		statusText = "j/k:navigate  enter:details  a:add  d:delete  r:reload  ?:help  q:quit"
	}
	status := theme.StatusBarStyle().Width(m.width).Render(statusText)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		"",
		main,
		status,
	)
}

func renderSongRows(m Model, width, height int, theme StyleTheme) string {
	maxVisible := max(height, 1)

	startIdx := 0
	if m.cursor > maxVisible-3 {
		startIdx = m.cursor - maxVisible + 3
	}
	endIdx := min(startIdx+maxVisible, len(m.songs))
	if endIdx-startIdx < maxVisible {
		startIdx = max(0, endIdx-maxVisible)
	}

	genreWidth := 12
	artistWidth := max(width/4, 10)
	titleWidth := max(width-artistWidth-genreWidth-8, 10)

	var lines []string
	for i := startIdx; i < endIdx; i++ {
		song := m.songs[i]

		selector := "  "
		titleStyle := theme.TextStyle()
		if i == m.cursor {
			selector = lipgloss.NewStyle().Foreground(theme.Cyan).Bold(true).Render("▸ ")
			titleStyle = lipgloss.NewStyle().Foreground(theme.Cyan)
		}

		genre := db.GenreName(m.genres, song.GenreID)
		if genre == "" {
			genre = "-"
		}

		lines = append(lines, fmt.Sprintf("%s%s  %s  %s",
			selector,
			titleStyle.Render(padRight(truncate(song.Title, titleWidth), titleWidth)),
			theme.MutedStyle().Render(padRight(truncate(song.Artist, artistWidth), artistWidth)),
			theme.TagStyle().Render(truncate(genre, genreWidth)),
		))
	}

	return strings.Join(lines, "\n")
}

func renderEmptyState(theme StyleTheme) string {
	return theme.MutedStyle().Render("  No songs yet. Press a to add one.")
}

func renderError(err error, theme StyleTheme) string {
	return theme.ErrorStyle().Render(fmt.Sprintf("  ✗ %v", err))
}
