package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// truncate shortens s to maxLen display cells, ending in an ellipsis
func truncate(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= maxLen {
		return s
	}

	runes := []rune(s)
	if maxLen <= 3 {
		return string(runes[:min(maxLen, len(runes))])
	}

	out := runes[:0:0]
	for _, r := range runes {
		if lipgloss.Width(string(append(out, r)))+3 > maxLen {
			break
		}
		out = append(out, r)
	}
	return string(out) + "..."
}

// padRight pads s with spaces to width display cells
func padRight(s string, width int) string {
	gap := width - lipgloss.Width(s)
	if gap <= 0 {
		return s
	}
	return s + strings.Repeat(" ", gap)
}

// wrapText wraps text to fit within the specified width, keeping existing
// line breaks (including leading empty lines)
func wrapText(text string, width int) string {
	if width <= 0 {
		return text
	}

	var out []string
	for _, paragraph := range strings.Split(text, "\n") {
		words := strings.Fields(paragraph)
		if len(words) == 0 {
			out = append(out, "")
			continue
		}

		var line strings.Builder
		for _, word := range words {
			if line.Len() > 0 && line.Len()+1+len(word) > width {
				out = append(out, line.String())
				line.Reset()
			}
			if line.Len() > 0 {
				line.WriteString(" ")
			}
			line.WriteString(word)
		}
		out = append(out, line.String())
	}

	return strings.Join(out, "\n")
}
