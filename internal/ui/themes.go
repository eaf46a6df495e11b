package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
)

// StyleTheme is the color palette every view draws with
type StyleTheme struct {
	Name     string
	Cyan     lipgloss.Color // Primary accent, borders and titles
	Purple   lipgloss.Color // Genres and links
	Accent   lipgloss.Color // Errors and gradient end
	Green    lipgloss.Color // Success
	Orange   lipgloss.Color // Warnings
	Gray     lipgloss.Color // Muted text
	DarkGray lipgloss.Color // Inactive borders and status bar
	White    lipgloss.Color // Main text
}

// CleanCyberTheme is the default palette
var CleanCyberTheme = StyleTheme{
	Name:     "clean_cyber",
	Cyan:     lipgloss.Color("#00D9FF"),
	Purple:   lipgloss.Color("#E6CCFF"),
	Accent:   lipgloss.Color("#9F4DFF"),
	Green:    lipgloss.Color("#00FF88"),
	Orange:   lipgloss.Color("#FF8800"),
	Gray:     lipgloss.Color("#666666"),
	DarkGray: lipgloss.Color("#333333"),
	White:    lipgloss.Color("#EEEEEE"),
}

// MonokaiProTheme provides warm dark colors inspired by Monokai Pro
var MonokaiProTheme = StyleTheme{
	Name:     "monokai_pro",
	Cyan:     lipgloss.Color("#78DCE8"),
	Purple:   lipgloss.Color("#AB9DF2"),
	Accent:   lipgloss.Color("#FF6188"),
	Green:    lipgloss.Color("#A9DC76"),
	Orange:   lipgloss.Color("#FC9867"),
	Gray:     lipgloss.Color("#727072"),
	DarkGray: lipgloss.Color("#403E41"),
	White:    lipgloss.Color("#FCFCFA"),
}

// LightTheme uses softer tones that still read on dark terminals
var LightTheme = StyleTheme{
	Name:     "light",
	Cyan:     lipgloss.Color("#06B6D4"),
	Purple:   lipgloss.Color("#8B5CF6"),
	Accent:   lipgloss.Color("#EC4899"),
	Green:    lipgloss.Color("#22C55E"),
	Orange:   lipgloss.Color("#FB923C"),
	Gray:     lipgloss.Color("#64748B"),
	DarkGray: lipgloss.Color("#475569"),
	White:    lipgloss.Color("#F1F5F9"),
}

// AvailableThemes lists every selectable theme
var AvailableThemes = []StyleTheme{
	CleanCyberTheme,
	MonokaiProTheme,
	LightTheme,
}

// ThemeByName returns the named theme, falling back to CleanCyberTheme
func ThemeByName(name string) (StyleTheme, bool) {
	for _, t := range AvailableThemes {
		if t.Name == name {
			return t, true
		}
	}
	return CleanCyberTheme, false
}

func (t StyleTheme) TextStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.White)
}

func (t StyleTheme) MutedStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Gray)
}

func (t StyleTheme) TagStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Purple)
}

func (t StyleTheme) SuccessStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Green)
}

func (t StyleTheme) ErrorStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(t.Accent).
		Bold(true)
}

func (t StyleTheme) SelectedStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(t.Cyan).
		Bold(true)
}

func (t StyleTheme) StatusBarStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Background(t.DarkGray).
		Foreground(t.Gray).
		Padding(0, 1)
}

// ToGlamourStyle maps the theme onto glamour for the song detail body
func (t StyleTheme) ToGlamourStyle() ansi.StyleConfig {
	style := styles.DraculaStyleConfig

	// No document margin inside a modal
	style.Document.Margin = uintPtr(0)
	style.Document.StylePrimitive.Color = stringPtr(string(t.White))

	style.H1.StylePrimitive.Color = stringPtr(string(t.Cyan))
	style.H1.StylePrimitive.Bold = boolPtr(true)
	style.H1.StylePrimitive.BackgroundColor = nil
	style.H1.Prefix = "▸ "
	style.H1.Suffix = ""
	style.H1.Format = ""

	style.Strong.Color = stringPtr(string(t.Purple))
	style.Emph.Color = stringPtr(string(t.Gray))
	style.Link.Color = stringPtr(string(t.Purple))
	style.LinkText.Color = stringPtr(string(t.Purple))

	style.List.StyleBlock.Indent = uintPtr(1)
	style.List.StyleBlock.StylePrimitive.Color = stringPtr(string(t.White))
	style.Item.BlockPrefix = "◆ "
	style.Item.Color = stringPtr(string(t.White))

	return style
}

func stringPtr(s string) *string { return &s }
func uintPtr(u uint) *uint       { return &u }
func boolPtr(b bool) *bool       { return &b }

// RenderGradientText colors each rune of text along a start→end gradient
func RenderGradientText(text string, startColor, endColor string) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return ""
	}

	var result strings.Builder
	for i, r := range runes {
		position := 0.0
		if len(runes) > 1 {
			position = float64(i) / float64(len(runes)-1)
		}
		color := InterpolateColor(startColor, endColor, position)
		result.WriteString(lipgloss.NewStyle().
			Foreground(lipgloss.Color(color)).
			Bold(true).
			Render(string(r)))
	}

	return result.String()
}

// InterpolateColor interpolates between two hex colors at the given position
func InterpolateColor(startColor, endColor string, position float64) string {
	startR, startG, startB, err := parseHexColor(startColor)
	if err != nil {
		return startColor
	}
	endR, endG, endB, err := parseHexColor(endColor)
	if err != nil {
		return startColor
	}

	position = min(max(position, 0), 1)

	r := int(float64(startR) + float64(endR-startR)*position)
	g := int(float64(startG) + float64(endG-startG)*position)
	b := int(float64(startB) + float64(endB-startB)*position)

	return fmt.Sprintf("#%02X%02X%02X", r, g, b)
}

// parseHexColor parses "#RRGGBB" into components
func parseHexColor(hexColor string) (int, int, int, error) {
	hexColor = strings.TrimPrefix(hexColor, "#")
	if len(hexColor) != 6 {
		return 0, 0, 0, fmt.Errorf("invalid hex color format")
	}

	v, err := strconv.ParseUint(hexColor, 16, 32)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid hex color: %w", err)
	}

	return int(v >> 16 & 0xFF), int(v >> 8 & 0xFF), int(v & 0xFF), nil
}
