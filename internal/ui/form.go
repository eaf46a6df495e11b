package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/songshelf/songshelf/internal/templates"
)

// ErrFieldMissing is returned when rendered content lacks a well-known field
var ErrFieldMissing = errors.New("form field missing")

// SelectOption is one choice of a Select
type SelectOption struct {
	Value    string
	Label    string
	Selected bool
}

// Select is a single-choice control cycled with left/right
type Select struct {
	options []SelectOption
}

// SetOptions replaces every option
func (s *Select) SetOptions(options []SelectOption) {
	s.options = append([]SelectOption(nil), options...)
}

// Options returns a copy of the current options
func (s Select) Options() []SelectOption {
	return append([]SelectOption(nil), s.options...)
}

// selectedIndex is the marked option, else the first, else -1
func (s Select) selectedIndex() int {
	for i, o := range s.options {
		if o.Selected {
			return i
		}
	}
	if len(s.options) > 0 {
		return 0
	}
	return -1
}

// Value returns the chosen option's value
func (s Select) Value() string {
	if i := s.selectedIndex(); i >= 0 {
		return s.options[i].Value
	}
	return ""
}

// move shifts the selection by delta, wrapping around
func (s *Select) move(delta int) {
	if len(s.options) == 0 {
		return
	}
	next := (s.selectedIndex() + delta + len(s.options)) % len(s.options)
	for i := range s.options {
		s.options[i].Selected = i == next
	}
}

func (s Select) view(focused bool, theme StyleTheme) string {
	i := s.selectedIndex()
	if i < 0 {
		return theme.MutedStyle().Render("(no options)")
	}

	label := s.options[i].Label
	if focused {
		return theme.SelectedStyle().Render("◂ " + label + " ▸")
	}
	return theme.TextStyle().Render("  " + label + "  ")
}

// formField is one live input built from a templates.Field
type formField struct {
	name  string
	kind  templates.FieldKind
	input textinput.Model
	sel   Select
}

// songForm holds the inputs of the current add/edit render. Focus walks the
// fields in order, then the save and cancel buttons.
type songForm struct {
	fields []formField
	focus  int
}

const (
	buttonSave = iota
	buttonCancel
	buttonCount
)

func newSongForm(fields []templates.Field, width int) *songForm {
	f := &songForm{fields: make([]formField, 0, len(fields))}

	for _, decl := range fields {
		ff := formField{name: decl.Name, kind: decl.Kind}
		if decl.Kind == templates.FieldText {
			ti := textinput.New()
			ti.Prompt = ""
			ti.CharLimit = 512
			ti.Width = max(width, 10)
			ti.Placeholder = decl.Placeholder
			ti.SetValue(decl.Value)
			ff.input = ti
		}
		f.fields = append(f.fields, ff)
	}

	f.setFocus(0)
	return f
}

// field returns the live field with the given name
func (f *songForm) field(name string) (*formField, bool) {
	for i := range f.fields {
		if f.fields[i].name == name {
			return &f.fields[i], true
		}
	}
	return nil, false
}

func (f *songForm) stops() int {
	return len(f.fields) + buttonCount
}

func (f *songForm) setFocus(i int) {
	f.focus = (i + f.stops()) % f.stops()
	for j := range f.fields {
		if f.fields[j].kind != templates.FieldText {
			continue
		}
		if j == f.focus {
			f.fields[j].input.Focus()
		} else {
			f.fields[j].input.Blur()
		}
	}
}

// focusedButton returns the focused button, or -1 when a field has focus
func (f *songForm) focusedButton() int {
	if f.focus < len(f.fields) {
		return -1
	}
	return f.focus - len(f.fields)
}

func (f *songForm) setWidth(width int) {
	for i := range f.fields {
		f.fields[i].input.Width = max(width, 10)
	}
}

// update handles navigation and typing; submit and cancel are the caller's
func (f *songForm) update(msg tea.Msg) tea.Cmd {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "tab", "down":
			f.setFocus(f.focus + 1)
			return nil
		case "shift+tab", "up":
			f.setFocus(f.focus - 1)
			return nil
		}

		if f.focus < len(f.fields) && f.fields[f.focus].kind == templates.FieldSelect {
			switch keyMsg.String() {
			case "left", "h":
				f.fields[f.focus].sel.move(-1)
			case "right", "l", " ":
				f.fields[f.focus].sel.move(1)
			}
			return nil
		}
	}

	if f.focus >= len(f.fields) || f.fields[f.focus].kind != templates.FieldText {
		return nil
	}

	var cmd tea.Cmd
	f.fields[f.focus].input, cmd = f.fields[f.focus].input.Update(msg)
	return cmd
}

func (f *songForm) view(theme StyleTheme, width int) string {
	var lines []string

	activeStyle := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(theme.Cyan).
		Width(width).
		Padding(0, 1)
	inactiveStyle := activeStyle.BorderForeground(theme.DarkGray)

	for i, ff := range f.fields {
		lines = append(lines, theme.TextStyle().Render(ff.name+":"))

		style := inactiveStyle
		if i == f.focus {
			style = activeStyle
		}

		switch ff.kind {
		case templates.FieldSelect:
			lines = append(lines, style.Render(ff.sel.view(i == f.focus, theme)))
		default:
			lines = append(lines, style.Render(ff.input.View()))
		}
	}

	lines = append(lines, "", f.buttonsView(theme))
	return strings.Join(lines, "\n")
}

func (f *songForm) buttonsView(theme StyleTheme) string {
	button := lipgloss.NewStyle().
		Foreground(theme.White).
		Background(theme.DarkGray).
		Padding(0, 2)
	focused := button.
		Foreground(lipgloss.Color("#000000")).
		Background(theme.Cyan).
		Bold(true)

	labels := [buttonCount]string{buttonSave: "Save", buttonCancel: "Cancel"}
	rendered := make([]string, 0, buttonCount)
	for i, label := range labels {
		if f.focusedButton() == i {
			rendered = append(rendered, focused.Render(label))
		} else {
			rendered = append(rendered, button.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered[0], "  ", rendered[1])
}

// fieldReader maps each well-known field name to an accessor over the live
// form. It is built once per render so a missing field fails at render time
// instead of at submit time.
type fieldReader map[string]func() string

// requiredFields lists the names the song form must declare, with their kind
var requiredFields = []struct {
	name string
	kind templates.FieldKind
}{
	{templates.FieldTitle, templates.FieldText},
	{templates.FieldArtist, templates.FieldText},
	{templates.FieldGenre, templates.FieldSelect},
	{templates.FieldLink, templates.FieldText},
}

func newFieldReader(form *songForm) (fieldReader, error) {
	r := make(fieldReader, len(requiredFields))

	for _, req := range requiredFields {
		ff, ok := form.field(req.name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrFieldMissing, req.name)
		}
		if ff.kind != req.kind {
			return nil, fmt.Errorf("%w: %q has the wrong kind", ErrFieldMissing, req.name)
		}

		switch req.kind {
		case templates.FieldSelect:
			r[req.name] = func() string { return ff.sel.Value() }
		default:
			r[req.name] = func() string { return ff.input.Value() }
		}
	}

	return r, nil
}

// read returns the raw value of a declared field
func (r fieldReader) read(name string) string {
	if get, ok := r[name]; ok {
		return get()
	}
	return ""
}
