// Package templates produces the content the song modal injects for each of
// its modes. Everything here is a pure function of its arguments.
package templates

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/songshelf/songshelf/internal/db"
)

// Well-known field names of the song input form
const (
	FieldTitle  = "Title"
	FieldArtist = "Artist"
	FieldGenre  = "Genre"
	FieldLink   = "Link"
)

// Control ids
const (
	ControlEdit   = "edit"
	ControlCancel = "cancel"
)

// FieldKind says which input a field is drawn with
type FieldKind int

const (
	FieldText FieldKind = iota
	FieldSelect
)

// Field declares one form input
type Field struct {
	Name        string
	Kind        FieldKind
	Value       string // prefill; selects get their options from the caller
	Placeholder string
}

// Control declares an activatable element that lives inside the content and
// is therefore recreated with every render.
type Control struct {
	ID      string
	Label   string
	Binding key.Binding
}

// Markup is what a template produces: a heading, an optional markdown body,
// and the fields and controls the content exposes.
type Markup struct {
	Title    string
	Body     string
	Fields   []Field
	Controls []Control
}

// Field returns the declared field with the given name
func (m Markup) Field(name string) (Field, bool) {
	for _, f := range m.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Control returns the declared control with the given id
func (m Markup) Control(id string) (Control, bool) {
	for _, c := range m.Controls {
		if c.ID == id {
			return c, true
		}
	}
	return Control{}, false
}

// SongDetail renders the read-only view of a song
func SongDetail(song db.Song, genreName string) Markup {
	if genreName == "" {
		genreName = "Unknown"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", escapeMarkdown(song.Title))
	fmt.Fprintf(&b, "- **Artist:** %s\n", escapeMarkdown(song.Artist))
	fmt.Fprintf(&b, "- **Genre:** %s\n", escapeMarkdown(genreName))
	fmt.Fprintf(&b, "- **Link:** %s\n", song.Link)
	if song.LastEdited != "" {
		fmt.Fprintf(&b, "\n*Last edited %s*\n", song.LastEdited)
	}

	return Markup{
		Title: "SONG DETAIL",
		Body:  b.String(),
		Controls: []Control{
			{
				ID:    ControlEdit,
				Label: "Edit",
				Binding: key.NewBinding(
					key.WithKeys("e"),
					key.WithHelp("e", "edit"),
				),
			},
		},
	}
}

// SongInputForm renders the add/edit form, prefilled from song when given
func SongInputForm(title string, song *db.Song) Markup {
	var s db.Song
	if song != nil {
		s = *song
	}

	return Markup{
		Title: strings.ToUpper(title),
		Fields: []Field{
			{Name: FieldTitle, Kind: FieldText, Value: s.Title, Placeholder: "Song title"},
			{Name: FieldArtist, Kind: FieldText, Value: s.Artist, Placeholder: "Artist name"},
			{Name: FieldGenre, Kind: FieldSelect},
			{Name: FieldLink, Kind: FieldText, Value: s.Link, Placeholder: "https://example.com/song"},
		},
		Controls: []Control{
			{
				ID:    ControlCancel,
				Label: "Cancel",
				Binding: key.NewBinding(
					key.WithKeys("ctrl+x"),
					key.WithHelp("^x", "cancel"),
				),
			},
		},
	}
}

// escapeMarkdown keeps user text from turning into markdown structure
func escapeMarkdown(s string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		"*", `\*`,
		"_", `\_`,
		"#", `\#`,
		"`", "\\`",
		"[", `\[`,
		"]", `\]`,
	)
	return r.Replace(s)
}
