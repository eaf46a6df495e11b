package ui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
	"github.com/songshelf/songshelf/internal/db"
	"github.com/songshelf/songshelf/internal/templates"
)

var (
	// ErrSurfaceMissing is returned by NewSongModal when a required
	// interaction point has no keys bound.
	ErrSurfaceMissing = errors.New("modal surface missing")
	// ErrRecordRequired is returned when a mode needs a song and got none
	ErrRecordRequired = errors.New("song required")
	// ErrControlMissing is returned when the current content has no such control
	ErrControlMissing = errors.New("control not rendered")
	// ErrSubmitHandlerRegistered guards the single submit handler
	ErrSubmitHandlerRegistered = errors.New("submit handler already registered")
)

// Mode selects what the song modal presents
type Mode int

const (
	ModeNone Mode = iota
	ModeDetail
	ModeAdd
	ModeEdit
)

func (m Mode) String() string {
	switch m {
	case ModeDetail:
		return "Song Detail"
	case ModeAdd:
		return "Add Song"
	case ModeEdit:
		return "Edit Song"
	default:
		return "None"
	}
}

// isoMillis matches the ISO-8601 form browsers produce for timestamps
const isoMillis = "2006-01-02T15:04:05.000Z"

// Surfaces are the interaction points that outlive any single render
type Surfaces struct {
	Close  key.Binding // closes the overlay from any mode
	Add    key.Binding // starts adding a song; only live while closed
	Submit key.Binding // submits the input form
}

// DefaultSurfaces returns the standard key layout
func DefaultSurfaces() Surfaces {
	return Surfaces{
		Close: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close"),
		),
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add song"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter", "ctrl+s"),
			key.WithHelp("↵", "save"),
		),
	}
}

// controlAction is what activating a render-scoped control does
type controlAction struct {
	closes bool
	run    func() tea.Cmd
}

// SongModalOption configures a SongModal
type SongModalOption func(*SongModal)

// WithClock replaces time.Now for the LastEdited stamp
func WithClock(now func() time.Time) SongModalOption {
	return func(m *SongModal) { m.now = now }
}

// WithReportAllErrors switches validation to list every failing field
func WithReportAllErrors(reportAll bool) SongModalOption {
	return func(m *SongModal) { m.reportAll = reportAll }
}

// WithTheme sets the palette
func WithTheme(theme StyleTheme) SongModalOption {
	return func(m *SongModal) { m.theme = theme }
}

// WithLogger sets the logger; the default discards
func WithLogger(logger zerolog.Logger) SongModalOption {
	return func(m *SongModal) { m.logger = logger }
}

// SongModal owns the song overlay: whether it is open, what it shows,
// turning the submitted form into a SongInput and dispatching user actions
// to the handlers registered by the caller.
type SongModal struct {
	Modal
	surfaces  Surfaces
	theme     StyleTheme
	logger    zerolog.Logger
	now       func() time.Time
	reportAll bool

	// current render
	mode     Mode
	recordID string
	markup   templates.Markup
	form     *songForm
	reader   fieldReader
	body     viewport.Model
	alert    string
	scoped   map[string]controlAction
	genres   []db.Genre

	onClose  func() tea.Cmd
	onAdd    func() tea.Cmd
	onSubmit func(SongInput) tea.Cmd
}

// NewSongModal creates a closed song modal bound to surfaces
func NewSongModal(surfaces Surfaces, opts ...SongModalOption) (SongModal, error) {
	for _, s := range []struct {
		name    string
		binding key.Binding
	}{
		{"close", surfaces.Close},
		{"add", surfaces.Add},
		{"submit", surfaces.Submit},
	} {
		if len(s.binding.Keys()) == 0 {
			return SongModal{}, fmt.Errorf("%w: %s has no keys bound", ErrSurfaceMissing, s.name)
		}
	}

	m := SongModal{
		Modal:    NewModal("", 56, 18),
		surfaces: surfaces,
		theme:    CleanCyberTheme,
		logger:   zerolog.Nop(),
		now:      time.Now,
		body:     viewport.New(52, 10),
		scoped:   map[string]controlAction{},
	}
	for _, opt := range opts {
		opt(&m)
	}

	return m, nil
}

// Mode reports what the last render presented
func (m SongModal) Mode() Mode {
	return m.mode
}

// RecordID returns the id tagged by the last add/edit render ("" for new)
func (m SongModal) RecordID() string {
	return m.recordID
}

// Alert returns the validation message currently blocking the modal
func (m SongModal) Alert() string {
	return m.alert
}

// Content returns the markup of the current render
func (m SongModal) Content() templates.Markup {
	return m.markup
}

// SetGenres gives the detail view names for genre ids
func (m *SongModal) SetGenres(genres []db.Genre) {
	m.genres = genres
}

// SetSize fits the modal to the terminal
func (m *SongModal) SetSize(width, height int) {
	modalWidth := min(max(width*60/100, 50), 80)
	modalHeight := min(max(height*70/100, 16), 30)

	if width < modalWidth+4 {
		modalWidth = max(width-4, 20)
	}
	if height < modalHeight+2 {
		modalHeight = max(height-2, 8)
	}

	m.width = modalWidth
	m.height = modalHeight
	m.body.Width = m.contentWidth()
	m.body.Height = max(modalHeight-8, 3)

	if m.form != nil {
		m.form.setWidth(m.contentWidth() - 4)
	}
	if m.mode == ModeDetail {
		m.refreshBody()
	}
}

func (m SongModal) contentWidth() int {
	// border (2) + padding (4)
	return max(m.width-6, 10)
}

// Render replaces the modal content for mode and opens it.
//
// ModeDetail needs song. ModeAdd ignores song and tags the empty record id.
// ModeEdit prefills from song and tags its id. Controls of the previous
// render are dropped; in the input modes the cancel control closes the
// modal. Rendering while open replaces the content in place.
func (m *SongModal) Render(mode Mode, song *db.Song) error {
	var markup templates.Markup
	recordID := m.recordID

	switch mode {
	case ModeDetail:
		if song == nil {
			return fmt.Errorf("%w: %s", ErrRecordRequired, mode)
		}
		markup = templates.SongDetail(*song, db.GenreName(m.genres, song.GenreID))
	case ModeAdd:
		recordID = ""
		markup = templates.SongInputForm(mode.String(), nil)
	case ModeEdit:
		recordID = ""
		if song != nil {
			recordID = song.ID
		}
		markup = templates.SongInputForm(mode.String(), song)
	default:
		return fmt.Errorf("unknown modal mode %d", mode)
	}

	// Build the new content fully before replacing the old one
	var form *songForm
	var reader fieldReader
	if len(markup.Fields) > 0 {
		form = newSongForm(markup.Fields, m.contentWidth()-4)
		var err error
		if reader, err = newFieldReader(form); err != nil {
			return fmt.Errorf("render %s: %w", mode, err)
		}
	}

	m.mode = mode
	m.recordID = recordID
	m.markup = markup
	m.form = form
	m.reader = reader
	m.alert = ""
	m.title = markup.Title

	m.scoped = map[string]controlAction{}
	if _, ok := markup.Control(templates.ControlCancel); ok {
		m.scoped[templates.ControlCancel] = controlAction{closes: true}
	}

	m.refreshBody()
	m.logger.Debug().
		Str("mode", mode.String()).
		Str("record_id", m.recordID).
		Msg("song modal rendered")

	m.Open()
	return nil
}

// refreshBody renders the markdown body of the current markup
func (m *SongModal) refreshBody() {
	if m.markup.Body == "" {
		m.body.SetContent("")
		return
	}

	content, err := renderMarkdown(m.markup.Body, m.theme, m.contentWidth())
	if err != nil {
		m.logger.Warn().Err(err).Msg("markdown render failed, showing raw body")
		content = wrapText(m.markup.Body, m.contentWidth())
	}

	m.body.SetContent(content)
	m.body.GotoTop()
}

func renderMarkdown(body string, theme StyleTheme, width int) (string, error) {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStyles(theme.ToGlamourStyle()),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create markdown renderer: %w", err)
	}

	out, err := renderer.Render(body)
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// RegisterCloseHandler runs fn after the close surface closes the modal
func (m *SongModal) RegisterCloseHandler(fn func() tea.Cmd) {
	m.onClose = fn
}

// RegisterAddHandler runs fn when the add surface is activated while the
// modal is closed. The caller is expected to Render(ModeAdd, nil) next.
func (m *SongModal) RegisterAddHandler(fn func() tea.Cmd) {
	m.onAdd = fn
}

// RegisterSubmitHandler sets the handler that receives validated input.
// It may be set once for the lifetime of the modal.
func (m *SongModal) RegisterSubmitHandler(fn func(SongInput) tea.Cmd) error {
	if m.onSubmit != nil {
		return ErrSubmitHandlerRegistered
	}
	m.onSubmit = fn
	return nil
}

// RegisterEditHandler binds the edit control of the current render to song.
// The binding is dropped by the next Render, so call it after every render
// that shows an edit control.
func (m *SongModal) RegisterEditHandler(song db.Song, fn func(db.Song) tea.Cmd) error {
	if _, ok := m.markup.Control(templates.ControlEdit); !ok {
		return fmt.Errorf("%w: %s", ErrControlMissing, templates.ControlEdit)
	}
	m.scoped[templates.ControlEdit] = controlAction{
		run: func() tea.Cmd { return fn(song) },
	}
	return nil
}

// SetSelectOptions replaces the genre options of the current form, marking
// the genre whose id equals selectedID.
func (m *SongModal) SetSelectOptions(genres []db.Genre, selectedID string) error {
	if m.form == nil {
		return fmt.Errorf("%w: %s", ErrControlMissing, templates.FieldGenre)
	}
	ff, ok := m.form.field(templates.FieldGenre)
	if !ok || ff.kind != templates.FieldSelect {
		return fmt.Errorf("%w: %s", ErrControlMissing, templates.FieldGenre)
	}

	options := make([]SelectOption, 0, len(genres))
	for _, g := range genres {
		options = append(options, SelectOption{
			Value:    g.ID,
			Label:    g.Name,
			Selected: g.ID == selectedID,
		})
	}
	ff.sel.SetOptions(options)
	return nil
}

// GenreOptions returns the options of the current form's genre select
func (m SongModal) GenreOptions() []SelectOption {
	if m.form == nil {
		return nil
	}
	if ff, ok := m.form.field(templates.FieldGenre); ok {
		return ff.sel.Options()
	}
	return nil
}

// Update feeds a message to the modal. The bool reports whether the modal
// consumed it; while open every key is consumed.
func (m SongModal) Update(msg tea.Msg) (SongModal, tea.Cmd, bool) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil, false

	case tea.KeyMsg:
		if !m.visible {
			if key.Matches(msg, m.surfaces.Add) && m.onAdd != nil {
				return m, m.onAdd(), true
			}
			return m, nil, false
		}
		cmd := m.handleKey(msg)
		return m, cmd, true

	case tea.MouseMsg:
		if !m.visible {
			return m, nil, false
		}
		// The wheel scrolls the detail body; the form ignores the mouse
		var cmd tea.Cmd
		if m.form == nil && m.alert == "" {
			m.body, cmd = m.body.Update(msg)
		}
		return m, cmd, true
	}

	// Cursor blink and other input plumbing
	if m.visible && m.form != nil {
		return m, m.form.update(msg), false
	}
	return m, nil, false
}

func (m *SongModal) handleKey(msg tea.KeyMsg) tea.Cmd {
	// A pending alert blocks everything until dismissed
	if m.alert != "" {
		switch msg.String() {
		case "enter", "esc", " ":
			m.alert = ""
		}
		return nil
	}

	if key.Matches(msg, m.surfaces.Close) {
		m.Close()
		m.logger.Debug().Str("mode", m.mode.String()).Msg("song modal closed")
		if m.onClose != nil {
			return m.onClose()
		}
		return nil
	}

	for _, c := range m.markup.Controls {
		if key.Matches(msg, c.Binding) {
			return m.activate(c.ID)
		}
	}

	if m.form == nil {
		// Detail: scroll the body
		var cmd tea.Cmd
		m.body, cmd = m.body.Update(msg)
		return cmd
	}

	if key.Matches(msg, m.surfaces.Submit) {
		if msg.String() == "enter" && m.form.focusedButton() == buttonCancel {
			return m.activate(templates.ControlCancel)
		}
		return m.submit()
	}

	return m.form.update(msg)
}

// activate runs the render-scoped control id, if bound
func (m *SongModal) activate(id string) tea.Cmd {
	action, ok := m.scoped[id]
	if !ok {
		return nil
	}
	if action.closes {
		m.Close()
	}
	if action.run != nil {
		return action.run()
	}
	return nil
}

// readInput assembles a SongInput from the live form
func (m *SongModal) readInput() SongInput {
	return SongInput{
		ID:         m.recordID,
		Title:      strings.TrimSpace(m.reader.read(templates.FieldTitle)),
		Artist:     strings.TrimSpace(m.reader.read(templates.FieldArtist)),
		LastEdited: m.now().UTC().Format(isoMillis),
		Link:       strings.TrimSpace(m.reader.read(templates.FieldLink)),
		GenreID:    m.reader.read(templates.FieldGenre),
	}
}

// submit validates the form. Valid input goes to the submit handler and
// closes the modal; invalid input raises the alert and keeps the form.
func (m *SongModal) submit() tea.Cmd {
	if m.form == nil {
		return nil
	}

	data := m.readInput()
	if err := Check(data, m.reportAll); err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			m.alert = verr.Message
		}
		m.logger.Debug().Str("record_id", data.ID).Err(err).Msg("song input rejected")
		return nil
	}

	var cmd tea.Cmd
	if m.onSubmit != nil {
		cmd = m.onSubmit(data)
	} else {
		m.logger.Warn().Msg("song submitted with no submit handler registered")
	}
	m.Close()
	return cmd
}

// View renders the modal frame with the current content
func (m SongModal) View() string {
	if !m.visible {
		return ""
	}

	theme := m.theme
	width := m.contentWidth()

	var content strings.Builder
	content.WriteString(theme.SelectedStyle().Render(m.title))
	content.WriteString("\n\n")

	if m.form != nil {
		content.WriteString(m.form.view(theme, width-4))
	} else {
		content.WriteString(m.body.View())
	}

	if m.alert != "" {
		content.WriteString("\n\n")
		content.WriteString(m.alertView(width))
	}

	statusBar := theme.StatusBarStyle().
		Width(width).
		Render(m.hints())

	modalStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Cyan).
		Width(m.width).
		Padding(1, 2)

	return modalStyle.Render(lipgloss.JoinVertical(
		lipgloss.Left,
		content.String(),
		"",
		statusBar,
	))
}

func (m SongModal) alertView(width int) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(m.theme.Accent).
		Padding(0, 1).
		Width(width - 2)

	msg := wrapText(m.alert, width-6)
	return box.Render(m.theme.ErrorStyle().Render("⚠ "+msg) + "\n\n" +
		m.theme.MutedStyle().Render("[↵] ok"))
}

// hints lists the keys that do something right now
func (m SongModal) hints() string {
	if m.alert != "" {
		return "[↵] dismiss"
	}

	var parts []string
	for _, c := range m.markup.Controls {
		if _, bound := m.scoped[c.ID]; bound {
			h := c.Binding.Help()
			parts = append(parts, fmt.Sprintf("[%s] %s", h.Key, h.Desc))
		}
	}
	if m.form != nil {
		parts = append([]string{"[tab] next", "[←/→] genre", "[↵] save"}, parts...)
	} else {
		parts = append([]string{"[↑/↓] scroll"}, parts...)
	}
	closeHelp := m.surfaces.Close.Help()
	parts = append(parts, fmt.Sprintf("[%s] %s", closeHelp.Key, closeHelp.Desc))

	return strings.Join(parts, " ")
}

// ViewWithOverlay draws the modal over backgroundView
func (m SongModal) ViewWithOverlay(backgroundView string, termWidth, termHeight int) string {
	if !m.visible {
		return backgroundView
	}
	return placeOverlay(backgroundView, m.View(), termWidth, termHeight)
}
