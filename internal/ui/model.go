package ui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/songshelf/songshelf/internal/db"
)

const statusDelay = 3 * time.Second

// Options configures the application model
type Options struct {
	Theme           StyleTheme
	ReportAllErrors bool
	Logger          zerolog.Logger
	Clock           func() time.Time // nil means time.Now
}

// Model represents the application state for the TUI
type Model struct {
	songs   []db.Song
	genres  []db.Genre
	cursor  int
	loading bool
	err     error
	width   int
	height  int

	theme  StyleTheme
	logger zerolog.Logger

	statusMessage string
	confirmDelete bool // waiting for y/n on the selected song

	songModal SongModal
	helpModal HelpModal
	detail    db.Song // song behind the open detail view
}

// songsLoadedMsg represents songs loaded from the store
type songsLoadedMsg struct {
	songs    []db.Song
	err      error
	targetID string // song to put the cursor on, if present
}

// genresLoadedMsg represents genres loaded from the store
type genresLoadedMsg struct {
	genres []db.Genre
	err    error
}

// songSavedMsg reports the outcome of a submit
type songSavedMsg struct {
	song db.Song
	err  error
}

// songDeletedMsg reports the outcome of a delete
type songDeletedMsg struct {
	title string
	err   error
}

// addSongMsg is produced by the modal's add surface
type addSongMsg struct{}

// editSongMsg is produced by the detail view's edit control
type editSongMsg struct {
	song db.Song
}

// clearStatusMsg is sent to clear the status message after a delay
type clearStatusMsg struct{}

// NewModel creates the application model and wires the song modal handlers
func NewModel(opts Options) (Model, error) {
	modalOpts := []SongModalOption{
		WithTheme(opts.Theme),
		WithReportAllErrors(opts.ReportAllErrors),
		WithLogger(opts.Logger),
	}
	if opts.Clock != nil {
		modalOpts = append(modalOpts, WithClock(opts.Clock))
	}

	songModal, err := NewSongModal(DefaultSurfaces(), modalOpts...)
	if err != nil {
		return Model{}, fmt.Errorf("failed to create song modal: %w", err)
	}

	songModal.RegisterAddHandler(func() tea.Cmd {
		return func() tea.Msg { return addSongMsg{} }
	})
	songModal.RegisterCloseHandler(func() tea.Cmd {
		return func() tea.Msg { return clearStatusMsg{} }
	})
	if err := songModal.RegisterSubmitHandler(saveSong); err != nil {
		return Model{}, err
	}

	return Model{
		loading:   true,
		theme:     opts.Theme,
		logger:    opts.Logger,
		songModal: songModal,
		helpModal: NewHelpModal(opts.Theme),
	}, nil
}

// Init fetches the initial songs and genres
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		fetchSongs(""),
		fetchGenres(),
	)
}

// Update handles messages and updates the model state
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = msg.Width
		m.height = msg.Height
		m.helpModal.SetSize(msg.Width, msg.Height)
	}

	if key, ok := msg.(tea.KeyMsg); ok {
		if key.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.helpModal.IsOpen() {
			m.helpModal, cmd = m.helpModal.Update(msg)
			return m, cmd
		}

		// The delete prompt takes the next key, whatever it is
		if m.confirmDelete {
			return m.resolveDelete(key)
		}

		// Link actions stay available on top of the detail view
		if m.songModal.IsOpen() && m.songModal.Mode() == ModeDetail {
			switch key.String() {
			case "y":
				return m.yankLink()
			case "o":
				return m.openLink()
			}
		}
	}

	var consumed bool
	m.songModal, cmd, consumed = m.songModal.Update(msg)
	if consumed {
		return m, cmd
	}
	cmds = append(cmds, cmd)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleListKey(msg)

	case tea.MouseMsg:
		if m.helpModal.IsOpen() || m.confirmDelete || msg.Action != tea.MouseActionPress {
			break
		}
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			if m.cursor > 0 {
				m.cursor--
			}
		case tea.MouseButtonWheelDown:
			if m.cursor < len(m.songs)-1 {
				m.cursor++
			}
		}

	case songsLoadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err != nil {
			m.logger.Error().Err(msg.err).Msg("failed to load songs")
			break
		}
		m.songs = msg.songs
		m.placeCursor(msg.targetID)

	case genresLoadedMsg:
		if msg.err != nil {
			m.logger.Error().Err(msg.err).Msg("failed to load genres")
			m.statusMessage = fmt.Sprintf("✗ Failed to load genres: %v", msg.err)
			cmds = append(cmds, clearStatusAfterDelay(statusDelay))
			break
		}
		m.genres = msg.genres
		m.songModal.SetGenres(msg.genres)

	case addSongMsg:
		if err := m.songModal.Render(ModeAdd, nil); err != nil {
			return m.fail("open add form", err)
		}
		if err := m.songModal.SetSelectOptions(m.genres, ""); err != nil {
			return m.fail("fill genres", err)
		}

	case editSongMsg:
		if err := m.songModal.Render(ModeEdit, &msg.song); err != nil {
			return m.fail("open edit form", err)
		}
		if err := m.songModal.SetSelectOptions(m.genres, msg.song.GenreID); err != nil {
			return m.fail("fill genres", err)
		}

	case songSavedMsg:
		if msg.err != nil {
			m.logger.Error().Err(msg.err).Str("song_id", msg.song.ID).Msg("failed to save song")
			m.statusMessage = fmt.Sprintf("✗ Save failed: %v", msg.err)
		} else {
			m.logger.Info().Str("song_id", msg.song.ID).Msg("song saved")
			m.statusMessage = fmt.Sprintf("✓ Saved %q", msg.song.Title)
			cmds = append(cmds, fetchSongs(msg.song.ID))
		}
		cmds = append(cmds, clearStatusAfterDelay(statusDelay))

	case songDeletedMsg:
		if msg.err != nil {
			m.logger.Error().Err(msg.err).Msg("failed to delete song")
			m.statusMessage = fmt.Sprintf("✗ Delete failed: %v", msg.err)
		} else {
			m.statusMessage = fmt.Sprintf("✓ Deleted %q", msg.title)
			cmds = append(cmds, fetchSongs(""))
		}
		cmds = append(cmds, clearStatusAfterDelay(statusDelay))

	case clearStatusMsg:
		if !m.confirmDelete {
			m.statusMessage = ""
		}
	}

	return m, tea.Batch(cmds...)
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "j", "down":
		if m.cursor < len(m.songs)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "g":
		m.cursor = 0
	case "G":
		if len(m.songs) > 0 {
			m.cursor = len(m.songs) - 1
		}

	case "enter":
		song, ok := m.selected()
		if !ok {
			return m, nil
		}
		if err := m.songModal.Render(ModeDetail, &song); err != nil {
			return m.fail("show song", err)
		}
		// Controls are scoped to a render, so bind edit again every time
		if err := m.songModal.RegisterEditHandler(song, editSong); err != nil {
			return m.fail("bind edit", err)
		}
		m.detail = song

	case "d":
		if song, ok := m.selected(); ok {
			m.confirmDelete = true
			m.statusMessage = fmt.Sprintf("Delete %q? (y/n)", song.Title)
		}

	case "r":
		m.loading = true
		var targetID string
		if song, ok := m.selected(); ok {
			targetID = song.ID
		}
		return m, tea.Batch(fetchSongs(targetID), fetchGenres())

	case "?":
		m.helpModal.SetSize(m.width, m.height)
		m.helpModal.Open()
	}

	return m, nil
}

// resolveDelete consumes the key answering the delete prompt
func (m Model) resolveDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.confirmDelete = false
	m.statusMessage = ""

	song, ok := m.selected()
	if !ok || msg.String() != "y" {
		return m, nil
	}
	return m, deleteSong(song)
}

func (m Model) yankLink() (tea.Model, tea.Cmd) {
	song, ok := m.detailSong()
	if !ok {
		return m, nil
	}

	if err := copyToClipboard(song.Link); err != nil {
		m.logger.Warn().Err(err).Msg("clipboard copy failed")
		m.statusMessage = fmt.Sprintf("✗ Copy failed: %v", err)
	} else {
		m.statusMessage = "✓ Link copied to clipboard"
	}
	return m, clearStatusAfterDelay(statusDelay)
}

func (m Model) openLink() (tea.Model, tea.Cmd) {
	song, ok := m.detailSong()
	if !ok {
		return m, nil
	}

	if err := openInBrowser(song.Link); err != nil {
		m.logger.Warn().Err(err).Msg("browser open failed")
		m.statusMessage = fmt.Sprintf("✗ Open failed: %v", err)
	} else {
		m.statusMessage = "✓ Opened in browser"
	}
	return m, clearStatusAfterDelay(statusDelay)
}

// detailSong is the song the open detail view was rendered for. Reloads
// may move the cursor underneath it.
func (m Model) detailSong() (db.Song, bool) {
	if !m.songModal.IsOpen() || m.songModal.Mode() != ModeDetail || m.detail.Link == "" {
		return db.Song{}, false
	}
	return m.detail, true
}

func (m Model) selected() (db.Song, bool) {
	if m.cursor < 0 || m.cursor >= len(m.songs) {
		return db.Song{}, false
	}
	return m.songs[m.cursor], true
}

// placeCursor moves the cursor to targetID, or keeps it in bounds
func (m *Model) placeCursor(targetID string) {
	if targetID != "" {
		for i, s := range m.songs {
			if s.ID == targetID {
				m.cursor = i
				return
			}
		}
	}
	if m.cursor >= len(m.songs) {
		m.cursor = max(len(m.songs)-1, 0)
	}
}

// fail reports a modal wiring error in the status bar
func (m Model) fail(action string, err error) (tea.Model, tea.Cmd) {
	m.logger.Error().Err(err).Msg(action)
	m.statusMessage = fmt.Sprintf("✗ Failed to %s: %v", action, err)
	return m, clearStatusAfterDelay(statusDelay)
}

// View renders the current model state
func (m Model) View() string {
	baseView := renderList(m)

	if m.helpModal.IsOpen() {
		return m.helpModal.ViewWithOverlay(baseView, m.width, m.height)
	}
	if m.songModal.IsOpen() {
		return m.songModal.ViewWithOverlay(baseView, m.width, m.height)
	}

	return baseView
}

// fetchSongs returns a command that loads every song
func fetchSongs(targetID string) tea.Cmd {
	return func() tea.Msg {
		songs, err := db.GetSongs()
		return songsLoadedMsg{songs: songs, err: err, targetID: targetID}
	}
}

// fetchGenres returns a command that loads every genre
func fetchGenres() tea.Cmd {
	return func() tea.Msg {
		genres, err := db.GetGenres()
		return genresLoadedMsg{genres: genres, err: err}
	}
}

// saveSong is the song modal's submit handler
func saveSong(input SongInput) tea.Cmd {
	return func() tea.Msg {
		song, err := db.SaveSong(db.Song{
			ID:         input.ID,
			Title:      input.Title,
			Artist:     input.Artist,
			Link:       input.Link,
			GenreID:    input.GenreID,
			LastEdited: input.LastEdited,
		})
		if err != nil {
			song = db.Song{ID: input.ID, Title: input.Title}
		}
		return songSavedMsg{song: song, err: err}
	}
}

// editSong is the detail view's edit handler
func editSong(song db.Song) tea.Cmd {
	return func() tea.Msg { return editSongMsg{song: song} }
}

func deleteSong(song db.Song) tea.Cmd {
	return func() tea.Msg {
		return songDeletedMsg{title: song.Title, err: db.DeleteSong(song.ID)}
	}
}

// clearStatusAfterDelay returns a command that clears the status message after a delay
func clearStatusAfterDelay(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}
