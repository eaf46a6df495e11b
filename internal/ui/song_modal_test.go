package ui

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/songshelf/songshelf/internal/db"
	"github.com/songshelf/songshelf/internal/templates"
)

var fixedNow = time.Date(2024, 3, 9, 14, 5, 7, 123_000_000, time.FixedZone("CET", 3600))

var testGenres = []db.Genre{{ID: "g1", Name: "Rock"}, {ID: "g2", Name: "Jazz"}}

func newTestSongModal(t *testing.T, opts ...SongModalOption) SongModal {
	t.Helper()
	opts = append([]SongModalOption{WithClock(func() time.Time { return fixedNow })}, opts...)
	m, err := NewSongModal(DefaultSurfaces(), opts...)
	if err != nil {
		t.Fatalf("NewSongModal: %v", err)
	}
	return m
}

func press(m SongModal, msg tea.KeyMsg) (SongModal, tea.Cmd, bool) {
	return m.Update(msg)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	enterKey  = tea.KeyMsg{Type: tea.KeyEnter}
	escKey    = tea.KeyMsg{Type: tea.KeyEsc}
	cancelKey = tea.KeyMsg{Type: tea.KeyCtrlX}
)

func fillForm(t *testing.T, m *SongModal, title, artist, link string) {
	t.Helper()
	for name, value := range map[string]string{
		templates.FieldTitle:  title,
		templates.FieldArtist: artist,
		templates.FieldLink:   link,
	} {
		ff, ok := m.form.field(name)
		if !ok {
			t.Fatalf("form has no %s field", name)
		}
		ff.input.SetValue(value)
	}
}

func TestNewSongModal_SurfaceMissing(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Surfaces)
		want   string
	}{
		{"close", func(s *Surfaces) { s.Close = key.NewBinding() }, "close"},
		{"add", func(s *Surfaces) { s.Add = key.NewBinding() }, "add"},
		{"submit", func(s *Surfaces) { s.Submit = key.NewBinding() }, "submit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			surfaces := DefaultSurfaces()
			tt.mutate(&surfaces)

			_, err := NewSongModal(surfaces)
			if !errors.Is(err, ErrSurfaceMissing) {
				t.Fatalf("Expected ErrSurfaceMissing, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Error should name the %s surface: %v", tt.want, err)
			}
		})
	}
}

func TestSongModal_OpenCloseIdempotent(t *testing.T) {
	m := newTestSongModal(t)

	if m.IsOpen() {
		t.Fatal("Song modal should start closed")
	}
	m.Close()
	if m.IsOpen() {
		t.Error("Close on a closed modal should be a no-op")
	}
	m.Open()
	m.Open()
	if !m.IsOpen() {
		t.Error("Open twice should leave it open")
	}
	m.Close()
	if m.IsOpen() {
		t.Error("Close should close")
	}
}

func TestSongModal_RenderRecordID(t *testing.T) {
	song := db.Song{ID: "r1", Title: "So What", Artist: "Miles Davis", Link: "https://x.com", GenreID: "g2"}

	tests := []struct {
		name string
		mode Mode
		song *db.Song
		want string
	}{
		{"add ignores song", ModeAdd, &song, ""},
		{"add without song", ModeAdd, nil, ""},
		{"edit tags song id", ModeEdit, &song, "r1"},
		{"edit without song", ModeEdit, nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestSongModal(t)
			if err := m.Render(tt.mode, tt.song); err != nil {
				t.Fatalf("Render: %v", err)
			}
			if got := m.RecordID(); got != tt.want {
				t.Errorf("RecordID() = %q, want %q", got, tt.want)
			}
			if !m.IsOpen() {
				t.Error("Render should open the modal")
			}
			if m.Mode() != tt.mode {
				t.Errorf("Mode() = %v, want %v", m.Mode(), tt.mode)
			}
		})
	}
}

func TestSongModal_RenderEditPrefills(t *testing.T) {
	m := newTestSongModal(t)
	song := db.Song{ID: "r1", Title: "So What", Artist: "Miles Davis", Link: "https://x.com/sw", GenreID: "g2"}

	if err := m.Render(ModeEdit, &song); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if err := m.SetSelectOptions(testGenres, song.GenreID); err != nil {
		t.Fatalf("SetSelectOptions: %v", err)
	}

	input := m.readInput()
	if input.Title != "So What" || input.Artist != "Miles Davis" || input.Link != "https://x.com/sw" {
		t.Errorf("Form not prefilled from song: %+v", input)
	}
	if input.GenreID != "g2" {
		t.Errorf("Expected genre g2 selected, got %q", input.GenreID)
	}
}

func TestSongModal_RenderDetail(t *testing.T) {
	m := newTestSongModal(t)

	if err := m.Render(ModeDetail, nil); !errors.Is(err, ErrRecordRequired) {
		t.Errorf("Detail without song should fail with ErrRecordRequired, got %v", err)
	}
	if m.IsOpen() {
		t.Error("A failed render should not open the modal")
	}

	m.SetGenres(testGenres)
	song := db.Song{ID: "r1", Title: "Paranoid", Artist: "Black Sabbath", Link: "https://x.com", GenreID: "g1"}
	if err := m.Render(ModeDetail, &song); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if m.form != nil {
		t.Error("Detail render should have no form")
	}
	if !strings.Contains(m.Content().Body, "Rock") {
		t.Errorf("Detail body should resolve the genre name: %q", m.Content().Body)
	}

	// Submit does nothing in detail mode
	called := false
	_ = m.RegisterSubmitHandler(func(SongInput) tea.Cmd { called = true; return nil })
	m, _, consumed := press(m, enterKey)
	if called {
		t.Error("Detail mode must not submit")
	}
	if !consumed || !m.IsOpen() {
		t.Error("Open modal should consume enter and stay open")
	}
}

func TestSongModal_MouseWheel(t *testing.T) {
	m := newTestSongModal(t)
	wheelDown := tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonWheelDown}

	if _, _, consumed := m.Update(wheelDown); consumed {
		t.Error("Closed modal should leave the mouse to the host")
	}

	song := db.Song{ID: "r1", Title: "Paranoid", Artist: "Black Sabbath", Link: "https://x.com"}
	if err := m.Render(ModeDetail, &song); err != nil {
		t.Fatalf("Render: %v", err)
	}
	m.body.SetContent(strings.Repeat("line\n", 200))

	m, _, consumed := m.Update(wheelDown)
	if !consumed {
		t.Error("Open modal should consume the mouse")
	}
	if m.body.YOffset == 0 {
		t.Error("Wheel should scroll the detail body")
	}
}

func TestSongModal_RenderWhileOpenReplacesContent(t *testing.T) {
	m := newTestSongModal(t)
	song := db.Song{ID: "r1", Title: "A", Artist: "B", Link: "https://x.com"}

	if err := m.Render(ModeDetail, &song); err != nil {
		t.Fatal(err)
	}
	if err := m.RegisterEditHandler(song, func(db.Song) tea.Cmd { return nil }); err != nil {
		t.Fatal(err)
	}
	if err := m.Render(ModeEdit, &song); err != nil {
		t.Fatal(err)
	}

	if !m.IsOpen() || m.Mode() != ModeEdit {
		t.Errorf("Expected open edit modal, got open=%v mode=%v", m.IsOpen(), m.Mode())
	}
	if _, ok := m.scoped[templates.ControlEdit]; ok {
		t.Error("Edit binding of the previous render should be dropped")
	}
	if _, ok := m.scoped[templates.ControlCancel]; !ok {
		t.Error("Cancel control should be bound in input modes")
	}
}

func TestSongModal_AddSurface(t *testing.T) {
	m := newTestSongModal(t)

	// No handler: not consumed
	_, _, consumed := press(m, runes("a"))
	if consumed {
		t.Error("Add surface without a handler should not consume the key")
	}

	type addMsg struct{}
	m.RegisterAddHandler(func() tea.Cmd { return func() tea.Msg { return addMsg{} } })

	m, cmd, consumed := press(m, runes("a"))
	if !consumed || cmd == nil {
		t.Fatal("Add surface should dispatch to the add handler")
	}
	if _, ok := cmd().(addMsg); !ok {
		t.Error("Expected the add handler's message")
	}

	// While open, the add key is typing
	if err := m.Render(ModeAdd, nil); err != nil {
		t.Fatal(err)
	}
	m, _, _ = press(m, runes("a"))
	if got := m.readInput().Title; got != "a" {
		t.Errorf("Expected 'a' typed into Title while open, got %q", got)
	}
}

func TestSongModal_CloseSurface(t *testing.T) {
	m := newTestSongModal(t)
	closed := 0
	m.RegisterCloseHandler(func() tea.Cmd { closed++; return nil })

	if err := m.Render(ModeAdd, nil); err != nil {
		t.Fatal(err)
	}
	m, _, consumed := press(m, escKey)
	if !consumed || m.IsOpen() {
		t.Error("esc should close the modal")
	}
	if closed != 1 {
		t.Errorf("Close handler should run once, ran %d", closed)
	}

	// Closed: esc belongs to the host
	_, _, consumed = press(m, escKey)
	if consumed {
		t.Error("Closed modal should not consume esc")
	}
}

func TestSongModal_CancelControl(t *testing.T) {
	m := newTestSongModal(t)
	closed := 0
	m.RegisterCloseHandler(func() tea.Cmd { closed++; return nil })

	if err := m.Render(ModeAdd, nil); err != nil {
		t.Fatal(err)
	}
	m, _, _ = press(m, cancelKey)
	if m.IsOpen() {
		t.Error("Cancel control should close the modal")
	}
	if closed != 0 {
		t.Error("Cancel control should not run the close handler")
	}

	// Enter on the cancel button cancels too
	if err := m.Render(ModeAdd, nil); err != nil {
		t.Fatal(err)
	}
	m.form.setFocus(len(m.form.fields) + buttonCancel)
	m, _, _ = press(m, enterKey)
	if m.IsOpen() {
		t.Error("Enter on Cancel should close the modal")
	}
}

func TestSongModal_SubmitValid(t *testing.T) {
	m := newTestSongModal(t)

	var got []SongInput
	type savedMsg struct{}
	if err := m.RegisterSubmitHandler(func(in SongInput) tea.Cmd {
		got = append(got, in)
		return func() tea.Msg { return savedMsg{} }
	}); err != nil {
		t.Fatal(err)
	}

	song := db.Song{ID: "r7", Title: "old", Artist: "old", Link: "https://old.com"}
	if err := m.Render(ModeEdit, &song); err != nil {
		t.Fatal(err)
	}
	if err := m.SetSelectOptions(testGenres, "g1"); err != nil {
		t.Fatal(err)
	}
	fillForm(t, &m, "  Blue Train ", "John Coltrane ", " https://example.com/blue-train ")

	m, cmd, _ := press(m, enterKey)

	if len(got) != 1 {
		t.Fatalf("Submit handler should run once, ran %d", len(got))
	}
	want := SongInput{
		ID:         "r7",
		Title:      "Blue Train",
		Artist:     "John Coltrane",
		LastEdited: "2024-03-09T13:05:07.123Z",
		Link:       "https://example.com/blue-train",
		GenreID:    "g1",
	}
	if got[0] != want {
		t.Errorf("Submitted %+v, want %+v", got[0], want)
	}
	if m.IsOpen() {
		t.Error("Valid submit should close the modal")
	}
	if cmd == nil {
		t.Fatal("Expected the handler's command back")
	}
	if _, ok := cmd().(savedMsg); !ok {
		t.Error("Expected the handler's message")
	}
}

func TestSongModal_SubmitInvalid(t *testing.T) {
	tests := []struct {
		name      string
		reportAll bool
		title     string
		artist    string
		link      string
		wantAlert string
	}{
		{
			name:      "blank title",
			title:     "   ",
			artist:    "Artist",
			link:      "https://x.com",
			wantAlert: MsgWhitespaceInvalid,
		},
		{
			name:      "bad link",
			title:     "Title",
			artist:    "Artist",
			link:      "not a url",
			wantAlert: "\n" + MsgLinkInvalid,
		},
		{
			name:      "report all",
			reportAll: true,
			title:     "",
			artist:    "",
			link:      "ftp://x.com",
			wantAlert: "Title must not be empty or only whitespace\n" +
				"Artist must not be empty or only whitespace\n" +
				MsgLinkInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestSongModal(t, WithReportAllErrors(tt.reportAll))
			called := false
			_ = m.RegisterSubmitHandler(func(SongInput) tea.Cmd { called = true; return nil })

			if err := m.Render(ModeAdd, nil); err != nil {
				t.Fatal(err)
			}
			fillForm(t, &m, tt.title, tt.artist, tt.link)

			m, _, _ = press(m, enterKey)

			if called {
				t.Error("Handler must not run for invalid input")
			}
			if !m.IsOpen() {
				t.Error("Modal should stay open on invalid input")
			}
			if got := m.Alert(); got != tt.wantAlert {
				t.Errorf("Alert() = %q, want %q", got, tt.wantAlert)
			}
			if got := m.readInput().Artist; got != strings.TrimSpace(tt.artist) {
				t.Errorf("Form should keep its values, Artist = %q", got)
			}
		})
	}
}

func TestSongModal_AlertBlocksUntilDismissed(t *testing.T) {
	m := newTestSongModal(t)
	closed := false
	m.RegisterCloseHandler(func() tea.Cmd { closed = true; return nil })
	if err := m.Render(ModeAdd, nil); err != nil {
		t.Fatal(err)
	}

	m, _, _ = press(m, enterKey)
	if m.Alert() == "" {
		t.Fatal("Empty form should raise an alert")
	}

	m, _, consumed := press(m, runes("x"))
	if !consumed || m.readInput().Title != "" {
		t.Error("Keys should be swallowed while the alert is shown")
	}

	m, _, _ = press(m, escKey)
	if m.Alert() != "" {
		t.Error("esc should dismiss the alert")
	}
	if !m.IsOpen() || closed {
		t.Error("Dismissing the alert should not close the modal")
	}
}

func TestSongModal_RegisterSubmitHandlerOnce(t *testing.T) {
	m := newTestSongModal(t)

	if err := m.RegisterSubmitHandler(func(SongInput) tea.Cmd { return nil }); err != nil {
		t.Fatalf("First registration failed: %v", err)
	}
	if err := m.RegisterSubmitHandler(func(SongInput) tea.Cmd { return nil }); !errors.Is(err, ErrSubmitHandlerRegistered) {
		t.Errorf("Expected ErrSubmitHandlerRegistered, got %v", err)
	}
}

func TestSongModal_RegisterEditHandler(t *testing.T) {
	m := newTestSongModal(t)
	song := db.Song{ID: "r1", Title: "A", Artist: "B", Link: "https://x.com"}

	if err := m.RegisterEditHandler(song, func(db.Song) tea.Cmd { return nil }); !errors.Is(err, ErrControlMissing) {
		t.Errorf("Edit handler before any render should fail, got %v", err)
	}

	if err := m.Render(ModeAdd, nil); err != nil {
		t.Fatal(err)
	}
	if err := m.RegisterEditHandler(song, func(db.Song) tea.Cmd { return nil }); !errors.Is(err, ErrControlMissing) {
		t.Errorf("Input form has no edit control, got %v", err)
	}

	if err := m.Render(ModeDetail, &song); err != nil {
		t.Fatal(err)
	}
	var edited db.Song
	if err := m.RegisterEditHandler(song, func(s db.Song) tea.Cmd { edited = s; return nil }); err != nil {
		t.Fatalf("RegisterEditHandler: %v", err)
	}

	m, _, _ = press(m, runes("e"))
	if edited.ID != "r1" {
		t.Errorf("Edit control should dispatch the bound song, got %+v", edited)
	}
}

func TestSongModal_SetSelectOptions(t *testing.T) {
	m := newTestSongModal(t)

	if err := m.SetSelectOptions(testGenres, "g2"); !errors.Is(err, ErrControlMissing) {
		t.Errorf("No form rendered, expected ErrControlMissing, got %v", err)
	}

	if err := m.Render(ModeAdd, nil); err != nil {
		t.Fatal(err)
	}
	if err := m.SetSelectOptions(testGenres, "g2"); err != nil {
		t.Fatalf("SetSelectOptions: %v", err)
	}

	opts := m.GenreOptions()
	if len(opts) != 2 {
		t.Fatalf("Expected 2 options, got %d", len(opts))
	}
	if opts[0].Label != "Rock" || opts[0].Selected {
		t.Errorf("Rock should be present and not selected: %+v", opts[0])
	}
	if opts[1].Label != "Jazz" || !opts[1].Selected {
		t.Errorf("Jazz should be selected: %+v", opts[1])
	}

	// Options are replaced, not appended
	if err := m.SetSelectOptions(testGenres[:1], ""); err != nil {
		t.Fatal(err)
	}
	if got := len(m.GenreOptions()); got != 1 {
		t.Errorf("Expected options to be replaced, got %d", got)
	}
}

func TestSongModal_SubmitWithoutHandlerCloses(t *testing.T) {
	m := newTestSongModal(t)
	if err := m.Render(ModeAdd, nil); err != nil {
		t.Fatal(err)
	}
	fillForm(t, &m, "T", "A", "https://x.com")

	m, cmd, _ := press(m, tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd != nil || m.IsOpen() {
		t.Error("Valid submit without handler should just close")
	}
}

func TestSongModal_View(t *testing.T) {
	m := newTestSongModal(t)
	if m.View() != "" {
		t.Error("Closed modal should render nothing")
	}
	if got := m.ViewWithOverlay("background", 80, 24); got != "background" {
		t.Error("Closed modal should leave the background untouched")
	}

	m.SetSize(100, 40)
	if err := m.Render(ModeAdd, nil); err != nil {
		t.Fatal(err)
	}
	view := m.View()
	for _, want := range []string{"ADD SONG", "Title:", "Genre:", "Save", "Cancel"} {
		if !strings.Contains(view, want) {
			t.Errorf("Add view missing %q", want)
		}
	}
}

func TestMode_String(t *testing.T) {
	if ModeAdd.String() != "Add Song" || ModeEdit.String() != "Edit Song" {
		t.Error("Input modes should name their form title")
	}
}
