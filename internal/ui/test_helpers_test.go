package ui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/songshelf/songshelf/internal/db"
)

// testModel creates a properly initialized Model for testing
func testModel(t *testing.T) Model {
	t.Helper()
	m, err := NewModel(Options{
		Theme:  CleanCyberTheme,
		Logger: zerolog.Nop(),
		Clock:  func() time.Time { return fixedNow },
	})
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}
	m.width = 100
	m.height = 40
	m.loading = false
	m.genres = testGenres
	m.songModal.SetGenres(testGenres)
	return m
}

// testModelWithSongs creates a Model with test songs
func testModelWithSongs(t *testing.T, songs []db.Song) Model {
	m := testModel(t)
	m.songs = songs
	return m
}

// update runs msg through the model and returns the concrete Model
func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return model, cmd
}

// msgOf runs cmd, treating nil as producing no message
func msgOf(cmd tea.Cmd) tea.Msg {
	if cmd == nil {
		return nil
	}
	return cmd()
}
