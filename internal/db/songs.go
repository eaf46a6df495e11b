package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrSongNotFound is returned when a song id matches no row
var ErrSongNotFound = errors.New("song not found")

// Song represents a song record in the catalog
type Song struct {
	ID         string
	Title      string
	Artist     string
	Link       string
	GenreID    string
	LastEdited string // ISO-8601, stamped by whoever saved it last
}

// Genre represents a selectable song genre
type Genre struct {
	ID   string
	Name string
}

// defaultGenres seeds an empty catalog
var defaultGenres = []Genre{
	{ID: "g1", Name: "Rock"},
	{ID: "g2", Name: "Jazz"},
	{ID: "g3", Name: "Pop"},
	{ID: "g4", Name: "Hip-Hop"},
	{ID: "g5", Name: "Classical"},
	{ID: "g6", Name: "Electronic"},
}

const schema = `
CREATE TABLE IF NOT EXISTS genres (
	id   TEXT PRIMARY KEY,
	name TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS songs (
	id          TEXT PRIMARY KEY,
	title       TEXT NOT NULL,
	artist      TEXT NOT NULL,
	link        TEXT NOT NULL,
	genre_id    TEXT REFERENCES genres(id),
	last_edited TEXT
);`

// EnsureSchema creates the catalog tables and seeds genres on first run
func EnsureSchema() error {
	db, err := GetDB()
	if err != nil {
		return fmt.Errorf("failed to get database connection: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM genres").Scan(&count); err != nil {
		return fmt.Errorf("failed to count genres: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, g := range defaultGenres {
		if _, err := db.Exec("INSERT INTO genres (id, name) VALUES (?, ?)", g.ID, g.Name); err != nil {
			return fmt.Errorf("failed to seed genre %s: %w", g.Name, err)
		}
	}

	return nil
}

// GetGenres fetches all genres ordered by name
func GetGenres() ([]Genre, error) {
	db, err := GetDB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database connection: %w", err)
	}

	rows, err := db.Query("SELECT id, name FROM genres ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to query genres: %w", err)
	}
	defer rows.Close()

	var genres []Genre
	for rows.Next() {
		var g Genre
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		genres = append(genres, g)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return genres, nil
}

// GetSongs fetches all songs, most recently edited first
func GetSongs() ([]Song, error) {
	db, err := GetDB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database connection: %w", err)
	}

	rows, err := db.Query(`SELECT id, title, artist, link, genre_id, last_edited
	                       FROM songs
	                       ORDER BY last_edited DESC, title`)
	if err != nil {
		return nil, fmt.Errorf("failed to query songs: %w", err)
	}
	defer rows.Close()

	var songs []Song
	for rows.Next() {
		song, err := scanSong(rows)
		if err != nil {
			return nil, err
		}
		songs = append(songs, song)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return songs, nil
}

// GetSong fetches a single song by id
func GetSong(id string) (Song, error) {
	db, err := GetDB()
	if err != nil {
		return Song{}, fmt.Errorf("failed to get database connection: %w", err)
	}

	row := db.QueryRow(`SELECT id, title, artist, link, genre_id, last_edited
	                    FROM songs WHERE id = ?`, id)
	song, err := scanSong(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Song{}, fmt.Errorf("%w: %s", ErrSongNotFound, id)
	}
	return song, err
}

// SaveSong inserts a song when its ID is empty and updates it otherwise.
// The stored song is returned, carrying the generated ID for inserts.
func SaveSong(song Song) (Song, error) {
	db, err := GetDB()
	if err != nil {
		return Song{}, fmt.Errorf("failed to get database connection: %w", err)
	}

	if song.LastEdited == "" {
		song.LastEdited = time.Now().UTC().Format(time.RFC3339)
	}

	if song.ID == "" {
		song.ID = uuid.NewString()
		_, err := db.Exec(`INSERT INTO songs (id, title, artist, link, genre_id, last_edited)
		                   VALUES (?, ?, ?, ?, ?, ?)`,
			song.ID, song.Title, song.Artist, song.Link, nullIfEmpty(song.GenreID), song.LastEdited)
		if err != nil {
			return Song{}, fmt.Errorf("failed to insert song: %w", err)
		}
		return song, nil
	}

	result, err := db.Exec(`UPDATE songs
	                        SET title = ?, artist = ?, link = ?, genre_id = ?, last_edited = ?
	                        WHERE id = ?`,
		song.Title, song.Artist, song.Link, nullIfEmpty(song.GenreID), song.LastEdited, song.ID)
	if err != nil {
		return Song{}, fmt.Errorf("failed to update song: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return Song{}, fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return Song{}, fmt.Errorf("%w: %s", ErrSongNotFound, song.ID)
	}

	return song, nil
}

// DeleteSong removes a song by id
func DeleteSong(id string) error {
	db, err := GetDB()
	if err != nil {
		return fmt.Errorf("failed to get database connection: %w", err)
	}

	result, err := db.Exec("DELETE FROM songs WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete song: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrSongNotFound, id)
	}

	return nil
}

// GenreName resolves a genre id against a list, returning "" when unknown
func GenreName(genres []Genre, id string) string {
	for _, g := range genres {
		if g.ID == id {
			return g.Name
		}
	}
	return ""
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSong(row rowScanner) (Song, error) {
	var song Song
	var genreID sql.NullString
	var lastEdited sql.NullString

	err := row.Scan(&song.ID, &song.Title, &song.Artist, &song.Link, &genreID, &lastEdited)
	if errors.Is(err, sql.ErrNoRows) {
		return Song{}, err
	}
	if err != nil {
		return Song{}, fmt.Errorf("failed to scan row: %w", err)
	}

	// Handle nullable fields
	if genreID.Valid {
		song.GenreID = genreID.String
	}
	if lastEdited.Valid {
		song.LastEdited = lastEdited.String
	}

	return song, nil
}

func nullIfEmpty(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
