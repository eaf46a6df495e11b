package ui

import (
	"strings"

	"github.com/songshelf/songshelf/internal/urlcheck"
)

// User-facing validation messages
const (
	MsgWhitespaceInvalid = "Title, artist and link must not be empty or only whitespace"
	MsgLinkInvalid       = "Link must be a valid http(s) URL"
)

// SongInput is what the song modal hands to its submit handler.
// An empty ID means the song is new.
type SongInput struct {
	ID         string
	Title      string
	Artist     string
	LastEdited string
	Link       string
	GenreID    string
}

// ValidationError carries the (possibly multi-line) message shown to the user
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// isValidURL is the link predicate; tests may replace it
var isValidURL = urlcheck.IsValidURL

// Validate returns "" when data is acceptable, otherwise the message to show.
//
// Title, artist and an empty link each overwrite the message, so only one
// whitespace notice is ever reported. An invalid link appends its notice on a
// new line, which yields a leading empty line when nothing failed before it.
// Both behaviors are kept for compatibility; ValidateAll reports everything.
func Validate(data SongInput) string {
	errors := ""

	if strings.TrimSpace(data.Title) == "" {
		errors = MsgWhitespaceInvalid
	}

	if strings.TrimSpace(data.Artist) == "" {
		errors = MsgWhitespaceInvalid
	}

	if strings.TrimSpace(data.Link) == "" {
		errors = MsgWhitespaceInvalid
	} else if !isValidURL(data.Link) {
		errors += "\n" + MsgLinkInvalid
	}

	return errors
}

// ValidateAll reports one line per failing field, in form order
func ValidateAll(data SongInput) string {
	var problems []string

	for _, f := range []struct{ name, value string }{
		{"Title", data.Title},
		{"Artist", data.Artist},
		{"Link", data.Link},
	} {
		if strings.TrimSpace(f.value) == "" {
			problems = append(problems, f.name+" must not be empty or only whitespace")
		}
	}

	if strings.TrimSpace(data.Link) != "" && !isValidURL(data.Link) {
		problems = append(problems, MsgLinkInvalid)
	}

	return strings.Join(problems, "\n")
}

// Check runs the selected validation mode and wraps a failure in a ValidationError
func Check(data SongInput, reportAll bool) error {
	validate := Validate
	if reportAll {
		validate = ValidateAll
	}

	if msg := validate(data); msg != "" {
		return &ValidationError{Message: msg}
	}
	return nil
}
