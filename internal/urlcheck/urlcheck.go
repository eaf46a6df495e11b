// Package urlcheck holds the link predicate used by the song form.
package urlcheck

import (
	"net/url"
	"strings"
)

// IsValidURL reports whether s is an absolute http or https URL with a host.
func IsValidURL(s string) bool {
	if s == "" || strings.ContainsAny(s, " \t\n") {
		return false
	}

	u, err := url.ParseRequestURI(s)
	if err != nil {
		return false
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
	default:
		return false
	}

	host := u.Hostname()
	if host == "" {
		return false
	}
	// "http://x" parses fine but is not something a user means as a song link
	return strings.Contains(host, ".") || host == "localhost"
}
