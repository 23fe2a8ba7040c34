// Package youtube provides video ID extraction and metadata resolution
// against the YouTube Data API.
package youtube

import (
	"regexp"
	"strings"
)

// videoIDLength is the fixed length of a YouTube video ID.
const videoIDLength = 11

// videoIDPattern isolates the ID from the known URL shapes: short links
// (youtu.be/ID), embed and legacy player paths (/embed/ID, /v/ID), channel
// relative paths (/u/<char>/ID), and watch query strings (?v=ID, &v=ID).
var videoIDPattern = regexp.MustCompile(`(?:youtu\.be/|/v/|/u/\w/|/embed/|watch\?v=|[?&]v=)([^#&?/]*)`)

// ExtractVideoID isolates the 11-character video ID from a YouTube URL.
// Returns the empty string for malformed or non-YouTube URLs.
func ExtractVideoID(rawURL string) string {
	if !strings.Contains(rawURL, "youtube.com") && !strings.Contains(rawURL, "youtu.be") {
		return ""
	}

	match := videoIDPattern.FindStringSubmatch(rawURL)
	if match == nil {
		return ""
	}

	id := match[1]
	if len(id) != videoIDLength {
		return ""
	}
	return id
}
