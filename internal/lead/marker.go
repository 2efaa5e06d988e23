package lead

import (
	"regexp"
	"strings"
)

// CompletionMarker is the sentinel the model is instructed to emit once all
// required lead fields have been collected.
const CompletionMarker = "[DONE]"

// Matches the marker case-insensitively with any whitespace between the
// brackets and letters, e.g. "[done]", "[ DONE ]", "[D O N E]".
var markerPattern = regexp.MustCompile(`(?i)\[\s*d\s*o\s*n\s*e\s*\]`)

// ContainsMarker reports whether text carries the completion marker.
func ContainsMarker(text string) bool {
	return markerPattern.MatchString(text)
}

// StripMarker removes every occurrence of the completion marker and trims
// surrounding whitespace. Stored transcripts keep the raw text; stripping is
// applied only to spoken, displayed, and dispatched output.
func StripMarker(text string) string {
	return strings.TrimSpace(markerPattern.ReplaceAllString(text, ""))
}
