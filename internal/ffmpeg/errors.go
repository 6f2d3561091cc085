package ffmpeg

import (
	"regexp"
	"strings"
)

// reUnknownEncoder matches the stderr ffmpeg emits when a ladder candidate's
// codec is not compiled in. Such candidates are skipped without a warning
// escalation; the ladder simply advances.
var reUnknownEncoder = regexp.MustCompile(
	`(?i)Unknown encoder|Encoder not found|encoder '.*' not found`)

// MatchUnknownEncoder reports whether stderr indicates a missing codec.
func MatchUnknownEncoder(stderr string) bool {
	return reUnknownEncoder.MatchString(stderr)
}

// Tail returns the last maxChars characters of stderr with surrounding
// whitespace trimmed, for compact diagnostics in error messages.
func Tail(stderr string, maxChars int) string {
	s := strings.TrimSpace(stderr)
	if len(s) <= maxChars {
		return s
	}
	return s[len(s)-maxChars:]
}
