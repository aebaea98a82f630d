// Package clean normalizes result lines before they are shown or sent
// to the completion backend.
package clean

import (
	"regexp"
	"strings"
)

// enumeration matches list artifacts such as "1. ", "2. #" or "# " at the
// start of a line.
var enumeration = regexp.MustCompile(`^\d*\.?[\s#]*`)

// Line strips a leading enumeration artifact and surrounding whitespace.
// Blank input yields "".
func Line(s string) string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(enumeration.ReplaceAllString(trimmed, ""))
}

// IsFiller reports whether a cleaned line carries no content: empty, or a
// bare "<url> - <body>" separator.
func IsFiller(line string) bool {
	switch line {
	case "", "-", " - ":
		return true
	}
	return false
}

// Lines cleans every line, drops filler and keeps at most limit entries.
// A limit of zero or less keeps everything.
func Lines(lines []string, limit int) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		cleaned := Line(line)
		if IsFiller(cleaned) {
			continue
		}
		out = append(out, cleaned)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}
