package logger

import (
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// MaxPathLength caps URL paths in logs
	MaxPathLength = 500
	// MaxErrorMessageLength caps error messages in logs
	MaxErrorMessageLength = 1000
	// MaxGeneralStringLength caps general strings in logs
	MaxGeneralStringLength = 2000
)

// SanitizePath sanitizes a request path for logging: valid UTF-8, no
// control characters, bounded length.
func SanitizePath(path string) string {
	return SanitizeString(path, MaxPathLength)
}

// SanitizeURL strips the query and fragment from a browsing URL before it
// reaches the logs. Page URLs routinely carry tokens and search terms the
// daemon has no business persisting.
func SanitizeURL(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil {
		return SanitizeString(raw, MaxPathLength)
	}
	parsed.RawQuery = ""
	parsed.Fragment = ""
	return SanitizeString(parsed.String(), MaxPathLength)
}

// SanitizeString validates UTF-8, removes control characters, and
// truncates to maxLength.
func SanitizeString(s string, maxLength int) string {
	if s == "" {
		return ""
	}
	if maxLength <= 0 {
		maxLength = MaxGeneralStringLength
	}
	s = filterRunes(s)
	if len(s) > maxLength {
		s = s[:maxLength] + "..."
	}
	return s
}

// SanitizeError sanitizes an error message for logging
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return SanitizeString(err.Error(), MaxErrorMessageLength)
}

func filterRunes(s string) string {
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "")
	}
	var builder strings.Builder
	builder.Grow(len(s))
	for _, r := range s {
		if unicode.IsPrint(r) || r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			builder.WriteRune(r)
		}
	}
	return builder.String()
}
