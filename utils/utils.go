package utils

import (
	"unicode/utf8"
)

func AssertInvariant(condition bool, message string) {
	if !condition {
		panic("invariant violated - " + message)
	}
}

// TruncatePreview shortens s to at most max runes, appending "..." when
// anything was cut. Used for notification previews.
func TruncatePreview(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max]) + "..."
}
