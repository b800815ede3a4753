package extract

import (
	"strings"
	"unicode"
)

// maxTextRunes bounds normalized field text. Longer text is cut and
// suffixed with truncationMarker.
const (
	maxTextRunes     = 500
	truncationMarker = "..."
)

// Normalize collapses every whitespace run to a single space, drops
// non-whitespace control characters, trims the result and caps it at
// maxTextRunes runes. Empty input yields "".
//
// Normalize is idempotent: a truncated value is exactly maxTextRunes runes
// of text plus the marker, and re-normalizing cuts at the same place.
func Normalize(s string) string {
	if s == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(s))
	pendingSpace := false
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			pendingSpace = b.Len() > 0
		case unicode.IsControl(r):
			// dropped
		default:
			if pendingSpace {
				b.WriteByte(' ')
				pendingSpace = false
			}
			b.WriteRune(r)
		}
	}

	out := b.String()
	if n := 0; len(out) > maxTextRunes {
		for i := range out {
			if n == maxTextRunes {
				return out[:i] + truncationMarker
			}
			n++
		}
	}
	return out
}
