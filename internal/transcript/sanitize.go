package transcript

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/x/ansi"
)

// Sanitize makes text safe to print inside a terminal layout. Escape
// sequences are removed and remaining control characters other than
// newline and tab are dropped, so text cannot move the cursor, recolor
// the screen or otherwise break out of its bubble.
func Sanitize(text string) string {
	stripped := ansi.Strip(text)
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\n' || r == '\t':
			return r
		case r == '\r':
			return -1
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, stripped)
}
