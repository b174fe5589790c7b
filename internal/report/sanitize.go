package report

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// sanitize makes untrusted text safe to print on a terminal: invalid UTF-8
// and control characters (escape sequences included) become '?'.
func sanitize(s string) string {
	clean := true
	for _, r := range s {
		if r == utf8.RuneError || unicode.IsControl(r) {
			clean = false
			break
		}
	}
	if clean {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == utf8.RuneError || unicode.IsControl(r) {
			b.WriteByte('?')
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
