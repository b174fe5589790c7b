// Package report renders verdicts as the human-readable commit report.
package report

import (
	"strings"
	"unicode/utf8"
)

const (
	maskKeep        = 4
	maskPlaceholder = "****"
)

// Mask redacts a secret for display. Secrets longer than eight characters
// keep their first and last four characters with the middle starred out at
// the same length; shorter ones become a fixed four-star placeholder.
// Characters are counted as runes so a multibyte secret is never split.
func Mask(secret string) string {
	n := utf8.RuneCountInString(secret)
	if n <= 2*maskKeep {
		return maskPlaceholder
	}
	runes := []rune(secret)
	var b strings.Builder
	b.Grow(len(secret))
	b.WriteString(string(runes[:maskKeep]))
	b.WriteString(strings.Repeat("*", n-2*maskKeep))
	b.WriteString(string(runes[n-maskKeep:]))
	return b.String()
}
