// Package words turns compact PascalCase identifiers into space-separated
// display words.
//
// A word boundary sits between a lowercase letter or digit and the uppercase
// letter that follows it. Nothing else is a boundary: runs of uppercase
// letters stay together ("HTTPServer" is one word) and a digit followed by a
// lowercase letter stays together ("Variant1" is one word).
package words

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Split inserts exactly one space at every word boundary in s.
//
// Split is idempotent: a string that is already split has no lowercase or
// digit immediately followed by an uppercase letter, so it is returned as is.
// When s has no boundary the input string itself is returned.
func Split(s string) string {
	n := count(s)
	if n == 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + n)

	start := 0
	var prev rune
	for i, r := range s {
		if i > 0 && isBoundary(prev, r) {
			b.WriteString(s[start:i])
			b.WriteByte(' ')
			start = i
		}
		prev = r
	}
	b.WriteString(s[start:])
	return b.String()
}

// Words returns the words Split would separate with spaces.
// Existing whitespace in s is not treated as a separator.
func Words(s string) []string {
	if s == "" {
		return nil
	}

	out := make([]string, 0, count(s)+1)
	start := 0
	var prev rune
	for i, r := range s {
		if i > 0 && isBoundary(prev, r) {
			out = append(out, s[start:i])
			start = i
		}
		prev = r
	}
	return append(out, s[start:])
}

// count reports how many boundaries s contains.
func count(s string) int {
	n := 0
	prev, size := utf8.DecodeRuneInString(s)
	for _, r := range s[size:] {
		if isBoundary(prev, r) {
			n++
		}
		prev = r
	}
	return n
}

func isBoundary(prev, cur rune) bool {
	return (unicode.IsLower(prev) || unicode.IsDigit(prev)) && unicode.IsUpper(cur)
}
