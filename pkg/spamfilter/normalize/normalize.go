// Package normalize canonicalises raw message text before feature extraction.
package normalize

import (
	"regexp"
	"strings"
	"unicode"
)

var urlPattern = regexp.MustCompile(`http\S+`)

// punctuation is the ASCII punctuation set.
const punctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// Text lowercases s, strips URLs, punctuation and digits, and trims the
// surrounding whitespace. The passes are repeated until the result is stable,
// so Text(Text(s)) == Text(s) holds even when a deletion joins characters into
// a new URL-like run ("ht.tps" -> "https").
func Text(s string) string {
	for {
		next := pass(s)
		if next == s {
			return next
		}
		s = next
	}
}

// All normalises every text in texts.
func All(texts []string) []string {
	out := make([]string, len(texts))
	for i, t := range texts {
		out[i] = Text(t)
	}
	return out
}

func pass(s string) string {
	s = strings.ToLower(s)
	s = urlPattern.ReplaceAllString(s, "")
	s = strings.Map(func(r rune) rune {
		if r < 0x80 && strings.ContainsRune(punctuation, r) {
			return -1
		}
		return r
	}, s)
	s = strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(s)
}
