package ingest

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/cognicore/spamfilter/pkg/spamfilter/stoplist"
)

// MinTokenLength is the shortest token, in runes, kept by the tokenizer.
const MinTokenLength = 2

// Tokenizer splits normalized text into terms, removing stopwords.
type Tokenizer struct {
	stops *stoplist.Manager
}

// NewTokenizer creates a tokenizer backed by the given stoplist.
// A nil stoplist keeps every token.
func NewTokenizer(stops *stoplist.Manager) *Tokenizer {
	return &Tokenizer{stops: stops}
}

// Tokenize splits text on every rune that is not part of a word and drops
// short tokens and stopwords. It never fails; empty input yields no tokens.
func (t *Tokenizer) Tokenize(text string) []string {
	var tokens []string
	var current strings.Builder

	flush := func() {
		if current.Len() == 0 {
			return
		}
		if word := t.processToken(current.String()); word != "" {
			tokens = append(tokens, word)
		}
		current.Reset()
	}

	for _, r := range text {
		if isWordRune(r) {
			current.WriteRune(r)
			continue
		}
		flush()
	}
	flush()

	return tokens
}

// Stoplist returns the stoplist used by the tokenizer.
func (t *Tokenizer) Stoplist() *stoplist.Manager {
	return t.stops
}

func (t *Tokenizer) processToken(token string) string {
	if utf8.RuneCountInString(token) < MinTokenLength {
		return ""
	}
	if t.stops.IsStop(token) {
		return ""
	}
	return token
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsMark(r) || r == '_'
}
