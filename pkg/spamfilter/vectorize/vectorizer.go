// Package vectorize turns normalized text into token-count vectors over a
// vocabulary frozen at fit time.
package vectorize

import (
	"sort"

	"github.com/cognicore/spamfilter/pkg/spamfilter/ingest"
)

// Vectorizer builds a vocabulary from training text and converts text into
// count vectors over it.
type Vectorizer struct {
	tokenizer *ingest.Tokenizer
	vocab     *Vocabulary
}

// New creates an unfitted vectorizer.
func New(tokenizer *ingest.Tokenizer) *Vectorizer {
	return &Vectorizer{tokenizer: tokenizer}
}

// WithVocabulary creates a vectorizer over an existing vocabulary.
func WithVocabulary(tokenizer *ingest.Tokenizer, vocab *Vocabulary) *Vectorizer {
	return &Vectorizer{tokenizer: tokenizer, vocab: vocab}
}

// Fit builds the vocabulary from docs and returns their count vectors.
// An empty collection yields an empty vocabulary.
func (v *Vectorizer) Fit(docs []string) []Vector {
	tokenized := make([][]string, len(docs))
	var all []string
	for i, doc := range docs {
		tokenized[i] = v.tokenizer.Tokenize(doc)
		all = append(all, tokenized[i]...)
	}
	v.vocab = NewVocabulary(all)

	out := make([]Vector, len(docs))
	for i, tokens := range tokenized {
		out[i] = v.count(tokens)
	}
	return out
}

// Transform counts the known tokens of doc. Unknown tokens are ignored and an
// unfitted vectorizer yields a zero-dimension vector.
func (v *Vectorizer) Transform(doc string) Vector {
	return v.count(v.tokenizer.Tokenize(doc))
}

// Vocabulary returns the fitted vocabulary, or nil before Fit.
func (v *Vectorizer) Vocabulary() *Vocabulary {
	return v.vocab
}

func (v *Vectorizer) count(tokens []string) Vector {
	counts := make(map[int]float64)
	for _, tok := range tokens {
		if i, ok := v.vocab.Index(tok); ok {
			counts[i]++
		}
	}

	vec := Vector{
		Dim:     v.vocab.Len(),
		Indices: make([]int, 0, len(counts)),
		Values:  make([]float64, 0, len(counts)),
	}
	for i := range counts {
		vec.Indices = append(vec.Indices, i)
	}
	sort.Ints(vec.Indices)
	for _, i := range vec.Indices {
		vec.Values = append(vec.Values, counts[i])
	}
	return vec
}
