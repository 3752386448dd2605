// Package weight rescales raw token counts into tf-idf weights.
package weight

import (
	"math"

	"github.com/cognicore/spamfilter/pkg/spamfilter/vectorize"
)

// IDF holds one inverse-document-frequency weight per vocabulary index.
type IDF struct {
	weights []float64
}

// Fit computes smoothed idf weights from the training count vectors:
//
//	idf(t) = ln((1 + n) / (1 + df(t))) + 1
//
// Every weight is at least 1 for terms seen in training and therefore positive.
func Fit(counts []vectorize.Vector, dim int) IDF {
	df := DocumentFrequency(counts, dim)
	n := float64(len(counts))

	weights := make([]float64, dim)
	for i, d := range df {
		weights[i] = math.Log((1+n)/(1+float64(d))) + 1
	}
	return IDF{weights: weights}
}

// FromWeights restores idf weights, e.g. from a persisted model.
func FromWeights(weights []float64) IDF {
	w := make([]float64, len(weights))
	copy(w, weights)
	return IDF{weights: w}
}

// DocumentFrequency counts, per index, how many vectors have a non-zero entry.
func DocumentFrequency(counts []vectorize.Vector, dim int) []int64 {
	df := make([]int64, dim)
	for _, v := range counts {
		for k, i := range v.Indices {
			if v.Values[k] != 0 {
				df[i]++
			}
		}
	}
	return df
}

// Len returns the number of weights.
func (w IDF) Len() int {
	return len(w.weights)
}

// Weight returns the idf weight at index i.
func (w IDF) Weight(i int) float64 {
	return w.weights[i]
}

// Weights returns a copy of all weights.
func (w IDF) Weights() []float64 {
	out := make([]float64, len(w.weights))
	copy(out, w.weights)
	return out
}

// Transform multiplies each count by its idf weight and L2-normalizes the
// result. An all-zero input stays all-zero.
func (w IDF) Transform(v vectorize.Vector) vectorize.Vector {
	out := vectorize.Vector{
		Dim:     v.Dim,
		Indices: make([]int, len(v.Indices)),
		Values:  make([]float64, len(v.Values)),
	}
	copy(out.Indices, v.Indices)
	for k, i := range v.Indices {
		out.Values[k] = v.Values[k] * w.weights[i]
	}

	norm := out.Norm()
	if norm == 0 {
		return out
	}
	for k := range out.Values {
		out.Values[k] /= norm
	}
	return out
}

// TransformAll applies Transform to every vector.
func (w IDF) TransformAll(vs []vectorize.Vector) []vectorize.Vector {
	out := make([]vectorize.Vector, len(vs))
	for i, v := range vs {
		out[i] = w.Transform(v)
	}
	return out
}
