// Package nb implements a multinomial naive Bayes classifier over weighted
// feature vectors.
package nb

import (
	"fmt"
	"math"
	"sort"

	"github.com/cognicore/spamfilter/pkg/spamfilter/internalerr"
	"github.com/cognicore/spamfilter/pkg/spamfilter/vectorize"
)

// DefaultAlpha is the additive (Laplace) smoothing constant.
const DefaultAlpha = 1.0

// Multinomial is a fitted multinomial naive Bayes model. Labels are held in
// ascending lexicographic order, which is also the tie-break order.
type Multinomial struct {
	labels         []string
	logPriors      []float64
	featureLogProb [][]float64 // [label][feature]
	dim            int
}

// Fit estimates class priors and smoothed per-feature log-probabilities:
//
//	P(f|c) = (sum of f over c + alpha) / (total mass of c + alpha * dim)
func Fit(X []vectorize.Vector, y []string, dim int, alpha float64) (*Multinomial, error) {
	if len(X) == 0 && len(y) == 0 {
		return nil, internalerr.ErrEmptyTrainingSet
	}
	if len(X) != len(y) {
		return nil, fmt.Errorf("%w: %d vectors but %d labels", internalerr.ErrTraining, len(X), len(y))
	}
	if alpha <= 0 {
		return nil, fmt.Errorf("%w: smoothing alpha must be positive, got %v", internalerr.ErrTraining, alpha)
	}

	labels := uniqueSorted(y)
	pos := make(map[string]int, len(labels))
	for i, l := range labels {
		pos[l] = i
	}

	classCount := make([]int, len(labels))
	featureSum := make([][]float64, len(labels))
	for c := range featureSum {
		featureSum[c] = make([]float64, dim)
	}

	for row, v := range X {
		if v.Dim != dim {
			return nil, fmt.Errorf("%w: vector %d has dimension %d, want %d", internalerr.ErrTraining, row, v.Dim, dim)
		}
		c := pos[y[row]]
		classCount[c]++
		for k, i := range v.Indices {
			if v.Values[k] < 0 {
				return nil, fmt.Errorf("%w: negative feature at row %d", internalerr.ErrTraining, row)
			}
			featureSum[c][i] += v.Values[k]
		}
	}

	m := &Multinomial{
		labels:         labels,
		logPriors:      make([]float64, len(labels)),
		featureLogProb: make([][]float64, len(labels)),
		dim:            dim,
	}
	total := float64(len(X))
	for c := range labels {
		m.logPriors[c] = math.Log(float64(classCount[c]) / total)

		var mass float64
		for _, s := range featureSum[c] {
			mass += s
		}
		denom := mass + alpha*float64(dim)
		row := make([]float64, dim)
		for i, s := range featureSum[c] {
			row[i] = math.Log((s + alpha) / denom)
		}
		m.featureLogProb[c] = row
	}
	return m, nil
}

// Restore rebuilds a model from persisted parameters. Labels must be sorted
// and unique, and every row must match dim.
func Restore(labels []string, logPriors []float64, featureLogProb [][]float64, dim int) (*Multinomial, error) {
	if len(labels) == 0 {
		return nil, fmt.Errorf("%w: no labels", internalerr.ErrArtifact)
	}
	if len(logPriors) != len(labels) || len(featureLogProb) != len(labels) {
		return nil, fmt.Errorf("%w: %d labels, %d priors, %d likelihood rows",
			internalerr.ErrArtifact, len(labels), len(logPriors), len(featureLogProb))
	}
	for i := 1; i < len(labels); i++ {
		if labels[i-1] >= labels[i] {
			return nil, fmt.Errorf("%w: labels not in canonical order", internalerr.ErrArtifact)
		}
	}

	m := &Multinomial{
		labels:         append([]string(nil), labels...),
		logPriors:      append([]float64(nil), logPriors...),
		featureLogProb: make([][]float64, len(labels)),
		dim:            dim,
	}
	for c, row := range featureLogProb {
		if len(row) != dim {
			return nil, fmt.Errorf("%w: likelihood row %d has %d entries, want %d", internalerr.ErrArtifact, c, len(row), dim)
		}
		for _, x := range row {
			if math.IsNaN(x) || math.IsInf(x, 0) {
				return nil, fmt.Errorf("%w: non-finite likelihood", internalerr.ErrArtifact)
			}
		}
		m.featureLogProb[c] = append([]float64(nil), row...)
	}
	return m, nil
}

// Scores returns the joint log-likelihood per label, in label order:
// log(prior) + sum_i x_i * log P(f_i|label).
func (m *Multinomial) Scores(x vectorize.Vector) []float64 {
	scores := make([]float64, len(m.labels))
	for c := range m.labels {
		scores[c] = m.logPriors[c] + x.Dot(m.featureLogProb[c])
	}
	return scores
}

// Predict returns the label with the highest score. Exact ties go to the
// label that sorts first.
func (m *Multinomial) Predict(x vectorize.Vector) string {
	return m.labels[argmax(m.Scores(x))]
}

// PredictProba returns the posterior probability per label, in label order.
// The values are non-negative and sum to 1.
func (m *Multinomial) PredictProba(x vectorize.Vector) []float64 {
	return softmax(m.Scores(x))
}

// Labels returns the labels in canonical order.
func (m *Multinomial) Labels() []string {
	return append([]string(nil), m.labels...)
}

// LogPriors returns the log prior per label.
func (m *Multinomial) LogPriors() []float64 {
	return append([]float64(nil), m.logPriors...)
}

// FeatureLogProb returns a copy of the per-label feature log-probabilities.
func (m *Multinomial) FeatureLogProb() [][]float64 {
	out := make([][]float64, len(m.featureLogProb))
	for c, row := range m.featureLogProb {
		out[c] = append([]float64(nil), row...)
	}
	return out
}

// Dim returns the feature dimension the model was fitted on.
func (m *Multinomial) Dim() int {
	return m.dim
}

func argmax(xs []float64) int {
	best := 0
	for i := 1; i < len(xs); i++ {
		if xs[i] > xs[best] {
			best = i
		}
	}
	return best
}

// softmax normalizes log-scores through log-sum-exp so large magnitudes do not
// underflow to an all-zero sum.
func softmax(scores []float64) []float64 {
	maxScore := math.Inf(-1)
	for _, s := range scores {
		if s > maxScore {
			maxScore = s
		}
	}
	probs := make([]float64, len(scores))
	var sum float64
	for i, s := range scores {
		probs[i] = math.Exp(s - maxScore)
		sum += probs[i]
	}
	for i := range probs {
		probs[i] /= sum
	}
	return probs
}

func uniqueSorted(xs []string) []string {
	seen := make(map[string]struct{}, len(xs))
	out := make([]string, 0)
	for _, x := range xs {
		if _, ok := seen[x]; ok {
			continue
		}
		seen[x] = struct{}{}
		out = append(out, x)
	}
	sort.Strings(out)
	return out
}
