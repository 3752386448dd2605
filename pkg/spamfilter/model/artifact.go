// Package model defines the persisted form of a trained spam pipeline.
package model

import (
	"fmt"
	"math"
	"time"

	"github.com/cognicore/spamfilter/pkg/spamfilter/internalerr"
)

// FormatVersion is bumped whenever the artifact layout changes.
const FormatVersion = 1

// Artifact is a trained model: vocabulary, idf weights, class priors and
// feature likelihoods, plus provenance. It is immutable once built.
type Artifact struct {
	ID        string    `json:"id"`
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	Language  string    `json:"language,omitempty"`
	Documents int       `json:"documents"`
	Alpha     float64   `json:"alpha"`
	Stopwords []string  `json:"stopwords"`

	Vocabulary     []string    `json:"vocabulary"`
	IDF            []float64   `json:"idf"`
	Labels         []string    `json:"labels"`
	LogPriors      []float64   `json:"log_priors"`
	FeatureLogProb [][]float64 `json:"feature_log_prob"`
}

// Validate checks the structural invariants a loaded artifact must hold.
func (a *Artifact) Validate() error {
	if a == nil {
		return fmt.Errorf("%w: nil artifact", internalerr.ErrArtifact)
	}
	if a.Version != FormatVersion {
		return fmt.Errorf("%w: unsupported format version %d", internalerr.ErrArtifact, a.Version)
	}
	dim := len(a.Vocabulary)
	if len(a.IDF) != dim {
		return fmt.Errorf("%w: %d idf weights for %d terms", internalerr.ErrArtifact, len(a.IDF), dim)
	}
	if len(a.Labels) == 0 {
		return fmt.Errorf("%w: no labels", internalerr.ErrArtifact)
	}
	if len(a.LogPriors) != len(a.Labels) || len(a.FeatureLogProb) != len(a.Labels) {
		return fmt.Errorf("%w: label tables disagree", internalerr.ErrArtifact)
	}
	for c, row := range a.FeatureLogProb {
		if len(row) != dim {
			return fmt.Errorf("%w: likelihood row %d has %d entries, want %d", internalerr.ErrArtifact, c, len(row), dim)
		}
	}
	for _, w := range a.IDF {
		if !(w > 0) || math.IsInf(w, 0) {
			return fmt.Errorf("%w: invalid idf weight %v", internalerr.ErrArtifact, w)
		}
	}
	var priorSum float64
	for _, p := range a.LogPriors {
		priorSum += math.Exp(p)
	}
	if math.Abs(priorSum-1) > 1e-9 {
		return fmt.Errorf("%w: priors sum to %v", internalerr.ErrArtifact, priorSum)
	}
	return nil
}
