package pipeline

import (
	"fmt"

	"github.com/cognicore/spamfilter/pkg/spamfilter/ingest"
	"github.com/cognicore/spamfilter/pkg/spamfilter/internalerr"
	"github.com/cognicore/spamfilter/pkg/spamfilter/model"
	"github.com/cognicore/spamfilter/pkg/spamfilter/nb"
	"github.com/cognicore/spamfilter/pkg/spamfilter/stoplist"
	"github.com/cognicore/spamfilter/pkg/spamfilter/vectorize"
	"github.com/cognicore/spamfilter/pkg/spamfilter/weight"
)

// Snapshot captures the fitted model as a persistable artifact.
func (p *Pipeline) Snapshot() (*model.Artifact, error) {
	if !p.fitted {
		return nil, internalerr.ErrNotFitted
	}
	return &model.Artifact{
		ID:             p.id,
		Version:        model.FormatVersion,
		CreatedAt:      p.createdAt,
		Language:       p.language,
		Documents:      p.documents,
		Alpha:          p.alpha,
		Stopwords:      p.stops.All(),
		Vocabulary:     p.vectorizer.Vocabulary().Terms(),
		IDF:            p.idf.Weights(),
		Labels:         p.clf.Labels(),
		LogPriors:      p.clf.LogPriors(),
		FeatureLogProb: p.clf.FeatureLogProb(),
	}, nil
}

// FromArtifact rebuilds a fitted pipeline whose predictions match the one
// the artifact was taken from.
func FromArtifact(a *model.Artifact) (*Pipeline, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}

	vocab := vectorize.NewVocabulary(a.Vocabulary)
	if vocab.Len() != len(a.Vocabulary) {
		return nil, fmt.Errorf("%w: duplicate vocabulary terms", internalerr.ErrArtifact)
	}
	for i, term := range a.Vocabulary {
		if vocab.Term(i) != term {
			return nil, fmt.Errorf("%w: vocabulary not in index order", internalerr.ErrArtifact)
		}
	}

	clf, err := nb.Restore(a.Labels, a.LogPriors, a.FeatureLogProb, vocab.Len())
	if err != nil {
		return nil, err
	}

	stops := stoplist.NewManager(a.Stopwords)
	p := New(Options{Stoplist: stops, Alpha: a.Alpha})
	p.vectorizer = vectorize.WithVocabulary(ingest.NewTokenizer(stops), vocab)
	p.idf = weight.FromWeights(a.IDF)
	p.clf = clf
	p.id = a.ID
	p.createdAt = a.CreatedAt
	p.language = a.Language
	p.documents = a.Documents
	p.fitted = true
	return p, nil
}
