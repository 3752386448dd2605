// Package pipeline composes normalization, vectorization, idf weighting and
// the naive Bayes classifier behind one fit/predict contract.
package pipeline

import (
	"fmt"
	"strings"
	"time"

	"github.com/cognicore/spamfilter/pkg/spamfilter/ingest"
	"github.com/cognicore/spamfilter/pkg/spamfilter/internalerr"
	"github.com/cognicore/spamfilter/pkg/spamfilter/model"
	"github.com/cognicore/spamfilter/pkg/spamfilter/nb"
	"github.com/cognicore/spamfilter/pkg/spamfilter/normalize"
	"github.com/cognicore/spamfilter/pkg/spamfilter/stoplist"
	"github.com/cognicore/spamfilter/pkg/spamfilter/vectorize"
	"github.com/cognicore/spamfilter/pkg/spamfilter/weight"
)

// Options configures a Pipeline.
type Options struct {
	Stoplist *stoplist.Manager // nil means stoplist.English()
	Alpha    float64           // 0 means nb.DefaultAlpha
	IDs      *model.IDGenerator
	Now      func() time.Time
}

// Pipeline is the trained text classifier. A Pipeline is either unfitted or
// holds a complete, immutable model; Fit replaces the model wholesale.
type Pipeline struct {
	stops *stoplist.Manager
	alpha float64
	ids   *model.IDGenerator
	now   func() time.Time

	fitted     bool
	id         string
	createdAt  time.Time
	language   string
	documents  int
	vectorizer *vectorize.Vectorizer
	idf        weight.IDF
	clf        *nb.Multinomial
}

// Prediction is the outcome of classifying one text.
type Prediction struct {
	Label         string
	Confidence    float64
	Probabilities map[string]float64
}

// New creates an unfitted pipeline.
func New(opts Options) *Pipeline {
	p := &Pipeline{
		stops: opts.Stoplist,
		alpha: opts.Alpha,
		ids:   opts.IDs,
		now:   opts.Now,
	}
	if p.stops == nil {
		p.stops = stoplist.English()
	}
	if p.alpha == 0 {
		p.alpha = nb.DefaultAlpha
	}
	if p.ids == nil {
		p.ids = model.NewIDGenerator()
	}
	if p.now == nil {
		p.now = time.Now
	}
	return p
}

// Fit normalizes docs, builds the vocabulary and idf weights and fits the
// classifier. Both collections must be non-empty and of equal length.
func (p *Pipeline) Fit(docs, labels []string) error {
	if len(docs) == 0 && len(labels) == 0 {
		return internalerr.ErrEmptyTrainingSet
	}
	if len(docs) != len(labels) {
		return fmt.Errorf("%w: %d documents but %d labels", internalerr.ErrTraining, len(docs), len(labels))
	}
	if len(docs) == 0 || len(labels) == 0 {
		return fmt.Errorf("%w: empty documents or labels", internalerr.ErrTraining)
	}
	for i, l := range labels {
		if strings.TrimSpace(l) == "" {
			return fmt.Errorf("%w: empty label at row %d", internalerr.ErrTraining, i)
		}
	}

	normalized := normalize.All(docs)
	vectorizer := vectorize.New(ingest.NewTokenizer(p.stops))
	counts := vectorizer.Fit(normalized)
	dim := vectorizer.Vocabulary().Len()
	idf := weight.Fit(counts, dim)

	clf, err := nb.Fit(idf.TransformAll(counts), labels, dim, p.alpha)
	if err != nil {
		return fmt.Errorf("fit classifier: %w", err)
	}

	created := p.now().UTC()
	p.vectorizer = vectorizer
	p.idf = idf
	p.clf = clf
	p.documents = len(docs)
	p.createdAt = created
	p.id = p.ids.New(created)
	p.language = ""
	p.fitted = true
	return nil
}

// Predict classifies raw text and returns the top label with its posterior.
func (p *Pipeline) Predict(text string) (Prediction, error) {
	if !p.fitted {
		return Prediction{}, internalerr.ErrNotFitted
	}

	x := p.features(text)
	label := p.clf.Predict(x)
	probs := p.clf.PredictProba(x)

	pred := Prediction{
		Label:         label,
		Probabilities: make(map[string]float64, len(probs)),
	}
	for i, l := range p.clf.Labels() {
		pred.Probabilities[l] = probs[i]
	}
	pred.Confidence = pred.Probabilities[label]
	return pred, nil
}

// PredictBatch classifies every text.
func (p *Pipeline) PredictBatch(texts []string) ([]Prediction, error) {
	out := make([]Prediction, len(texts))
	for i, t := range texts {
		pred, err := p.Predict(t)
		if err != nil {
			return nil, err
		}
		out[i] = pred
	}
	return out, nil
}

// Labels returns the labels seen in training in canonical order.
func (p *Pipeline) Labels() []string {
	if !p.fitted {
		return nil
	}
	return p.clf.Labels()
}

// Fitted reports whether the pipeline holds a model.
func (p *Pipeline) Fitted() bool {
	return p.fitted
}

// ID returns the identifier of the current model.
func (p *Pipeline) ID() string {
	return p.id
}

// Language returns the training language recorded for the model, if any.
func (p *Pipeline) Language() string {
	return p.language
}

// SetLanguage records the dominant training language.
func (p *Pipeline) SetLanguage(lang string) {
	p.language = lang
}

// Vocabulary returns the fitted vocabulary.
func (p *Pipeline) Vocabulary() *vectorize.Vocabulary {
	if !p.fitted {
		return nil
	}
	return p.vectorizer.Vocabulary()
}

// IDF returns the fitted idf weights.
func (p *Pipeline) IDF() weight.IDF {
	return p.idf
}

func (p *Pipeline) features(text string) vectorize.Vector {
	counts := p.vectorizer.Transform(normalize.Text(text))
	return p.idf.Transform(counts)
}
