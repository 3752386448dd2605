// Package training runs the end-to-end model training workflow.
package training

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/cognicore/spamfilter/pkg/spamfilter/dataset"
	"github.com/cognicore/spamfilter/pkg/spamfilter/eval"
	"github.com/cognicore/spamfilter/pkg/spamfilter/langguard"
	"github.com/cognicore/spamfilter/pkg/spamfilter/model"
	"github.com/cognicore/spamfilter/pkg/spamfilter/pipeline"
	"github.com/cognicore/spamfilter/pkg/spamfilter/store"
)

// Source yields the labeled corpus.
type Source interface {
	Load(ctx context.Context) ([]dataset.Example, error)
}

// Sink persists trained artifacts.
type Sink interface {
	Save(ctx context.Context, a *model.Artifact) error
}

// Workflow trains a pipeline from Source and persists it to Sink. The steps
// run strictly in order: load, distribution, split, fit, evaluate, persist.
type Workflow struct {
	Source   Source
	Sink     Sink
	Options  pipeline.Options
	TestSize float64
	Seed     int64
	Out      io.Writer // human-readable report; nil discards
	Log      *logrus.Entry
}

// Result summarizes a training run.
type Result struct {
	Pipeline     *pipeline.Pipeline
	Artifact     *model.Artifact
	Distribution []dataset.LabelCount
	Train        int
	Test         int
	Report       eval.Report // zero when the test split is empty
}

// Run executes the workflow.
func (w *Workflow) Run(ctx context.Context) (Result, error) {
	var res Result
	if w.Source == nil || w.Sink == nil {
		return res, errors.New("training: invalid configuration")
	}
	log := w.Log
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	out := w.Out
	if out == nil {
		out = io.Discard
	}

	log.Info("Loading dataset...")
	examples, err := w.Source.Load(ctx)
	if err != nil {
		return res, fmt.Errorf("load dataset: %w", err)
	}
	res.Distribution = dataset.Distribution(examples)
	log.WithField("examples", len(examples)).Info("Dataset loaded")
	eval.RenderDistribution(out, res.Distribution)

	train, test, err := dataset.Split(examples, w.TestSize, w.Seed)
	if err != nil {
		return res, fmt.Errorf("split dataset: %w", err)
	}
	res.Train, res.Test = len(train), len(test)

	if err := ctx.Err(); err != nil {
		return res, err
	}
	log.WithFields(logrus.Fields{"train": res.Train, "test": res.Test}).Info("Training model...")
	p := pipeline.New(w.Options)
	trainTexts := dataset.Texts(train)
	if err := p.Fit(trainTexts, dataset.Labels(train)); err != nil {
		return res, err
	}
	p.SetLanguage(langguard.Detect(trainTexts))
	res.Pipeline = p

	if len(test) > 0 {
		preds, err := p.PredictBatch(dataset.Texts(test))
		if err != nil {
			return res, fmt.Errorf("evaluate: %w", err)
		}
		labels := make([]string, len(preds))
		for i, pr := range preds {
			labels[i] = pr.Label
		}
		res.Report = eval.Evaluate(dataset.Labels(test), labels)
		fmt.Fprintln(out)
		eval.Render(out, res.Report)
		log.WithField("accuracy", res.Report.Accuracy).Info("Evaluation complete")
	} else {
		log.Warn("Empty test split; skipping evaluation")
	}

	a, err := p.Snapshot()
	if err != nil {
		return res, err
	}
	if err := w.Sink.Save(ctx, a); err != nil {
		return res, fmt.Errorf("save model: %w", err)
	}
	res.Artifact = a
	log.WithFields(logrus.Fields{
		"model":      a.ID,
		"vocabulary": len(a.Vocabulary),
		"language":   a.Language,
	}).Info("Model saved")

	if rec, ok := w.Sink.(store.EvaluationRecorder); ok && res.Test > 0 {
		if err := rec.RecordEvaluation(ctx, a.ID, res.Report); err != nil {
			return res, fmt.Errorf("record evaluation: %w", err)
		}
	}
	return res, nil
}
