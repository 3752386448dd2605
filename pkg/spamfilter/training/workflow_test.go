package training

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/spamfilter/internal/logging"
	"github.com/cognicore/spamfilter/pkg/spamfilter/dataset"
	"github.com/cognicore/spamfilter/pkg/spamfilter/internalerr"
	"github.com/cognicore/spamfilter/pkg/spamfilter/pipeline"
	"github.com/cognicore/spamfilter/pkg/spamfilter/store/memstore"
)

type sliceSource []dataset.Example

func (s sliceSource) Load(ctx context.Context) ([]dataset.Example, error) {
	return s, nil
}

type failingSource struct{ err error }

func (s failingSource) Load(ctx context.Context) ([]dataset.Example, error) {
	return nil, s.err
}

func corpus() sliceSource {
	var out sliceSource
	for i := 0; i < 10; i++ {
		out = append(out,
			dataset.Example{Label: "spam", Message: fmt.Sprintf("WINNER! claim your free prize number %d now at http://win.example", i)},
			dataset.Example{Label: "ham", Message: fmt.Sprintf("see you at lunch on day %d, bring the notes", i)},
		)
	}
	return out
}

func TestWorkflowRun(t *testing.T) {
	ctx := context.Background()
	sink := memstore.New()
	var out bytes.Buffer

	wf := &Workflow{
		Source:   corpus(),
		Sink:     sink,
		TestSize: 0.2,
		Seed:     42,
		Out:      &out,
		Log:      logging.Discard(),
	}
	res, err := wf.Run(ctx)
	require.NoError(t, err)

	assert.Equal(t, 16, res.Train)
	assert.Equal(t, 4, res.Test)
	assert.Equal(t, []dataset.LabelCount{{Label: "ham", Count: 10}, {Label: "spam", Count: 10}}, res.Distribution)
	assert.Equal(t, 4, res.Report.Total)
	assert.Equal(t, 1.0, res.Report.Accuracy)

	latest, err := sink.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, res.Artifact.ID, latest.ID)

	evs, err := sink.Evaluations(ctx, res.Artifact.ID)
	require.NoError(t, err)
	require.Len(t, evs, 1)
	assert.Equal(t, res.Report.Accuracy, evs[0].Report.Accuracy)

	report := out.String()
	assert.Contains(t, report, "Accuracy:")
	assert.Contains(t, report, "spam")

	pred, err := res.Pipeline.Predict("claim your free prize")
	require.NoError(t, err)
	assert.Equal(t, "spam", pred.Label)
}

func TestWorkflowNoTestSplit(t *testing.T) {
	sink := memstore.New()
	wf := &Workflow{Source: corpus(), Sink: sink, TestSize: 0, Log: logging.Discard()}
	res, err := wf.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 20, res.Train)
	assert.Zero(t, res.Test)

	evs, err := sink.Evaluations(context.Background(), res.Artifact.ID)
	require.NoError(t, err)
	assert.Empty(t, evs)
}

func TestWorkflowErrors(t *testing.T) {
	ctx := context.Background()

	_, err := (&Workflow{}).Run(ctx)
	assert.Error(t, err)

	wf := &Workflow{Source: sliceSource(nil), Sink: memstore.New(), TestSize: 0.2, Log: logging.Discard()}
	_, err = wf.Run(ctx)
	assert.ErrorIs(t, err, internalerr.ErrEmptyTrainingSet)
	assert.ErrorIs(t, err, internalerr.ErrTraining)

	boom := errors.New("disk on fire")
	wf = &Workflow{Source: failingSource{boom}, Sink: memstore.New(), Log: logging.Discard()}
	_, err = wf.Run(ctx)
	assert.ErrorIs(t, err, boom)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	wf = &Workflow{Source: corpus(), Sink: memstore.New(), TestSize: 0.2, Log: logging.Discard()}
	_, err = wf.Run(cancelled)
	assert.ErrorIs(t, err, context.Canceled)
}

type fixedPredictor struct{ seen []string }

func (f *fixedPredictor) Predict(text string) (pipeline.Prediction, error) {
	f.seen = append(f.seen, text)
	return pipeline.Prediction{Label: "ham", Confidence: 0.75}, nil
}

func TestInteractive(t *testing.T) {
	p := &fixedPredictor{}
	var out bytes.Buffer
	in := strings.NewReader("hello there\n  second one  \nEXIT\nnever read\n")

	require.NoError(t, Interactive(context.Background(), in, &out, p, nil))
	assert.Equal(t, []string{"hello there", "second one"}, p.seen)
	assert.Equal(t, 3, strings.Count(out.String(), Prompt))
	assert.Contains(t, out.String(), "Prediction -> ham (0.7500)")
}

func TestInteractiveEOF(t *testing.T) {
	p := &fixedPredictor{}
	var out bytes.Buffer
	err := Interactive(context.Background(), strings.NewReader("one"), &out, p, func(pr pipeline.Prediction) string {
		return "<" + pr.Label + ">"
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"one"}, p.seen)
	assert.Contains(t, out.String(), "<ham>")
}
