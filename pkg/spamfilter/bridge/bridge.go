// Package bridge connects chat components to a spam classifier, either in
// process or through the spam-predict executable.
package bridge

import (
	"context"
	"strconv"
	"strings"

	"github.com/cognicore/spamfilter/pkg/spamfilter/pipeline"
)

// ErrorLabel marks a classification that could not be made.
const ErrorLabel = "error"

// Result is a classifier verdict as exchanged over the "label|confidence"
// line protocol.
type Result struct {
	Label      string
	Confidence float64
}

// ErrorResult is returned whenever classification fails.
var ErrorResult = Result{Label: ErrorLabel}

// Classifier labels a single message.
type Classifier interface {
	Classify(ctx context.Context, text string) (Result, error)
}

// ParseLine decodes one "label|confidence" line. A line without a separator
// is taken as a bare label with full confidence; an unparseable confidence
// reads as 0 and an empty line yields ErrorResult.
func ParseLine(line string) Result {
	line = strings.TrimSpace(line)
	if line == "" {
		return ErrorResult
	}
	label, rest, found := strings.Cut(line, "|")
	if !found {
		return Result{Label: line, Confidence: 1.0}
	}
	if i := strings.IndexByte(rest, '|'); i >= 0 {
		rest = rest[:i]
	}
	conf, err := strconv.ParseFloat(strings.TrimSpace(rest), 64)
	if err != nil {
		conf = 0
	}
	return Result{Label: strings.TrimSpace(label), Confidence: conf}
}

// InProcess classifies with a loaded pipeline.
type InProcess struct {
	Pipeline *pipeline.Pipeline
}

// Classify implements Classifier.
func (c InProcess) Classify(ctx context.Context, text string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return ErrorResult, err
	}
	pred, err := c.Pipeline.Predict(text)
	if err != nil {
		return ErrorResult, err
	}
	return Result{Label: pred.Label, Confidence: pred.Confidence}, nil
}
