// Package inference is the single-message classification entrypoint used by
// the spam-predict executable and, through it, by the chat bridge.
package inference

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cognicore/spamfilter/pkg/spamfilter/internalerr"
	"github.com/cognicore/spamfilter/pkg/spamfilter/langguard"
	"github.com/cognicore/spamfilter/pkg/spamfilter/model"
	"github.com/cognicore/spamfilter/pkg/spamfilter/pipeline"
)

// ErrorLine is printed when no prediction could be made.
const ErrorLine = "error|0.0"

// Loader returns the artifact to classify with.
type Loader interface {
	Latest(ctx context.Context) (*model.Artifact, error)
}

// Run classifies args[0] and writes exactly one "label|confidence" line to
// stdout. It returns the process exit code: 0 on success, 1 otherwise, in
// which case the line is ErrorLine. Diagnostics go to log only.
func Run(ctx context.Context, args []string, loader Loader, stdout io.Writer, log *logrus.Entry) (code int) {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", r).Error("Classification aborted")
			fmt.Fprintln(stdout, ErrorLine)
			code = 1
		}
	}()

	line, err := classify(ctx, args, loader, log)
	if err != nil {
		log.WithError(err).Error("Classification failed")
		fmt.Fprintln(stdout, ErrorLine)
		return 1
	}
	fmt.Fprintln(stdout, line)
	return 0
}

func classify(ctx context.Context, args []string, loader Loader, log *logrus.Entry) (string, error) {
	if len(args) < 1 {
		return "", fmt.Errorf("%w: missing message argument", internalerr.ErrInvalidInput)
	}
	if loader == nil {
		return "", fmt.Errorf("%w: no model source", internalerr.ErrArtifact)
	}
	text := args[0]

	a, err := loader.Latest(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: load model: %w", internalerr.ErrArtifact, err)
	}
	if created, err := model.Time(a.ID); err == nil {
		log.WithFields(logrus.Fields{
			"model":     a.ID,
			"model_age": time.Since(created).Round(time.Second).String(),
		}).Debug("Model loaded")
	}
	p, err := pipeline.FromArtifact(a)
	if err != nil {
		return "", err
	}

	if detected, mismatch := langguard.Mismatch(p.Language(), text); mismatch {
		log.WithFields(logrus.Fields{
			"trained":  p.Language(),
			"detected": detected,
		}).Warn("Message language differs from training language")
	}

	pred, err := p.Predict(text)
	if err != nil {
		return "", err
	}
	return pred.Label + "|" + FormatConfidence(pred.Confidence), nil
}

// FormatConfidence renders c in the shortest form that round-trips, always
// with a decimal point ("1.0", "0.975").
func FormatConfidence(c float64) string {
	s := strconv.FormatFloat(c, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
