package bridge

import (
	"context"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

// DefaultThreshold is the spam confidence at or above which messages are
// blocked.
const DefaultThreshold = 0.80

// SpamLabel is the label the gate blocks on.
const SpamLabel = "spam"

// Verdict is the outcome of passing a message through a Gate.
type Verdict struct {
	Result  Result
	Checked bool // false when the gate is off
	Blocked bool
}

// Gate decides whether a chat message may be delivered. It starts enabled.
type Gate struct {
	classifier Classifier
	threshold  float64
	log        *logrus.Entry
	disabled   atomic.Bool
}

// NewGate returns an enabled gate. threshold <= 0 means DefaultThreshold.
func NewGate(c Classifier, threshold float64, log *logrus.Entry) *Gate {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Gate{classifier: c, threshold: threshold, log: log.WithField("component", "gate")}
}

// Enabled reports whether messages are being classified.
func (g *Gate) Enabled() bool { return !g.disabled.Load() }

// SetEnabled switches classification on or off.
func (g *Gate) SetEnabled(on bool) { g.disabled.Store(!on) }

// Threshold returns the blocking confidence.
func (g *Gate) Threshold() float64 { return g.threshold }

// Check classifies text when the gate is on. A message is blocked only when
// it is labeled spam with confidence at or above the threshold; classifier
// failures let the message through.
func (g *Gate) Check(ctx context.Context, text string) Verdict {
	if !g.Enabled() {
		return Verdict{}
	}
	res, err := g.classifier.Classify(ctx, text)
	if err != nil {
		g.log.WithError(err).Warn("Classifier failed; delivering message")
	}
	return Verdict{
		Result:  res,
		Checked: true,
		Blocked: res.Label == SpamLabel && res.Confidence >= g.threshold,
	}
}
