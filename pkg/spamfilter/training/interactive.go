package training

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/cognicore/spamfilter/pkg/spamfilter/pipeline"
)

// Predictor classifies a single message.
type Predictor interface {
	Predict(text string) (pipeline.Prediction, error)
}

// Prompt is printed before each message is read.
const Prompt = "Enter a message to classify (or 'exit'): "

// Interactive reads messages from in and writes one verdict per message to
// out until the user types exit (any case), in reaches EOF or ctx is done.
// render formats a verdict; nil uses a plain "Prediction -> label" line.
func Interactive(ctx context.Context, in io.Reader, out io.Writer, p Predictor, render func(pipeline.Prediction) string) error {
	if render == nil {
		render = func(pr pipeline.Prediction) string {
			return fmt.Sprintf("Prediction -> %s (%.4f)", pr.Label, pr.Confidence)
		}
	}

	scanner := bufio.NewScanner(in)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(out, "\n"+Prompt)
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		msg := strings.TrimSpace(scanner.Text())
		if strings.EqualFold(msg, "exit") {
			return nil
		}

		pr, err := p.Predict(msg)
		if err != nil {
			return fmt.Errorf("classify: %w", err)
		}
		fmt.Fprintln(out, "\n"+render(pr))
	}
}
