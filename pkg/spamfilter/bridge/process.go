package bridge

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"
)

// DefaultTimeout bounds a single classifier subprocess.
const DefaultTimeout = 3 * time.Second

// pipeWaitDelay is how long Classify waits for stdout to close once the
// predictor has been killed.
const pipeWaitDelay = 100 * time.Millisecond

// Process runs an external predictor once per message, passing the message
// as the final argument and reading the first line of its stdout.
type Process struct {
	Command string
	Args    []string
	Timeout time.Duration // 0 means DefaultTimeout
}

// Classify implements Classifier. A predictor that exits non-zero after
// printing a result line still yields that result.
func (p Process) Classify(ctx context.Context, text string) (Result, error) {
	if p.Command == "" {
		return ErrorResult, errors.New("bridge: no predictor command")
	}
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	args := append(append([]string(nil), p.Args...), text)
	cmd := exec.CommandContext(ctx, p.Command, args...)
	// Descendants that inherit stdout would otherwise keep Output blocked
	// past the deadline.
	cmd.WaitDelay = pipeWaitDelay
	out, runErr := cmd.Output()

	sc := bufio.NewScanner(bytes.NewReader(out))
	if sc.Scan() {
		return ParseLine(sc.Text()), nil
	}
	if runErr != nil {
		return ErrorResult, fmt.Errorf("run %s: %w", p.Command, runErr)
	}
	return ErrorResult, fmt.Errorf("run %s: no output", p.Command)
}
