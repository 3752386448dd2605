// Package predictor builds the classifier behind the chat spam gates.
package predictor

import (
	"context"
	"fmt"
	"strings"

	"github.com/cognicore/spamfilter/pkg/spamfilter/bridge"
	"github.com/cognicore/spamfilter/pkg/spamfilter/config"
	"github.com/cognicore/spamfilter/pkg/spamfilter/pipeline"
	"github.com/cognicore/spamfilter/pkg/spamfilter/store/backend"
)

// Build prefers the subprocess bridge when a predictor command is
// configured and otherwise loads the latest model in process. The store is
// opened read-only and closed before Build returns.
func Build(ctx context.Context, cfg config.Config) (bridge.Classifier, error) {
	if fields := strings.Fields(cfg.Inference.Command); len(fields) > 0 {
		return bridge.Process{
			Command: fields[0],
			Args:    fields[1:],
			Timeout: cfg.Inference.Timeout,
		}, nil
	}

	st, err := backend.OpenReadOnly(ctx, cfg.Model.Backend, cfg.Model.Path)
	if err != nil {
		return nil, fmt.Errorf("open model store: %w", err)
	}
	defer st.Close()

	a, err := st.Latest(ctx)
	if err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}
	p, err := pipeline.FromArtifact(a)
	if err != nil {
		return nil, err
	}
	return bridge.InProcess{Pipeline: p}, nil
}
