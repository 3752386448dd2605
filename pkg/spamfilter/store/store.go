package store

import (
	"context"
	"time"

	"github.com/cognicore/spamfilter/pkg/spamfilter/eval"
	"github.com/cognicore/spamfilter/pkg/spamfilter/model"
)

// Store persists trained model artifacts and serves them back for inference
type Store interface {
	Close() error

	// Save writes a and makes it the latest model.
	Save(ctx context.Context, a *model.Artifact) error
	// Load returns the artifact with the given ID.
	Load(ctx context.Context, id string) (*model.Artifact, error)
	// Latest returns the most recently saved artifact.
	Latest(ctx context.Context) (*model.Artifact, error)
}

// EvaluationRecorder is implemented by stores that keep evaluation history
type EvaluationRecorder interface {
	RecordEvaluation(ctx context.Context, modelID string, r eval.Report) error
	Evaluations(ctx context.Context, modelID string) ([]Evaluation, error)
}

// Evaluation is a stored evaluation run
type Evaluation struct {
	ModelID    string
	RecordedAt time.Time
	Report     eval.Report
}
