package memstore

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cognicore/spamfilter/pkg/spamfilter/eval"
	"github.com/cognicore/spamfilter/pkg/spamfilter/internalerr"
	"github.com/cognicore/spamfilter/pkg/spamfilter/model"
	"github.com/cognicore/spamfilter/pkg/spamfilter/store"
)

// Store is an in-memory implementation of store.Store for tests.
// Artifacts are kept encoded so every Load yields a private copy.
type Store struct {
	mu          sync.RWMutex
	models      map[string][]byte
	latest      string
	evaluations map[string][]store.Evaluation
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		models:      make(map[string][]byte),
		evaluations: make(map[string][]store.Evaluation),
	}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// Save implements store.Store.
func (s *Store) Save(ctx context.Context, a *model.Artifact) error {
	if err := a.Validate(); err != nil {
		return err
	}
	data, err := model.Marshal(a)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.models[a.ID] = data
	s.latest = a.ID
	return nil
}

// Load implements store.Store.
func (s *Store) Load(ctx context.Context, id string) (*model.Artifact, error) {
	s.mu.RLock()
	data, ok := s.models[id]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("model %s: %w", id, internalerr.ErrNotFound)
	}
	return model.Unmarshal(data)
}

// Latest implements store.Store.
func (s *Store) Latest(ctx context.Context) (*model.Artifact, error) {
	s.mu.RLock()
	id := s.latest
	s.mu.RUnlock()
	if id == "" {
		return nil, fmt.Errorf("latest model: %w", internalerr.ErrNotFound)
	}
	return s.Load(ctx, id)
}

// RecordEvaluation implements store.EvaluationRecorder.
func (s *Store) RecordEvaluation(ctx context.Context, modelID string, r eval.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evaluations[modelID] = append(s.evaluations[modelID], store.Evaluation{
		ModelID:    modelID,
		RecordedAt: time.Now().UTC(),
		Report:     r,
	})
	return nil
}

// Evaluations implements store.EvaluationRecorder.
func (s *Store) Evaluations(ctx context.Context, modelID string) ([]store.Evaluation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]store.Evaluation(nil), s.evaluations[modelID]...), nil
}
