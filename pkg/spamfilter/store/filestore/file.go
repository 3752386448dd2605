// Package filestore keeps a single model artifact at a fixed path.
package filestore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/cognicore/spamfilter/pkg/spamfilter/internalerr"
	"github.com/cognicore/spamfilter/pkg/spamfilter/model"
)

// Store writes the artifact to Path, replacing the previous one.
type Store struct {
	Path string
}

// New returns a store for path.
func New(path string) *Store {
	return &Store{Path: path}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// Save writes a to a temporary file next to Path and renames it into place,
// so readers never observe a partial artifact.
func (s *Store) Save(ctx context.Context, a *model.Artifact) error {
	if err := a.Validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create model dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(s.Path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp artifact: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := model.Encode(tmp, a); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close artifact: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.Path); err != nil {
		return fmt.Errorf("install artifact: %w", err)
	}
	return nil
}

// Latest reads the artifact at Path.
func (s *Store) Latest(ctx context.Context) (*model.Artifact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("model %s: %w", s.Path, internalerr.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrArtifact, err)
	}
	defer f.Close()
	return model.Decode(f)
}

// Load returns the artifact at Path if its ID matches id.
func (s *Store) Load(ctx context.Context, id string) (*model.Artifact, error) {
	a, err := s.Latest(ctx)
	if err != nil {
		return nil, err
	}
	if a.ID != id {
		return nil, fmt.Errorf("model %s: %w", id, internalerr.ErrNotFound)
	}
	return a, nil
}
