// Package badgerstore keeps model artifacts in an embedded Badger database.
package badgerstore

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/dgraph-io/badger/v4"

	"github.com/cognicore/spamfilter/pkg/spamfilter/internalerr"
	"github.com/cognicore/spamfilter/pkg/spamfilter/model"
)

const (
	modelPrefix = "model:"
	latestKey   = "latest"
)

// Store implements store.Store over Badger. Artifacts live under
// "model:<id>" and "latest" holds the ID of the newest one.
type Store struct {
	db *badger.DB
}

// Open opens (or creates) a Badger database at path. An empty path opens an
// in-memory database.
func Open(path string) (*Store, error) {
	opts := badger.DefaultOptions(path).WithLoggingLevel(badger.ERROR)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return &Store{db: db}, nil
}

// OpenReadOnly opens an existing database at path without taking the
// writer lock, so several readers can share one directory. Save fails on a
// read-only store. An empty path falls back to Open, since Badger cannot
// combine in-memory and read-only modes.
func OpenReadOnly(path string) (*Store, error) {
	if path == "" {
		return Open(path)
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("open badger %s: %w", path, internalerr.ErrNotFound)
	}
	opts := badger.DefaultOptions(path).
		WithLoggingLevel(badger.ERROR).
		WithReadOnly(true)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger read-only: %w", err)
	}
	return &Store{db: db}, nil
}

// Close implements store.Store.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save implements store.Store.
func (s *Store) Save(ctx context.Context, a *model.Artifact) error {
	if err := a.Validate(); err != nil {
		return err
	}
	data, err := model.Marshal(a)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(modelPrefix+a.ID), data); err != nil {
			return err
		}
		return txn.Set([]byte(latestKey), []byte(a.ID))
	})
}

// Load implements store.Store.
func (s *Store) Load(ctx context.Context, id string) (*model.Artifact, error) {
	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(modelPrefix + id))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("model %s: %w", id, internalerr.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return model.Unmarshal(data)
}

// Latest implements store.Store.
func (s *Store) Latest(ctx context.Context) (*model.Artifact, error) {
	var id string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(latestKey))
		if err != nil {
			return err
		}
		return item.Value(func(v []byte) error {
			id = string(v)
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("latest model: %w", internalerr.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return s.Load(ctx, id)
}

// IDs lists stored model IDs in ascending order.
func (s *Store) IDs() ([]string, error) {
	var ids []string
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(modelPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			ids = append(ids, string(it.Item().Key()[len(prefix):]))
		}
		return nil
	})
	return ids, err
}
