// Package backend opens the configured model store.
package backend

import (
	"context"
	"fmt"

	"github.com/cognicore/spamfilter/pkg/spamfilter/internalerr"
	"github.com/cognicore/spamfilter/pkg/spamfilter/store"
	"github.com/cognicore/spamfilter/pkg/spamfilter/store/badgerstore"
	"github.com/cognicore/spamfilter/pkg/spamfilter/store/filestore"
	"github.com/cognicore/spamfilter/pkg/spamfilter/store/memstore"
	"github.com/cognicore/spamfilter/pkg/spamfilter/store/sqlite"
)

// Backend names accepted by Open.
const (
	File   = "file"
	SQLite = "sqlite"
	Badger = "badger"
	Memory = "memory"
)

// Open returns the store for name rooted at path.
func Open(ctx context.Context, name, path string) (store.Store, error) {
	switch name {
	case "", File:
		return filestore.New(path), nil
	case SQLite:
		return sqlite.OpenSQLite(ctx, path)
	case Badger:
		return badgerstore.Open(path)
	case Memory:
		return memstore.New(), nil
	default:
		return nil, fmt.Errorf("%w: unknown model backend %q", internalerr.ErrInvalidConfig, name)
	}
}

// OpenReadOnly is Open for processes that only load models. Badger is
// opened without its writer lock so predictors and the relay can read a
// directory concurrently; the other backends already allow shared readers.
func OpenReadOnly(ctx context.Context, name, path string) (store.Store, error) {
	if name == Badger {
		return badgerstore.OpenReadOnly(path)
	}
	return Open(ctx, name, path)
}
