package backend

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/spamfilter/pkg/spamfilter/internalerr"
	"github.com/cognicore/spamfilter/pkg/spamfilter/store/badgerstore"
	"github.com/cognicore/spamfilter/pkg/spamfilter/store/filestore"
	"github.com/cognicore/spamfilter/pkg/spamfilter/store/memstore"
)

func TestOpen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	st, err := Open(ctx, "", filepath.Join(dir, "m.bin"))
	require.NoError(t, err)
	assert.IsType(t, &filestore.Store{}, st)

	st, err = Open(ctx, Memory, "")
	require.NoError(t, err)
	assert.IsType(t, &memstore.Store{}, st)

	for _, name := range []string{SQLite, Badger} {
		st, err := Open(ctx, name, filepath.Join(dir, name))
		require.NoError(t, err, name)
		require.NoError(t, st.Close())
	}

	_, err = Open(ctx, "redis", "")
	assert.ErrorIs(t, err, internalerr.ErrInvalidConfig)
}

func TestOpenReadOnlyBadger(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "models")

	_, err := OpenReadOnly(ctx, Badger, dir)
	assert.ErrorIs(t, err, internalerr.ErrNotFound)

	w, err := Open(ctx, Badger, dir)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	r1, err := OpenReadOnly(ctx, Badger, dir)
	require.NoError(t, err)
	defer r1.Close()
	r2, err := OpenReadOnly(ctx, Badger, dir)
	require.NoError(t, err)
	defer r2.Close()
	assert.IsType(t, &badgerstore.Store{}, r2)

	st, err := OpenReadOnly(ctx, Memory, "")
	require.NoError(t, err)
	assert.IsType(t, &memstore.Store{}, st)
}
