package filestore

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/spamfilter/pkg/spamfilter/internalerr"
	"github.com/cognicore/spamfilter/pkg/spamfilter/store"
	"github.com/cognicore/spamfilter/pkg/spamfilter/store/storetest"
)

func TestFileStoreContract(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		return New(filepath.Join(t.TempDir(), "models", "spam_nb_model.bin"))
	})
}

func TestFileStoreLoadByID(t *testing.T) {
	ctx := context.Background()
	st := New(filepath.Join(t.TempDir(), "model.bin"))
	a := storetest.Artifact(t, time.Now())
	require.NoError(t, st.Save(ctx, a))

	got, err := st.Load(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)

	_, err = st.Load(ctx, "someone-else")
	assert.ErrorIs(t, err, internalerr.ErrNotFound)
}

func TestFileStoreCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.bin")
	require.NoError(t, os.WriteFile(path, []byte("not a model"), 0o644))

	_, err := New(path).Latest(context.Background())
	assert.ErrorIs(t, err, internalerr.ErrArtifact)
}

func TestFileStoreLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	st := New(filepath.Join(dir, "model.bin"))
	require.NoError(t, st.Save(context.Background(), storetest.Artifact(t, time.Now())))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "model.bin", entries[0].Name())
}
