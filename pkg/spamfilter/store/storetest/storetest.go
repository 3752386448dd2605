// Package storetest holds a conformance suite shared by store backends.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/spamfilter/pkg/spamfilter/internalerr"
	"github.com/cognicore/spamfilter/pkg/spamfilter/model"
	"github.com/cognicore/spamfilter/pkg/spamfilter/pipeline"
	"github.com/cognicore/spamfilter/pkg/spamfilter/store"
)

// Artifact trains a small pipeline and snapshots it. Successive calls get
// strictly increasing creation times.
func Artifact(t *testing.T, at time.Time) *model.Artifact {
	t.Helper()
	p := pipeline.New(pipeline.Options{Now: func() time.Time { return at }})
	err := p.Fit(
		[]string{"win a free prize", "free cash winner", "see you at lunch", "meeting moved to friday"},
		[]string{"spam", "spam", "ham", "ham"},
	)
	require.NoError(t, err)
	a, err := p.Snapshot()
	require.NoError(t, err)
	return a
}

// Run exercises the store.Store contract against a fresh store from open.
func Run(t *testing.T, open func(t *testing.T) store.Store) {
	ctx := context.Background()

	t.Run("empty", func(t *testing.T) {
		st := open(t)
		_, err := st.Latest(ctx)
		assert.ErrorIs(t, err, internalerr.ErrNotFound)
		_, err = st.Load(ctx, "01ARZ3NDEKTSV4RRFFQ69G5FAV")
		assert.ErrorIs(t, err, internalerr.ErrNotFound)
	})

	t.Run("round trip", func(t *testing.T) {
		st := open(t)
		base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
		first := Artifact(t, base)
		second := Artifact(t, base.Add(time.Minute))

		require.NoError(t, st.Save(ctx, first))
		require.NoError(t, st.Save(ctx, second))

		latest, err := st.Latest(ctx)
		require.NoError(t, err)
		assert.Equal(t, second.ID, latest.ID)
		assert.Equal(t, second.Vocabulary, latest.Vocabulary)
		assert.Equal(t, second.FeatureLogProb, latest.FeatureLogProb)

		p, err := pipeline.FromArtifact(latest)
		require.NoError(t, err)
		pred, err := p.Predict("free prize inside")
		require.NoError(t, err)
		assert.Equal(t, "spam", pred.Label)
	})

	t.Run("rejects invalid", func(t *testing.T) {
		st := open(t)
		bad := Artifact(t, time.Now())
		bad.IDF = bad.IDF[:0]
		assert.ErrorIs(t, st.Save(ctx, bad), internalerr.ErrArtifact)
	})
}
