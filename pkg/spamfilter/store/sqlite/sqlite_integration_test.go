package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/spamfilter/pkg/spamfilter/eval"
	"github.com/cognicore/spamfilter/pkg/spamfilter/store"
	"github.com/cognicore/spamfilter/pkg/spamfilter/store/storetest"
)

func openTemp(t *testing.T) Store {
	t.Helper()
	st, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "models.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func TestSQLiteContract(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store { return openTemp(t) })
}

func TestSQLiteReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "models.db")

	st, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	a := storetest.Artifact(t, time.Now())
	require.NoError(t, st.Save(ctx, a))
	require.NoError(t, st.Close())

	st, err = OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer st.Close()

	got, err := st.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)
}

func TestSQLiteEvaluations(t *testing.T) {
	ctx := context.Background()
	st := openTemp(t)
	a := storetest.Artifact(t, time.Now())
	require.NoError(t, st.Save(ctx, a))

	report := eval.Evaluate([]string{"ham", "spam"}, []string{"ham", "ham"})
	require.NoError(t, st.RecordEvaluation(ctx, a.ID, report))

	evs, err := st.Evaluations(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, evs, 1)
	assert.Equal(t, a.ID, evs[0].ModelID)
	assert.InDelta(t, 0.5, evs[0].Report.Accuracy, 1e-12)
	assert.Equal(t, [][]int{{1, 0}, {1, 0}}, evs[0].Report.Confusion)

	none, err := st.Evaluations(ctx, "unknown")
	require.NoError(t, err)
	assert.Empty(t, none)
}
