package memstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/spamfilter/pkg/spamfilter/eval"
	"github.com/cognicore/spamfilter/pkg/spamfilter/store"
	"github.com/cognicore/spamfilter/pkg/spamfilter/store/storetest"
)

func TestMemStoreContract(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store { return New() })
}

func TestMemStoreLoadIsPrivateCopy(t *testing.T) {
	ctx := context.Background()
	st := New()
	a := storetest.Artifact(t, time.Now())
	require.NoError(t, st.Save(ctx, a))

	loaded, err := st.Load(ctx, a.ID)
	require.NoError(t, err)
	loaded.Vocabulary[0] = "mutated"

	again, err := st.Load(ctx, a.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "mutated", again.Vocabulary[0])
}

func TestMemStoreEvaluations(t *testing.T) {
	ctx := context.Background()
	st := New()
	report := eval.Evaluate([]string{"ham"}, []string{"ham"})
	require.NoError(t, st.RecordEvaluation(ctx, "m1", report))

	evs, err := st.Evaluations(ctx, "m1")
	require.NoError(t, err)
	require.Len(t, evs, 1)
	assert.Equal(t, 1.0, evs[0].Report.Accuracy)
}
