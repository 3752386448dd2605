package weight

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/spamfilter/pkg/spamfilter/ingest"
	"github.com/cognicore/spamfilter/pkg/spamfilter/vectorize"
)

func fitCorpus(t *testing.T, docs []string) (*vectorize.Vectorizer, []vectorize.Vector, IDF) {
	t.Helper()
	v := vectorize.New(ingest.NewTokenizer(nil))
	counts := v.Fit(docs)
	return v, counts, Fit(counts, v.Vocabulary().Len())
}

func TestSharedTermHasLowerIDF(t *testing.T) {
	v, _, idf := fitCorpus(t, []string{"free money now", "call now"})

	now, ok := v.Vocabulary().Index("now")
	require.True(t, ok)
	free, ok := v.Vocabulary().Index("free")
	require.True(t, ok)

	assert.Less(t, idf.Weight(now), idf.Weight(free))
	assert.InDelta(t, 1.0, idf.Weight(now), 1e-12)
	assert.InDelta(t, math.Log(3.0/2.0)+1, idf.Weight(free), 1e-12)
}

func TestWeightsPositive(t *testing.T) {
	_, _, idf := fitCorpus(t, []string{"aa bb", "bb cc", "cc dd", "dd aa bb"})
	for i := 0; i < idf.Len(); i++ {
		assert.Greater(t, idf.Weight(i), 0.0)
	}
}

func TestTransformL2Normalized(t *testing.T) {
	v, _, idf := fitCorpus(t, []string{"free money now", "call now"})

	out := idf.Transform(v.Transform("free free now"))
	assert.InDelta(t, 1.0, out.Norm(), 1e-12)

	free, _ := v.Vocabulary().Index("free")
	now, _ := v.Vocabulary().Index("now")
	wantFree := 2 * idf.Weight(free)
	wantNow := 1 * idf.Weight(now)
	norm := math.Hypot(wantFree, wantNow)
	assert.InDelta(t, wantFree/norm, out.At(free), 1e-12)
	assert.InDelta(t, wantNow/norm, out.At(now), 1e-12)
}

func TestTransformZeroVector(t *testing.T) {
	v, _, idf := fitCorpus(t, []string{"free money"})

	out := idf.Transform(v.Transform("nothing known here"))
	assert.Equal(t, 2, out.Dim)
	assert.Zero(t, out.NNZ())
	for _, x := range out.Dense() {
		assert.False(t, math.IsNaN(x))
	}
}

func TestDocumentFrequency(t *testing.T) {
	_, counts, _ := fitCorpus(t, []string{"aa aa bb", "bb", "cc"})
	assert.Equal(t, []int64{1, 2, 1}, DocumentFrequency(counts, 3))
}

func TestFromWeightsCopies(t *testing.T) {
	src := []float64{1, 2}
	idf := FromWeights(src)
	src[0] = 99
	assert.Equal(t, []float64{1, 2}, idf.Weights())
}
