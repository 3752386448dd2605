package dataset

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/samber/lo"

	"github.com/cognicore/spamfilter/pkg/spamfilter/internalerr"
)

// Split partitions examples into train and test sets, keeping each label's
// share of the test set proportional to its share of the corpus. The shuffle
// is seeded so a given seed always yields the same split.
func Split(examples []Example, testSize float64, seed int64) (train, test []Example, err error) {
	if testSize < 0 || testSize >= 1 {
		return nil, nil, fmt.Errorf("%w: test size %v outside [0,1)", internalerr.ErrInvalidConfig, testSize)
	}
	if len(examples) == 0 {
		return nil, nil, internalerr.ErrEmptyTrainingSet
	}

	rng := rand.New(rand.NewSource(seed))
	groups := lo.GroupBy(examples, func(e Example) string { return e.Label })
	labels := lo.Keys(groups)
	sort.Strings(labels)

	for _, label := range labels {
		group := append([]Example(nil), groups[label]...)
		rng.Shuffle(len(group), func(i, j int) { group[i], group[j] = group[j], group[i] })

		nTest := int(math.Round(float64(len(group)) * testSize))
		if nTest >= len(group) {
			nTest = len(group) - 1
		}
		test = append(test, group[:nTest]...)
		train = append(train, group[nTest:]...)
	}

	rng.Shuffle(len(train), func(i, j int) { train[i], train[j] = train[j], train[i] })
	rng.Shuffle(len(test), func(i, j int) { test[i], test[j] = test[j], test[i] })
	return train, test, nil
}

// LabelCount is the number of examples carrying one label.
type LabelCount struct {
	Label string
	Count int
}

// Distribution counts examples per label, largest first, ties by label.
func Distribution(examples []Example) []LabelCount {
	counts := lo.CountValuesBy(examples, func(e Example) string { return e.Label })
	out := lo.MapToSlice(counts, func(label string, n int) LabelCount {
		return LabelCount{Label: label, Count: n}
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	return out
}
