// Package eval scores predictions against held-out labels.
package eval

import (
	"sort"

	"github.com/samber/lo"
)

// LabelStats holds per-label precision, recall and F1.
type LabelStats struct {
	Label     string  `json:"label"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
	Support   int     `json:"support"`
}

// Report summarises a classification run. Confusion[i][j] counts examples
// whose true label is Labels[i] and predicted label is Labels[j].
type Report struct {
	Total     int          `json:"total"`
	Accuracy  float64      `json:"accuracy"`
	Labels    []string     `json:"labels"`
	PerLabel  []LabelStats `json:"per_label"`
	Macro     LabelStats   `json:"macro_avg"`
	Weighted  LabelStats   `json:"weighted_avg"`
	Confusion [][]int      `json:"confusion"`
}

// Evaluate compares truth with pred position by position. Extra entries in
// the longer slice are ignored. Divisions by zero yield 0.
func Evaluate(truth, pred []string) Report {
	n := min(len(truth), len(pred))
	truth, pred = truth[:n], pred[:n]

	labels := lo.Uniq(append(append([]string(nil), truth...), pred...))
	sort.Strings(labels)
	index := make(map[string]int, len(labels))
	for i, l := range labels {
		index[l] = i
	}

	confusion := make([][]int, len(labels))
	for i := range confusion {
		confusion[i] = make([]int, len(labels))
	}
	correct := 0
	for i := range truth {
		confusion[index[truth[i]]][index[pred[i]]]++
		if truth[i] == pred[i] {
			correct++
		}
	}

	r := Report{
		Total:     n,
		Accuracy:  ratio(correct, n),
		Labels:    labels,
		Confusion: confusion,
		Macro:     LabelStats{Label: "macro avg"},
		Weighted:  LabelStats{Label: "weighted avg"},
	}

	for i, label := range labels {
		tp := confusion[i][i]
		predicted, actual := 0, 0
		for j := range labels {
			predicted += confusion[j][i]
			actual += confusion[i][j]
		}
		s := LabelStats{
			Label:     label,
			Precision: ratio(tp, predicted),
			Recall:    ratio(tp, actual),
			Support:   actual,
		}
		if s.Precision+s.Recall > 0 {
			s.F1 = 2 * s.Precision * s.Recall / (s.Precision + s.Recall)
		}
		r.PerLabel = append(r.PerLabel, s)

		r.Macro.Precision += s.Precision
		r.Macro.Recall += s.Recall
		r.Macro.F1 += s.F1
		r.Weighted.Precision += s.Precision * float64(actual)
		r.Weighted.Recall += s.Recall * float64(actual)
		r.Weighted.F1 += s.F1 * float64(actual)
	}

	if k := float64(len(labels)); k > 0 {
		r.Macro.Precision /= k
		r.Macro.Recall /= k
		r.Macro.F1 /= k
	}
	if n > 0 {
		r.Weighted.Precision /= float64(n)
		r.Weighted.Recall /= float64(n)
		r.Weighted.F1 /= float64(n)
	}
	r.Macro.Support = n
	r.Weighted.Support = n
	return r
}

func ratio(a, b int) float64 {
	if b == 0 {
		return 0
	}
	return float64(a) / float64(b)
}
