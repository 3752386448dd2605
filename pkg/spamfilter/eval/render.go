package eval

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/cognicore/spamfilter/pkg/spamfilter/dataset"
)

// Render writes accuracy, the per-label table and the confusion matrix.
func Render(w io.Writer, r Report) {
	fmt.Fprintf(w, "Accuracy: %.4f (%d examples)\n\n", r.Accuracy, r.Total)

	table := newTable(w, []string{"Label", "Precision", "Recall", "F1", "Support"})
	rows := append(append([]LabelStats(nil), r.PerLabel...), r.Macro, r.Weighted)
	for _, s := range rows {
		table.Append([]string{
			s.Label,
			fmt.Sprintf("%.2f", s.Precision),
			fmt.Sprintf("%.2f", s.Recall),
			fmt.Sprintf("%.2f", s.F1),
			strconv.Itoa(s.Support),
		})
	}
	table.Render()

	fmt.Fprintln(w, "\nConfusion matrix (rows: actual, columns: predicted)")
	confusion := newTable(w, append([]string{""}, r.Labels...))
	for i, label := range r.Labels {
		row := []string{label}
		for _, c := range r.Confusion[i] {
			row = append(row, strconv.Itoa(c))
		}
		confusion.Append(row)
	}
	confusion.Render()
}

// RenderDistribution writes the per-label example counts with their share.
func RenderDistribution(w io.Writer, dist []dataset.LabelCount) {
	total := 0
	for _, d := range dist {
		total += d.Count
	}
	table := newTable(w, []string{"Category", "Count", "Share"})
	for _, d := range dist {
		table.Append([]string{
			d.Label,
			strconv.Itoa(d.Count),
			fmt.Sprintf("%.1f%%", 100*ratio(d.Count, total)),
		})
	}
	table.Render()
}

func newTable(w io.Writer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)
	return table
}
