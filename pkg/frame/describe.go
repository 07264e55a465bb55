package frame

import (
	"fmt"
	"io"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"gonum.org/v1/gonum/stat"
)

// Describe renders per-column summary statistics. Numeric columns report
// count, mean, stddev, min, quartiles and max over the cells that are present
// and numeric; other kinds report count only. Unlike conversion, describe
// tolerates missing and mistyped cells: it is a diagnostic view, not a
// contract.
func (f *Frame) Describe(w io.Writer) error {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle("Columns: %d Rows: %d", f.schema.Len(), f.Len())
	t.AppendHeader(table.Row{"COLUMN", "KIND", "COUNT", "MEAN", "STDDEV", "MIN", "P25", "P50", "P75", "MAX"})

	for _, field := range f.schema.Fields() {
		if !field.Kind.Numeric() {
			count := 0
			for _, row := range f.rows {
				if _, ok := row[field.Name]; ok {
					count++
				}
			}
			t.AppendRow(table.Row{field.Name, field.Kind, fmt.Sprintf("%d", count), "", "", "", "", "", "", ""})
			continue
		}

		values := []float64{}
		for _, row := range f.rows {
			if v, ok := row[field.Name]; ok {
				if fv, ok := floatValue(v); ok {
					values = append(values, fv)
				}
			}
		}

		if len(values) == 0 {
			t.AppendRow(table.Row{field.Name, field.Kind, "0", "", "", "", "", "", "", ""})
			continue
		}

		sorted := append([]float64{}, values...)
		sort.Float64s(sorted)

		t.AppendRow(table.Row{
			field.Name,
			field.Kind,
			fmt.Sprintf("%d", len(values)),
			fmt.Sprintf("%0.4f", stat.Mean(values, nil)),
			fmt.Sprintf("%0.4f", stat.StdDev(values, nil)),
			fmt.Sprintf("%0.4f", sorted[0]),
			fmt.Sprintf("%0.4f", stat.Quantile(0.25, stat.Empirical, sorted, nil)),
			fmt.Sprintf("%0.4f", stat.Quantile(0.5, stat.Empirical, sorted, nil)),
			fmt.Sprintf("%0.4f", stat.Quantile(0.75, stat.Empirical, sorted, nil)),
			fmt.Sprintf("%0.4f", sorted[len(sorted)-1]),
		})
	}

	t.Render()
	return nil
}
