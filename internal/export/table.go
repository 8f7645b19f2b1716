package export

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"RSIRelative/internal/model"
)

// WriteTable prints up to limit rows as an aligned console table.
// A limit <= 0 prints every row.
func WriteTable(w io.Writer, rows []model.ResultRow, limit int) error {
	if limit <= 0 || limit > len(rows) {
		limit = len(rows)
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, strings.Join(Header, "\t")+"\t")
	for _, r := range rows[:limit] {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t\n",
			r.Symbol, r.Index, r.Benchmark,
			r.StockRSI.StringFixed(2), r.BenchmarkRSI.StringFixed(2), r.RelativeRSI.StringFixed(2))
	}
	if limit < len(rows) {
		fmt.Fprintf(tw, "... %d more\t\t\t\t\t\t\n", len(rows)-limit)
	}
	return tw.Flush()
}
