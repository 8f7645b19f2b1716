// Package export writes scan results as delimited text.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"RSIRelative/internal/model"
)

// DefaultFileName is the name the ranked table is saved under.
const DefaultFileName = "rsi_relative_sorted.csv"

// Header is the column order of the exported table.
var Header = []string{"Symbol", "Index", "ETF", "Stock_RSI14", "ETF_RSI14", "RSI_Relative"}

// WriteCSV writes rows, in the given order, with 2-decimal RSI values.
func WriteCSV(w io.Writer, rows []model.ResultRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range rows {
		rec := []string{
			r.Symbol,
			r.Index,
			r.Benchmark.String(),
			r.StockRSI.StringFixed(2),
			r.BenchmarkRSI.StringFixed(2),
			r.RelativeRSI.StringFixed(2),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write %s: %w", r.Symbol, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// SaveCSV writes rows to path through a temp file, so readers never see a
// partially written table.
func SaveCSV(path string, rows []model.ResultRow) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".rsi-*.csv")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := WriteCSV(tmp, rows); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename output: %w", err)
	}
	return nil
}
