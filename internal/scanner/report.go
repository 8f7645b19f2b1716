package scanner

import (
	"time"

	"RSIRelative/internal/benchmark"
	"RSIRelative/internal/calculator"
	"RSIRelative/internal/model"
)

// Skip records why an input row produced no result.
type Skip struct {
	Symbol    string          `json:"symbol"`
	Index     string          `json:"index"`
	Benchmark model.Benchmark `json:"etf"`
	Reason    string          `json:"reason"`
}

// Report is the outcome of one scan.
type Report struct {
	RunID        string                      `json:"run_id"`
	StartedAt    time.Time                   `json:"started_at"`
	FinishedAt   time.Time                   `json:"finished_at"`
	RSIMode      calculator.Mode             `json:"rsi_mode"`
	MappingMode  benchmark.Mode              `json:"mapping_mode"`
	Total        int                         `json:"total"`
	Rows         []model.ResultRow           `json:"rows"`
	Skipped      []Skip                      `json:"skipped"`
	BenchmarkRSI map[model.Benchmark]float64 `json:"benchmark_rsi"`
}

// Empty reports whether no row could be resolved.
func (r *Report) Empty() bool { return len(r.Rows) == 0 }

// Top returns up to n rows with the highest relative RSI.
func (r *Report) Top(n int) []model.ResultRow {
	if n > len(r.Rows) {
		n = len(r.Rows)
	}
	return r.Rows[:n]
}

// Bottom returns up to n rows with the lowest relative RSI, lowest first.
func (r *Report) Bottom(n int) []model.ResultRow {
	if n > len(r.Rows) {
		n = len(r.Rows)
	}
	out := make([]model.ResultRow, 0, n)
	for i := len(r.Rows) - 1; i >= len(r.Rows)-n; i-- {
		out = append(out, r.Rows[i])
	}
	return out
}
