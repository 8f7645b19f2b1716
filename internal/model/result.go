package model

import "github.com/shopspring/decimal"

// ResultRow is one ranked output record. All RSI values carry 2 decimals.
type ResultRow struct {
	Symbol       string          `json:"symbol"`
	Index        string          `json:"index"`
	Benchmark    Benchmark       `json:"etf"`
	StockRSI     decimal.Decimal `json:"stock_rsi14"`
	BenchmarkRSI decimal.Decimal `json:"etf_rsi14"`
	RelativeRSI  decimal.Decimal `json:"rsi_relative"`
}

// NewResultRow rounds both RSI readings to 2 decimals and derives the
// relative RSI from the rounded values, so Relative == Stock - Benchmark holds exactly.
func NewResultRow(eq Equity, bench Benchmark, stockRSI, benchRSI float64) ResultRow {
	s := decimal.NewFromFloat(stockRSI).Round(2)
	b := decimal.NewFromFloat(benchRSI).Round(2)
	return ResultRow{
		Symbol:       eq.Symbol,
		Index:        eq.Index,
		Benchmark:    bench,
		StockRSI:     s,
		BenchmarkRSI: b,
		RelativeRSI:  s.Sub(b),
	}
}
