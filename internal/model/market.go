package model

import "time"

// PricePoint is one daily close. Series are ordered by Date ascending.
type PricePoint struct {
	Date  time.Time
	Close float64
}

// Closes extracts the close prices of a series, preserving order.
func Closes(points []PricePoint) []float64 {
	closes := make([]float64, len(points))
	for i, p := range points {
		closes[i] = p.Close
	}
	return closes
}

// Equity is one row of the input universe.
type Equity struct {
	Symbol string
	Index  string // raw free-text index label
}
