// Package universe loads the list of equities to scan.
package universe

import (
	"context"
	"errors"

	"RSIRelative/internal/model"
)

// ErrMissingColumn is returned when the input lacks a required column.
var ErrMissingColumn = errors.New("missing required column")

// Source yields the (symbol, index label) rows of a scan, in input order.
type Source interface {
	Load(ctx context.Context) ([]model.Equity, error)
	Name() string
}
