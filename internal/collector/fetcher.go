package collector

import (
	"context"
	"errors"

	"RSIRelative/internal/model"
)

// ErrNoData is returned when the provider answers without usable bars.
var ErrNoData = errors.New("no price data")

// Fetcher defines the interface for fetching daily price history.
// Implementations return closes ordered by date ascending, never including today.
type Fetcher interface {
	FetchDailyCloses(ctx context.Context, symbol string, days int) ([]model.PricePoint, error)
	Name() string
}
