package collector

import (
	"context"
	"fmt"
	"sync"
	"time"

	"RSIRelative/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Closes map[string][]float64 // per-symbol closes, oldest first
	Fail   map[string]bool      // symbols that simulate a provider error

	mu    sync.Mutex
	calls map[string]int
}

func (m *MockFetcher) Name() string { return "mock" }

// FetchDailyCloses dates the closes on consecutive days ending yesterday.
func (m *MockFetcher) FetchDailyCloses(_ context.Context, symbol string, _ int) ([]model.PricePoint, error) {
	m.mu.Lock()
	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[symbol]++
	m.mu.Unlock()

	if m.Fail[symbol] {
		return nil, fmt.Errorf("mock fetch %s: status 500", symbol)
	}
	closes, ok := m.Closes[symbol]
	if !ok {
		return nil, fmt.Errorf("mock %s: %w", symbol, ErrNoData)
	}
	yesterday := dayOf(time.Now()).AddDate(0, 0, -1)
	points := make([]model.PricePoint, len(closes))
	for i, c := range closes {
		points[i] = model.PricePoint{
			Date:  yesterday.AddDate(0, 0, -(len(closes) - 1 - i)),
			Close: c,
		}
	}
	return points, nil
}

// Calls reports how many times symbol was requested.
func (m *MockFetcher) Calls(symbol string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[symbol]
}
