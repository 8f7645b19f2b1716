package collector

import (
	"context"
	"testing"
	"time"
)

func TestCachedFetcher_ReusesWithinTTL(t *testing.T) {
	mock := &MockFetcher{Closes: map[string][]float64{"AAPL": {1, 2, 3}}}
	now := time.Date(2025, 11, 5, 10, 0, 0, 0, time.UTC)
	c := NewCachedFetcher(mock, time.Hour)
	c.Now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := c.FetchDailyCloses(ctx, "AAPL", 365); err != nil {
			t.Fatal(err)
		}
	}
	if got := mock.Calls("AAPL"); got != 1 {
		t.Errorf("expected 1 upstream call, got %d", got)
	}

	// A different window is a different key.
	if _, err := c.FetchDailyCloses(ctx, "AAPL", 60); err != nil {
		t.Fatal(err)
	}
	if got := mock.Calls("AAPL"); got != 2 {
		t.Errorf("expected 2 upstream calls, got %d", got)
	}

	now = now.Add(time.Hour)
	if _, err := c.FetchDailyCloses(ctx, "AAPL", 365); err != nil {
		t.Fatal(err)
	}
	if got := mock.Calls("AAPL"); got != 3 {
		t.Errorf("expected refetch after TTL, got %d calls", got)
	}
}

func TestCachedFetcher_DoesNotCacheFailures(t *testing.T) {
	mock := &MockFetcher{Fail: map[string]bool{"BAD": true}}
	c := NewCachedFetcher(mock, time.Hour)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := c.FetchDailyCloses(ctx, "BAD", 365); err == nil {
			t.Fatal("expected error")
		}
	}
	if got := mock.Calls("BAD"); got != 2 {
		t.Errorf("expected failures to hit upstream every time, got %d calls", got)
	}
}

func TestCachedFetcher_Purge(t *testing.T) {
	mock := &MockFetcher{Closes: map[string][]float64{"SPY": {1, 2}}}
	now := time.Date(2025, 11, 5, 10, 0, 0, 0, time.UTC)
	c := NewCachedFetcher(mock, time.Minute)
	c.Now = func() time.Time { return now }

	if _, err := c.FetchDailyCloses(context.Background(), "SPY", 365); err != nil {
		t.Fatal(err)
	}
	now = now.Add(2 * time.Minute)
	c.Purge()
	if n := len(c.entries); n != 0 {
		t.Errorf("expected empty cache after purge, got %d entries", n)
	}
}
