package collector

import (
	"context"
	"fmt"
	"sync"
	"time"

	"RSIRelative/internal/model"
)

// DefaultCacheTTL matches the provider's intraday refresh cadence for daily bars.
const DefaultCacheTTL = time.Hour

type cacheEntry struct {
	points    []model.PricePoint
	fetchedAt time.Time
}

// CachedFetcher wraps a Fetcher and reuses successful results for TTL.
// Failures are never cached.
type CachedFetcher struct {
	Next Fetcher
	TTL  time.Duration
	Now  func() time.Time

	mu      sync.Mutex
	entries map[string]cacheEntry
}

// NewCachedFetcher creates a TTL-caching decorator around next.
func NewCachedFetcher(next Fetcher, ttl time.Duration) *CachedFetcher {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CachedFetcher{
		Next:    next,
		TTL:     ttl,
		Now:     time.Now,
		entries: make(map[string]cacheEntry),
	}
}

func (c *CachedFetcher) Name() string { return c.Next.Name() + "+cache" }

func (c *CachedFetcher) FetchDailyCloses(ctx context.Context, symbol string, days int) ([]model.PricePoint, error) {
	key := fmt.Sprintf("%s|%d", symbol, days)

	c.mu.Lock()
	e, ok := c.entries[key]
	if ok && c.Now().Sub(e.fetchedAt) < c.TTL {
		c.mu.Unlock()
		return e.points, nil
	}
	c.mu.Unlock()

	points, err := c.Next.FetchDailyCloses(ctx, symbol, days)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[key] = cacheEntry{points: points, fetchedAt: c.Now()}
	c.mu.Unlock()
	return points, nil
}

// Purge drops expired entries.
func (c *CachedFetcher) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.Now()
	for k, e := range c.entries {
		if now.Sub(e.fetchedAt) >= c.TTL {
			delete(c.entries, k)
		}
	}
}
