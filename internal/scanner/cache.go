package scanner

import "RSIRelative/internal/model"

type benchmarkEntry struct {
	rsi float64
	ok  bool
}

// BenchmarkCache memoizes benchmark RSI readings for a single run.
// Unavailable readings are cached too, so a failing benchmark is tried once.
type BenchmarkCache struct {
	entries map[model.Benchmark]benchmarkEntry
}

// NewBenchmarkCache creates an empty cache.
func NewBenchmarkCache() *BenchmarkCache {
	return &BenchmarkCache{entries: make(map[model.Benchmark]benchmarkEntry)}
}

// Lookup returns the cached reading. found is false when b was never stored.
func (c *BenchmarkCache) Lookup(b model.Benchmark) (rsi float64, ok, found bool) {
	e, found := c.entries[b]
	return e.rsi, e.ok, found
}

// Store records the reading for b; ok is false when the RSI is unavailable.
func (c *BenchmarkCache) Store(b model.Benchmark, rsi float64, ok bool) {
	c.entries[b] = benchmarkEntry{rsi: rsi, ok: ok}
}

func (c *BenchmarkCache) Len() int { return len(c.entries) }

// Available returns the benchmarks with a defined reading.
func (c *BenchmarkCache) Available() map[model.Benchmark]float64 {
	out := make(map[model.Benchmark]float64, len(c.entries))
	for b, e := range c.entries {
		if e.ok {
			out[b] = e.rsi
		}
	}
	return out
}
