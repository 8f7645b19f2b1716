// Package scanner ranks equities by RSI relative to their benchmark ETF.
package scanner

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"RSIRelative/internal/benchmark"
	"RSIRelative/internal/calculator"
	"RSIRelative/internal/collector"
	"RSIRelative/internal/model"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const (
	DefaultLookbackDays       = 365
	DefaultSimpleLookbackDays = 60
	defaultProgressEvery      = 25
)

// Options tune a Scanner. Zero values fall back to the defaults.
type Options struct {
	RSIMode       calculator.Mode
	Period        int
	LookbackDays  int
	RowDelay      time.Duration // spacing between rows, to respect provider rate limits
	ProgressEvery int
}

// Scanner computes relative RSI for a set of equities.
type Scanner struct {
	Fetcher collector.Fetcher
	Mapper  *benchmark.Mapper
	Opts    Options
}

// NewScanner creates a Scanner, filling unset options.
func NewScanner(fetcher collector.Fetcher, mapper *benchmark.Mapper, opts Options) *Scanner {
	if opts.RSIMode == "" {
		opts.RSIMode = calculator.ModeWilder
	}
	if opts.Period <= 0 {
		opts.Period = calculator.DefaultRSIPeriod
	}
	if opts.LookbackDays <= 0 {
		opts.LookbackDays = DefaultLookbackDays
		if opts.RSIMode == calculator.ModeSimple {
			opts.LookbackDays = DefaultSimpleLookbackDays
		}
	}
	if opts.RowDelay < 0 {
		opts.RowDelay = 0
	}
	if opts.ProgressEvery <= 0 {
		opts.ProgressEvery = defaultProgressEvery
	}
	if mapper == nil {
		mapper = benchmark.NewMapper(benchmark.ModeStrict)
	}
	return &Scanner{Fetcher: fetcher, Mapper: mapper, Opts: opts}
}

// Run processes rows sequentially in input order and returns the ranked
// report. Row-level failures never abort the run; only ctx cancellation does.
func (s *Scanner) Run(ctx context.Context, rows []model.Equity) (*Report, error) {
	rep := &Report{
		RunID:       uuid.NewString(),
		StartedAt:   time.Now(),
		RSIMode:     s.Opts.RSIMode,
		MappingMode: s.Mapper.Mode,
		Total:       len(rows),
		Rows:        []model.ResultRow{},
		Skipped:     []Skip{},
	}
	log.Printf("[INFO] scan %s started: %d rows, source=%s rsi=%s mapping=%s lookback=%dd",
		rep.RunID, len(rows), s.Fetcher.Name(), s.Opts.RSIMode, s.Mapper.Mode, s.Opts.LookbackDays)

	limit := rate.Inf
	if s.Opts.RowDelay > 0 {
		limit = rate.Every(s.Opts.RowDelay)
	}
	limiter := rate.NewLimiter(limit, 1)
	cache := NewBenchmarkCache()

	for i, eq := range rows {
		if err := limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("scan %s interrupted at row %d: %w", rep.RunID, i, err)
		}

		row, skip := s.processRow(ctx, cache, eq)
		if skip != nil {
			log.Printf("[WARN] skip %s (%q -> %s): %s", eq.Symbol, eq.Index, skip.Benchmark, skip.Reason)
			rep.Skipped = append(rep.Skipped, *skip)
		} else {
			rep.Rows = append(rep.Rows, row)
		}

		if (i+1)%s.Opts.ProgressEvery == 0 || i+1 == len(rows) {
			log.Printf("[INFO] scan %s progress: %d/%d rows, %d ranked", rep.RunID, i+1, len(rows), len(rep.Rows))
		}
	}

	sort.SliceStable(rep.Rows, func(i, j int) bool {
		return rep.Rows[i].RelativeRSI.GreaterThan(rep.Rows[j].RelativeRSI)
	})
	rep.BenchmarkRSI = cache.Available()
	rep.FinishedAt = time.Now()

	if rep.Empty() {
		log.Printf("[WARN] scan %s finished with no valid results (%d skipped)", rep.RunID, len(rep.Skipped))
	} else {
		log.Printf("[INFO] scan %s finished: %d ranked, %d skipped in %s",
			rep.RunID, len(rep.Rows), len(rep.Skipped), rep.FinishedAt.Sub(rep.StartedAt).Round(time.Millisecond))
	}
	return rep, nil
}

func (s *Scanner) processRow(ctx context.Context, cache *BenchmarkCache, eq model.Equity) (model.ResultRow, *Skip) {
	bench := s.Mapper.Map(eq.Index)
	skip := func(reason string) *Skip {
		return &Skip{Symbol: eq.Symbol, Index: eq.Index, Benchmark: bench, Reason: reason}
	}

	stockRSI, stockErr := s.symbolRSI(ctx, eq.Symbol)

	var benchRSI float64
	var benchOK bool
	if bench != model.BenchmarkNone {
		benchRSI, benchOK = s.benchmarkRSI(ctx, cache, bench)
	}

	switch {
	case stockErr != nil:
		return model.ResultRow{}, skip(stockErr.Error())
	case bench == model.BenchmarkNone:
		return model.ResultRow{}, skip("unmapped index label")
	case !benchOK:
		return model.ResultRow{}, skip(fmt.Sprintf("benchmark %s rsi unavailable", bench))
	}
	return model.NewResultRow(eq, bench, stockRSI, benchRSI), nil
}

// benchmarkRSI consults the run cache first; a miss computes and stores the
// reading whether or not it is available.
func (s *Scanner) benchmarkRSI(ctx context.Context, cache *BenchmarkCache, b model.Benchmark) (float64, bool) {
	if rsi, ok, found := cache.Lookup(b); found {
		return rsi, ok
	}
	rsi, err := s.symbolRSI(ctx, string(b))
	if err != nil {
		log.Printf("[WARN] benchmark %s unavailable: %v", b, err)
		cache.Store(b, 0, false)
		return 0, false
	}
	cache.Store(b, rsi, true)
	return rsi, true
}

func (s *Scanner) symbolRSI(ctx context.Context, symbol string) (float64, error) {
	points, err := s.Fetcher.FetchDailyCloses(ctx, symbol, s.Opts.LookbackDays)
	if err != nil {
		return 0, fmt.Errorf("fetch %s: %w", symbol, err)
	}
	rsi, err := calculator.CalculateRSI(model.Closes(points), s.Opts.Period, s.Opts.RSIMode)
	if err != nil {
		return 0, fmt.Errorf("rsi %s (%d closes): %w", symbol, len(points), err)
	}
	return rsi, nil
}
