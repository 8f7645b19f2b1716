package model

// Benchmark is the ticker of an ETF used as a proxy for a market index.
type Benchmark string

const (
	BenchmarkNone Benchmark = ""
	BenchmarkSPY  Benchmark = "SPY"
	BenchmarkQQQ  Benchmark = "QQQ"
	BenchmarkDIA  Benchmark = "DIA"
	BenchmarkIWB  Benchmark = "IWB"
	BenchmarkIWM  Benchmark = "IWM"
	BenchmarkIWV  Benchmark = "IWV"
	BenchmarkXIU  Benchmark = "XIU"
)

// String renders unmapped benchmarks as "none".
func (b Benchmark) String() string {
	if b == BenchmarkNone {
		return "none"
	}
	return string(b)
}
