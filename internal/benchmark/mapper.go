// Package benchmark maps free-text index labels to benchmark ETF tickers.
package benchmark

import (
	"fmt"
	"regexp"
	"strings"

	"RSIRelative/internal/model"
)

// Mode selects how a normalized label is matched against the rules.
type Mode string

const (
	// ModeStrict requires the label to start with the rule pattern on a word boundary.
	ModeStrict Mode = "strict"
	// ModeLoose accepts the pattern anywhere in the label.
	ModeLoose Mode = "loose"
)

// ParseMode maps a config value to a Mode. Empty means ModeStrict.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeStrict:
		return ModeStrict, nil
	case ModeLoose:
		return ModeLoose, nil
	default:
		return "", fmt.Errorf("unknown mapping mode %q", s)
	}
}

type rule struct {
	pattern   string
	benchmark model.Benchmark
}

// rules are ordered from most to least specific; the first match wins.
var rules = []rule{
	{"RUSSELL 1000", model.BenchmarkIWB},
	{"RUSSELL 2000", model.BenchmarkIWM},
	{"RUSSELL 3000", model.BenchmarkIWV},
	{"S&P 500", model.BenchmarkSPY},
	{"NASDAQ 100", model.BenchmarkQQQ},
	{"NASDAQ", model.BenchmarkQQQ},
	{"DOW", model.BenchmarkDIA},
	{"DJIA", model.BenchmarkDIA},
	{"TSX", model.BenchmarkXIU},
}

var (
	separators = strings.NewReplacer("-", " ", "_", " ", "/", " ")
	spPattern  = regexp.MustCompile(`\b(?:S&P|SP) ?500\b`)
	ndxPattern = regexp.MustCompile(`\bNASDAQ100\b`)
)

// Normalize uppercases label, turns separators into single spaces and
// canonicalizes the common S&P 500 and NASDAQ 100 spellings.
func Normalize(label string) string {
	s := strings.ToUpper(label)
	s = separators.Replace(s)
	s = strings.Join(strings.Fields(s), " ")
	s = spPattern.ReplaceAllString(s, "S&P 500")
	s = ndxPattern.ReplaceAllString(s, "NASDAQ 100")
	return s
}

// Mapper resolves index labels to benchmarks.
type Mapper struct {
	Mode Mode
}

// NewMapper creates a Mapper for the given mode.
func NewMapper(mode Mode) *Mapper {
	return &Mapper{Mode: mode}
}

// Map returns the benchmark for label, or model.BenchmarkNone.
func (m *Mapper) Map(label string) model.Benchmark {
	s := Normalize(label)
	if s == "" {
		return model.BenchmarkNone
	}
	for _, r := range rules {
		if m.matches(s, r.pattern) {
			return r.benchmark
		}
	}
	return model.BenchmarkNone
}

func (m *Mapper) matches(s, pattern string) bool {
	if m.Mode == ModeLoose {
		return strings.Contains(s, pattern)
	}
	if !strings.HasPrefix(s, pattern) {
		return false
	}
	if len(s) == len(pattern) {
		return true
	}
	return !isAlnum(s[len(pattern)])
}

func isAlnum(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9')
}
