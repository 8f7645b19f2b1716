package notifier

import (
	"strings"
	"testing"
	"time"

	"RSIRelative/internal/model"
	"RSIRelative/internal/scanner"
)

func testReport(n int) *scanner.Report {
	rep := &scanner.Report{
		RunID:        "0123456789abcdef",
		FinishedAt:   time.Date(2025, 11, 5, 22, 30, 0, 0, time.UTC),
		RSIMode:      "wilder",
		MappingMode:  "strict",
		Total:        n + 1,
		Skipped:      []scanner.Skip{{Symbol: "ZZZ", Reason: "unmapped index label"}},
		BenchmarkRSI: map[model.Benchmark]float64{model.BenchmarkSPY: 55.55, model.BenchmarkQQQ: 61.2},
	}
	for i := 0; i < n; i++ {
		eq := model.Equity{Symbol: string(rune('A' + i)), Index: "S&P 500"}
		rep.Rows = append(rep.Rows, model.NewResultRow(eq, model.BenchmarkSPY, 90-float64(i)*10, 55.55))
	}
	return rep
}

func TestFormatScanReport(t *testing.T) {
	msg := FormatScanReport(testReport(5), 2)
	for _, want := range []string{
		"2025-11-05 22:30",
		"run 01234567",
		"QQQ 61.2 | SPY 55.5",
		"A (SPY) 90.00 vs 55.55 = <b>+34.45</b>",
		"E (SPY) 50.00 vs 55.55 = <b>-5.55</b>",
		"5 classées, 1 ignorées sur 6",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q:\n%s", want, msg)
		}
	}
	if strings.Contains(msg, "C (SPY)") {
		t.Errorf("middle row should not be listed:\n%s", msg)
	}
}

func TestFormatScanReport_Empty(t *testing.T) {
	msg := FormatScanReport(testReport(0), 5)
	if !strings.Contains(msg, "Aucun résultat valide") {
		t.Errorf("expected empty-result notice:\n%s", msg)
	}
}
