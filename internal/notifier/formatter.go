package notifier

import (
	"fmt"
	"html"
	"sort"
	"strings"

	"RSIRelative/internal/model"
	"RSIRelative/internal/scanner"
)

// FormatScanReport formats a scan report into a Telegram message listing
// the topN leaders and laggards.
func FormatScanReport(rep *scanner.Report, topN int) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>RSI relatif vs ETF</b> | %s\n", rep.FinishedAt.Format("2006-01-02 15:04")))
	b.WriteString(fmt.Sprintf("RSI %s · mapping %s · run %s\n\n", rep.RSIMode, rep.MappingMode, shortID(rep.RunID)))

	if len(rep.BenchmarkRSI) > 0 {
		b.WriteString("<b>ETF RSI14:</b> ")
		b.WriteString(formatBenchmarks(rep.BenchmarkRSI))
		b.WriteString("\n\n")
	}

	if rep.Empty() {
		b.WriteString(fmt.Sprintf("⚠️ Aucun résultat valide (%d lignes ignorées)\n", len(rep.Skipped)))
		return b.String()
	}

	b.WriteString("📈 <b>Plus forts:</b>\n")
	writeRows(&b, rep.Top(topN))
	if len(rep.Rows) > topN {
		b.WriteString("\n📉 <b>Plus faibles:</b>\n")
		writeRows(&b, rep.Bottom(topN))
	}

	b.WriteString(fmt.Sprintf("\n%d classées, %d ignorées sur %d\n", len(rep.Rows), len(rep.Skipped), rep.Total))
	return b.String()
}

func writeRows(b *strings.Builder, rows []model.ResultRow) {
	for _, r := range rows {
		b.WriteString(fmt.Sprintf("  %s (%s) %s vs %s = <b>%s</b>\n",
			html.EscapeString(r.Symbol), r.Benchmark,
			r.StockRSI.StringFixed(2), r.BenchmarkRSI.StringFixed(2), signed(r.RelativeRSI.StringFixed(2))))
	}
}

func formatBenchmarks(readings map[model.Benchmark]float64) string {
	names := make([]string, 0, len(readings))
	for bm := range readings {
		names = append(names, string(bm))
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = fmt.Sprintf("%s %.1f", n, readings[model.Benchmark(n)])
	}
	return strings.Join(parts, " | ")
}

func signed(s string) string {
	if strings.HasPrefix(s, "-") {
		return s
	}
	return "+" + s
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
