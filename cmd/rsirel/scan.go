package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"RSIRelative/internal/config"
	"RSIRelative/internal/export"

	"github.com/google/subcommands"
)

// scanCmd implements the "scan" command.
type scanCmd struct {
	output string
	input  string
	show   int
}

func (*scanCmd) Name() string     { return "scan" }
func (*scanCmd) Synopsis() string { return "ranks the input universe by RSI relative to its benchmark ETF" }
func (*scanCmd) Usage() string {
	return `scan [-in file.csv] [-out file.csv] [-show N]:

	Runs one scan over the input universe and writes the ranked table.
	Requires POLYGON_API_KEY in the environment, a .env file or the config.
`
}

func (c *scanCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.input, "in", "", "input CSV with Symbol and Index columns (overrides config)")
	f.StringVar(&c.output, "out", "", "output CSV path (overrides config)")
	f.IntVar(&c.show, "show", 20, "number of rows to print, 0 for all")
}

func (c *scanCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := loadApp(func(cfg *config.Config) {
		if c.input != "" {
			cfg.Input.CSVPath = c.input
			cfg.Input.SQLitePath = ""
		}
		if c.output != "" {
			cfg.Output.CSVPath = c.output
		}
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	out := a.cfg.Output.CSVPath

	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	rows, err := a.source.Load(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not load input: %v\n", err)
		return subcommands.ExitFailure
	}

	rep, err := a.scanner.Run(ctx, rows)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: scan interrupted: %v\n", err)
		return subcommands.ExitFailure
	}
	if rep.Empty() {
		fmt.Println("No valid results.")
		return subcommands.ExitSuccess
	}

	if err := export.WriteTable(os.Stdout, rep.Rows, c.show); err != nil {
		log.Printf("[WARN] print table: %v", err)
	}
	if err := export.SaveCSV(out, rep.Rows); err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not write %s: %v\n", out, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("\n%d ranked, %d skipped. Saved to %s\n", len(rep.Rows), len(rep.Skipped), out)
	return subcommands.ExitSuccess
}
