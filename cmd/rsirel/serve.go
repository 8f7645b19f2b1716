package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"RSIRelative/internal/notifier"
	"RSIRelative/internal/scheduler"
	"RSIRelative/internal/server"

	"github.com/google/subcommands"
)

// serveCmd implements the "serve" command.
type serveCmd struct {
	runOnStart bool
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "runs scheduled scans and serves the latest results over HTTP" }
func (*serveCmd) Usage() string {
	return `serve [-run-on-start]:

	Runs a scan on the configured cron schedule, pushes a summary to Telegram
	when configured and serves /results, /results.csv and POST /scan.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.runOnStart, "run-on-start", os.Getenv("RUN_ON_START") == "true", "run a scan immediately")
}

func (c *serveCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := loadApp(nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var sender scheduler.Sender
	var tn *notifier.TelegramNotifier
	if a.cfg.TelegramEnabled() {
		tn = notifier.NewTelegramNotifier(a.cfg.Telegram.BotToken, a.cfg.Telegram.ChatID, a.cfg.Proxy)
		sender = tn
	}

	sched := scheduler.NewScheduler(ctx, a.scanner, a.source, sender, a.cfg.Output.CSVPath, a.cfg.Telegram.TopN)
	sched.Purge = a.cache.Purge
	if err := sched.Register(a.cfg.Schedule.ScanCron); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	sched.Start()
	defer sched.Stop()

	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Println("[INFO] Telegram polling started")
	}

	if c.runOnStart {
		log.Println("[INFO] run-on-start enabled, executing scan now")
		go func() {
			if _, err := sched.RunNow(ctx); err != nil {
				log.Printf("[ERROR] initial scan: %v", err)
			}
		}()
	}

	if err := server.ListenAndServe(ctx, a.cfg.Server.Addr, server.NewAPI(sched)); err != nil {
		log.Printf("[ERROR] http server: %v", err)
		return subcommands.ExitFailure
	}
	log.Println("[INFO] RSIRelative stopped")
	return subcommands.ExitSuccess
}
