package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"RSIRelative/internal/export"
	"RSIRelative/internal/notifier"
	"RSIRelative/internal/scanner"
	"RSIRelative/internal/universe"

	"github.com/robfig/cron/v3"
)

// ErrNoReport is returned when no scan has completed yet.
var ErrNoReport = errors.New("no scan has completed yet")

// Sender delivers a formatted report.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler runs scans on a cron schedule and keeps the latest report.
type Scheduler struct {
	Cron       *cron.Cron
	Scanner    *scanner.Scanner
	Source     universe.Source
	Notifier   Sender // optional
	OutputPath string
	TopN       int
	Purge      func() // optional cache housekeeping, run hourly
	Ctx        context.Context

	runMu  sync.Mutex
	mu     sync.RWMutex
	latest *scanner.Report
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, sc *scanner.Scanner, src universe.Source, n Sender, outputPath string, topN int) *Scheduler {
	return &Scheduler{
		Cron:       cron.New(cron.WithSeconds()),
		Scanner:    sc,
		Source:     src,
		Notifier:   n,
		OutputPath: outputPath,
		TopN:       topN,
		Ctx:        ctx,
	}
}

// Register registers the scan task and cache housekeeping.
func (s *Scheduler) Register(scanCron string) error {
	if _, err := s.Cron.AddFunc(scanCron, s.scanTask); err != nil {
		return fmt.Errorf("register scan task: %w", err)
	}
	if s.Purge != nil {
		if _, err := s.Cron.AddFunc("0 0 * * * *", s.Purge); err != nil {
			return fmt.Errorf("register cache purge: %w", err)
		}
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler and waits for a running scan to return.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Println("[INFO] scheduler stopped")
}

func (s *Scheduler) scanTask() {
	rep, err := s.RunNow(s.Ctx)
	if err != nil {
		log.Printf("[ERROR] scheduled scan: %v", err)
		s.trySend(fmt.Sprintf("❌ Scan échoué: %v", err))
		return
	}
	s.trySend(notifier.FormatScanReport(rep, s.TopN))
}

// RunNow loads the universe, runs one scan and exports the table.
// Concurrent callers are serialized.
func (s *Scheduler) RunNow(ctx context.Context) (*scanner.Report, error) {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	rows, err := s.Source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load universe from %s: %w", s.Source.Name(), err)
	}
	rep, err := s.Scanner.Run(ctx, rows)
	if err != nil {
		return nil, err
	}
	if !rep.Empty() && s.OutputPath != "" {
		if err := export.SaveCSV(s.OutputPath, rep.Rows); err != nil {
			log.Printf("[ERROR] export %s: %v", s.OutputPath, err)
		} else {
			log.Printf("[INFO] wrote %d rows to %s", len(rep.Rows), s.OutputPath)
		}
	}

	s.mu.Lock()
	s.latest = rep
	s.mu.Unlock()
	return rep, nil
}

// Latest returns the most recent report, or nil.
func (s *Scheduler) Latest() *scanner.Report {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	switch command {
	case "/scan":
		go s.scanTask()
		return "⏳ Scan lancé"
	case "/top":
		rep := s.Latest()
		if rep == nil {
			return ErrNoReport.Error()
		}
		return notifier.FormatScanReport(rep, s.TopN)
	default:
		return "Commandes:\n• /scan : relancer le calcul\n• /top : derniers résultats"
	}
}

func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}
