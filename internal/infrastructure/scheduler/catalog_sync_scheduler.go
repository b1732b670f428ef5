package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	syncapp "github.com/noltshop/backend/internal/application/sync"
)

// ErrInvalidSchedule is returned when the cron expression cannot be parsed
var ErrInvalidSchedule = errors.New("invalid sync schedule")

// SyncRunner runs one catalog reconciliation pass
type SyncRunner interface {
	Sync(ctx context.Context, rootCategoryID string) *syncapp.Report
}

// Config holds configuration for the catalog sync scheduler
type Config struct {
	// Schedule is a restricted cron expression, "minute hour * * *":
	// the job runs once a day at the given time
	Schedule string

	// RootCategoryID limits discovery when non-empty
	RootCategoryID string

	// JobTimeout bounds one reconciliation pass
	JobTimeout time.Duration

	// HistoryLimit caps the number of retained reports
	HistoryLimit int

	// CheckInterval is how often the loop checks whether it is time to run
	CheckInterval time.Duration
}

// DefaultConfig returns default scheduler configuration
func DefaultConfig() Config {
	return Config{
		Schedule:      "0 3 * * *",
		JobTimeout:    30 * time.Minute,
		HistoryLimit:  50,
		CheckInterval: time.Minute,
	}
}

// CatalogSyncScheduler runs the daily catalog reconciliation and keeps a
// bounded history of reports. Manual triggers share the runner's own
// single-flight guard, so an overlap degrades to a failed report instead
// of a second concurrent pass.
type CatalogSyncScheduler struct {
	config Config
	runner SyncRunner
	logger *zap.Logger

	hour   int
	minute int

	cancel      context.CancelFunc
	wg          sync.WaitGroup
	mu          sync.Mutex
	isRunning   bool
	lastRunDate string

	historyMu sync.RWMutex
	history   []*syncapp.Report
}

// NewCatalogSyncScheduler creates a new catalog sync scheduler
func NewCatalogSyncScheduler(config Config, runner SyncRunner, logger *zap.Logger) (*CatalogSyncScheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.CheckInterval <= 0 {
		config.CheckInterval = time.Minute
	}
	if config.HistoryLimit <= 0 {
		config.HistoryLimit = 50
	}

	hour, minute, err := parseDailySchedule(config.Schedule)
	if err != nil {
		return nil, err
	}

	return &CatalogSyncScheduler{
		config: config,
		runner: runner,
		logger: logger.Named("scheduler"),
		hour:   hour,
		minute: minute,
	}, nil
}

// Start starts the scheduler loop
func (s *CatalogSyncScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.runLoop(ctx)

	s.logger.Info("catalog sync scheduler started",
		zap.Int("hour", s.hour),
		zap.Int("minute", s.minute),
		zap.Duration("check_interval", s.config.CheckInterval))
	return nil
}

// Stop stops the scheduler and waits for an in-flight pass to finish
func (s *CatalogSyncScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("catalog sync scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TriggerNow runs a reconciliation pass immediately and records its report
func (s *CatalogSyncScheduler) TriggerNow(ctx context.Context) *syncapp.Report {
	return s.runOnce(ctx)
}

// History returns the retained reports, most recent first
func (s *CatalogSyncScheduler) History() []*syncapp.Report {
	s.historyMu.RLock()
	defer s.historyMu.RUnlock()

	out := make([]*syncapp.Report, len(s.history))
	copy(out, s.history)
	return out
}

// LastReport returns the most recent report, or nil when none ran yet
func (s *CatalogSyncScheduler) LastReport() *syncapp.Report {
	s.historyMu.RLock()
	defer s.historyMu.RUnlock()

	if len(s.history) == 0 {
		return nil
	}
	return s.history[0]
}

func (s *CatalogSyncScheduler) runLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.checkAndRun(ctx)
		}
	}
}

// checkAndRun fires the daily pass once the scheduled time has been
// reached, at most once per calendar day
func (s *CatalogSyncScheduler) checkAndRun(ctx context.Context) {
	now := time.Now()
	today := now.Format("2006-01-02")

	s.mu.Lock()
	alreadyRan := s.lastRunDate == today
	s.mu.Unlock()

	if alreadyRan {
		return
	}
	if now.Hour() < s.hour || (now.Hour() == s.hour && now.Minute() < s.minute) {
		return
	}

	s.mu.Lock()
	s.lastRunDate = today
	s.mu.Unlock()

	s.runOnce(ctx)
}

func (s *CatalogSyncScheduler) runOnce(ctx context.Context) *syncapp.Report {
	if s.config.JobTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.JobTimeout)
		defer cancel()
	}

	report := s.runner.Sync(ctx, s.config.RootCategoryID)
	s.record(report)
	return report
}

func (s *CatalogSyncScheduler) record(report *syncapp.Report) {
	s.historyMu.Lock()
	defer s.historyMu.Unlock()

	s.history = append([]*syncapp.Report{report}, s.history...)
	if len(s.history) > s.config.HistoryLimit {
		s.history = s.history[:s.config.HistoryLimit]
	}
}

// parseDailySchedule parses the restricted "minute hour * * *" expression
func parseDailySchedule(expr string) (hour, minute int, err error) {
	fields := strings.Fields(expr)
	if len(fields) != 5 {
		return 0, 0, fmt.Errorf("%w: expected 5 fields, got %d", ErrInvalidSchedule, len(fields))
	}
	for _, f := range fields[2:] {
		if f != "*" {
			return 0, 0, fmt.Errorf("%w: only daily schedules are supported", ErrInvalidSchedule)
		}
	}

	minute, err = strconv.Atoi(fields[0])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("%w: bad minute %q", ErrInvalidSchedule, fields[0])
	}
	hour, err = strconv.Atoi(fields[1])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("%w: bad hour %q", ErrInvalidSchedule, fields[1])
	}
	return hour, minute, nil
}
