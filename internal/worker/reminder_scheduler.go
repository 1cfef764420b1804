package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	applog "accountbook/internal/log"
)

// ReminderRunner sends the reminders due at now. *services.ReminderProcessor
// implements it.
type ReminderRunner interface {
	ProcessDue(ctx context.Context, now time.Time) (int, error)
}

// ReminderScheduler runs a ReminderRunner on a cron schedule. Runs never
// overlap; a tick that fires while the previous run is busy is skipped.
type ReminderScheduler struct {
	cron   *cron.Cron
	runner ReminderRunner
	logger *applog.Logger
	now    func() time.Time
	// ctx is the parent of every run. It is replaced by Start.
	ctx context.Context
}

func NewReminderScheduler(schedule string, runner ReminderRunner, logger *applog.Logger) (*ReminderScheduler, error) {
	if logger == nil {
		logger = applog.FromContext(context.Background())
	}
	logger = logger.WithComponent(applog.ComponentReminder)

	cl := cronLogger{logger: logger}
	s := &ReminderScheduler{
		cron:   cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl))),
		runner: runner,
		logger: logger,
		now:    time.Now,
		ctx:    context.Background(),
	}
	if _, err := s.cron.AddFunc(schedule, s.tick); err != nil {
		return nil, fmt.Errorf("invalid reminder schedule %q: %w", schedule, err)
	}
	return s, nil
}

// Start begins firing in the background. Runs inherit ctx.
func (s *ReminderScheduler) Start(ctx context.Context) {
	s.ctx = ctx
	s.cron.Start()
	s.logger.Info("Reminder scheduler started", "next_run", s.cron.Entries()[0].Next)
}

// Stop prevents new runs and waits for a running one or for ctx.
func (s *ReminderScheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.logger.Warn("Reminder run still in progress at shutdown")
	}
}

func (s *ReminderScheduler) tick() {
	if _, err := s.RunOnce(s.ctx); err != nil {
		s.logger.Error("Reminder run failed", applog.FieldError, err)
	}
}

// RunOnce processes the reminders due now.
func (s *ReminderScheduler) RunOnce(ctx context.Context) (int, error) {
	start := s.now()
	sent, err := s.runner.ProcessDue(ctx, start)
	if err != nil {
		return sent, fmt.Errorf("process reminders: %w", err)
	}
	if sent > 0 {
		s.logger.InfoContext(ctx, "Reminders sent", "count", sent, "duration_ms", time.Since(start).Milliseconds())
	}
	return sent, nil
}

// cronLogger adapts the component logger to cron.Logger.
type cronLogger struct {
	logger *applog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error("cron: "+msg, append([]any{applog.FieldError, err}, keysAndValues...)...)
}
