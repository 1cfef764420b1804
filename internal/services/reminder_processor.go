package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"accountbook/internal/core"
	"accountbook/internal/storage"
)

// Mailer delivers the daily bookkeeping reminder.
type Mailer interface {
	SendReminder(ctx context.Context, to, name string, day core.Date) error
}

// DuenessChecker decides whether a user should be reminded at now.
type DuenessChecker interface {
	IsDue(lastReminded core.Date, now time.Time, s core.Settings) bool
}

// DailyChecker is due once per calendar day, from the user's reminder time on.
type DailyChecker struct{}

func (DailyChecker) IsDue(lastReminded core.Date, now time.Time, s core.Settings) bool {
	if !s.ReminderEnabled {
		return false
	}
	if lastReminded == core.DateOf(now) {
		return false
	}
	at := time.Date(now.Year(), now.Month(), now.Day(), s.ReminderHour, s.ReminderMinute, 0, 0, now.Location())
	return !now.Before(at)
}

// ReminderProcessor mails users who have not recorded anything today.
type ReminderProcessor struct {
	users   storage.UserStore
	ledger  storage.TransactionStore
	mailer  Mailer
	checker DuenessChecker
}

func NewReminderProcessor(users storage.UserStore, ledger storage.TransactionStore, mailer Mailer) *ReminderProcessor {
	return &ReminderProcessor{
		users:   users,
		ledger:  ledger,
		mailer:  mailer,
		checker: DailyChecker{},
	}
}

// ProcessDue checks every reminder-enabled user once and returns how many
// mails were sent. A failure for one user does not stop the others; that
// user stays due and is retried on the next run.
func (p *ReminderProcessor) ProcessDue(ctx context.Context, now time.Time) (int, error) {
	if p.users == nil || p.ledger == nil || p.mailer == nil {
		return 0, fmt.Errorf("processor not properly initialized")
	}

	candidates, err := p.users.ReminderCandidates(ctx)
	if err != nil {
		return 0, fmt.Errorf("list reminder candidates: %w", err)
	}

	today := core.DateOf(now)
	sent := 0
	for _, c := range candidates {
		if err := ctx.Err(); err != nil {
			return sent, err
		}
		if !p.checker.IsDue(c.LastRemindedOn, now, c.User.Settings) {
			continue
		}

		recorded, err := p.ledger.ListTransactions(ctx, core.TransactionQuery{
			Owner: c.User.ID,
			Dates: core.RangeFilter(today, today),
		})
		if err != nil {
			slog.ErrorContext(ctx, "Failed to check today's transactions", "owner", c.User.ID, "error", err)
			continue
		}

		if len(recorded) == 0 {
			if err := p.mailer.SendReminder(ctx, c.User.Email, c.User.Name, today); err != nil {
				slog.ErrorContext(ctx, "Failed to send reminder", "owner", c.User.ID, "error", err)
				continue
			}
			sent++
		} else {
			slog.DebugContext(ctx, "Transactions already recorded today, no reminder needed",
				"owner", c.User.ID,
				"count", len(recorded))
		}

		if err := p.users.MarkReminded(ctx, c.User.ID, today); err != nil {
			slog.ErrorContext(ctx, "Failed to store reminder date", "owner", c.User.ID, "error", err)
		}
	}

	slog.InfoContext(ctx, "Reminder run complete",
		"checked", len(candidates),
		"sent", sent,
		"date", today)
	return sent, nil
}
