package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"accountbook/internal/core"
	"accountbook/internal/storage/memory"
)

type fakeMailer struct {
	sent []string
	err  error
}

func (m *fakeMailer) SendReminder(_ context.Context, to, _ string, _ core.Date) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, to)
	return nil
}

func TestDailyChecker_IsDue(t *testing.T) {
	checker := DailyChecker{}
	now := time.Date(2025, 6, 15, 20, 30, 0, 0, time.UTC)
	on := core.Settings{ReminderEnabled: true, ReminderHour: 20, ReminderMinute: 0}

	tests := []struct {
		name         string
		lastReminded core.Date
		settings     core.Settings
		now          time.Time
		want         bool
	}{
		{"never reminded - is due", "", on, now, true},
		{"reminded yesterday - is due", "2025/06/14", on, now, true},
		{"reminded today - not due", "2025/06/15", on, now, false},
		{"before reminder time - not due", "", on, time.Date(2025, 6, 15, 19, 59, 0, 0, time.UTC), false},
		{"exactly at reminder time - is due", "", on, time.Date(2025, 6, 15, 20, 0, 0, 0, time.UTC), true},
		{"disabled - not due", "", core.Settings{ReminderHour: 8}, now, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := checker.IsDue(tt.lastReminded, tt.now, tt.settings); got != tt.want {
				t.Errorf("IsDue() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestReminderProcessor_ProcessDue(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	enabled := core.DefaultSettings()
	enabled.ReminderEnabled = true

	idle, _ := store.CreateUser(ctx, core.User{Name: "idle", Email: "idle@example.com", Settings: enabled})
	busy, _ := store.CreateUser(ctx, core.User{Name: "busy", Email: "busy@example.com", Settings: enabled})
	if _, err := store.CreateUser(ctx, core.User{Name: "off", Email: "off@example.com", Settings: core.DefaultSettings()}); err != nil {
		t.Fatal(err)
	}
	if _, err := store.AddTransaction(ctx, core.Transaction{Owner: busy.ID, Date: "2025/06/15", Amount: 10, Flow: core.Expense, Category: "lunch"}); err != nil {
		t.Fatal(err)
	}

	mailer := &fakeMailer{}
	p := NewReminderProcessor(store, store, mailer)
	now := time.Date(2025, 6, 15, 21, 0, 0, 0, time.UTC)

	sent, err := p.ProcessDue(ctx, now)
	if err != nil {
		t.Fatalf("ProcessDue() error = %v", err)
	}
	if sent != 1 || len(mailer.sent) != 1 || mailer.sent[0] != "idle@example.com" {
		t.Fatalf("sent = %d, mails = %v", sent, mailer.sent)
	}

	// Both enabled users are marked, so a second run the same day is a no-op.
	sent, err = p.ProcessDue(ctx, now.Add(5*time.Minute))
	if err != nil || sent != 0 {
		t.Errorf("second run sent = %d, err = %v", sent, err)
	}

	cands, _ := store.ReminderCandidates(ctx)
	for _, c := range cands {
		if (c.User.ID == idle.ID || c.User.ID == busy.ID) && c.LastRemindedOn != "2025/06/15" {
			t.Errorf("user %d last reminded = %q", c.User.ID, c.LastRemindedOn)
		}
	}
}

func TestReminderProcessor_MailFailureRetries(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	s := core.DefaultSettings()
	s.ReminderEnabled = true
	if _, err := store.CreateUser(ctx, core.User{Name: "amy", Email: "amy@example.com", Settings: s}); err != nil {
		t.Fatal(err)
	}

	mailer := &fakeMailer{err: errors.New("smtp down")}
	p := NewReminderProcessor(store, store, mailer)
	now := time.Date(2025, 6, 15, 21, 0, 0, 0, time.UTC)

	if sent, err := p.ProcessDue(ctx, now); err != nil || sent != 0 {
		t.Fatalf("failing run sent = %d, err = %v", sent, err)
	}
	mailer.err = nil
	if sent, _ := p.ProcessDue(ctx, now); sent != 1 {
		t.Errorf("retry sent = %d, want 1", sent)
	}
}

func TestReminderProcessor_NotInitialized(t *testing.T) {
	if _, err := (&ReminderProcessor{}).ProcessDue(context.Background(), time.Now()); err == nil {
		t.Error("expected error for empty processor")
	}
}
