package worker

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	applog "accountbook/internal/log"
)

type stubRunner struct {
	calls []time.Time
	sent  int
	err   error
}

func (r *stubRunner) ProcessDue(_ context.Context, now time.Time) (int, error) {
	r.calls = append(r.calls, now)
	return r.sent, r.err
}

func TestNewReminderScheduler_InvalidSpec(t *testing.T) {
	if _, err := NewReminderScheduler("every tuesday", &stubRunner{}, nil); err == nil {
		t.Fatal("expected error for invalid schedule")
	}
}

func TestReminderScheduler_RunOnce(t *testing.T) {
	var buf bytes.Buffer
	logger := applog.New(applog.Config{Output: &buf, Format: "json"})
	runner := &stubRunner{sent: 2}
	s, err := NewReminderScheduler("*/5 * * * *", runner, logger)
	if err != nil {
		t.Fatal(err)
	}
	at := time.Date(2025, 6, 1, 20, 5, 0, 0, time.UTC)
	s.now = func() time.Time { return at }

	sent, err := s.RunOnce(context.Background())
	if err != nil || sent != 2 {
		t.Fatalf("RunOnce() = %d, %v", sent, err)
	}
	if len(runner.calls) != 1 || !runner.calls[0].Equal(at) {
		t.Errorf("runner called with %v", runner.calls)
	}
	if !strings.Contains(buf.String(), `"component":"reminder"`) {
		t.Errorf("log output = %s", buf.String())
	}

	runner.err = errors.New("smtp down")
	if _, err := s.RunOnce(context.Background()); !errors.Is(err, runner.err) {
		t.Errorf("RunOnce() error = %v", err)
	}
}

func TestReminderScheduler_StartStop(t *testing.T) {
	s, err := NewReminderScheduler("@every 1h", &stubRunner{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	s.Start(context.Background())
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
}
