// Package mail sends reminder mails over SMTP.
package mail

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"

	"github.com/jordan-wright/email"

	"accountbook/internal/core"
)

type Config struct {
	Addr     string // host:port
	Host     string
	Username string
	Password string
	From     string
}

// Sender implements services.Mailer.
type Sender struct {
	cfg  Config
	send func(e *email.Email, addr string, auth smtp.Auth) error
}

func NewSender(cfg Config) *Sender {
	return &Sender{
		cfg: cfg,
		send: func(e *email.Email, addr string, auth smtp.Auth) error {
			return e.Send(addr, auth)
		},
	}
}

// ReminderMessage builds the reminder for one user.
func ReminderMessage(from, to, name string, day core.Date) *email.Email {
	e := email.NewEmail()
	e.From = from
	e.To = []string{to}
	e.Subject = "Did you record today's spending?"
	e.Text = []byte(fmt.Sprintf(
		"Hi %s,\n\n"+
			"Nothing has been recorded in your account book for %s (%s) yet.\n"+
			"Take a minute to log today's income and expenses.\n",
		name, day, day.DayLabel()))
	return e
}

func (s *Sender) SendReminder(ctx context.Context, to, name string, day core.Date) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e := ReminderMessage(s.cfg.From, to, name, day)

	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}
	if err := s.send(e, s.cfg.Addr, auth); err != nil {
		return fmt.Errorf("send reminder: %w", err)
	}
	slog.InfoContext(ctx, "Reminder sent", "subject", e.Subject)
	return nil
}
