package main

import (
	"context"
	"os"
	"time"

	"accountbook/internal/cli"
	"accountbook/internal/config"
	applog "accountbook/internal/log"
	"accountbook/internal/mail"
	"accountbook/internal/services"
	"accountbook/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(applog.ComponentReminder)
	logger.Info("Starting reminder-worker")

	cfg := cli.LoadAndValidateConfig(logger, (*config.Config).ValidateReminder)
	res := cli.InitBackend(context.Background(), logger, cfg)

	mailer := mail.NewSender(mail.Config{
		Addr:     cfg.SMTPAddr(),
		Host:     cfg.SMTPHost,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.MailFrom,
	})
	processor := services.NewReminderProcessor(res.Store, res.Store, mailer)

	scheduler, err := worker.NewReminderScheduler(cfg.ReminderSchedule, processor, logger)
	if err != nil {
		logger.Error("Failed to create reminder scheduler", applog.FieldError, err)
		os.Exit(1)
	}

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(ctx context.Context) {
		scheduler.Stop(ctx)
		if err := res.Close(); err != nil {
			logger.Error("Backend close error", applog.FieldError, err)
		}
	})

	scheduler.Start(ctx)
	logger.Info("Reminder schedule active", "schedule", cfg.ReminderSchedule)

	cli.WaitForShutdown(ctx, done)
	logger.Info("Reminder worker stopped")
}
