// Package backend builds the ledger store and the optional event publisher
// from configuration.
package backend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"accountbook/internal/amqp"
	"accountbook/internal/storage"
	"accountbook/internal/storage/memory"
)

// Result is a constructed backend. Publisher is nil when change events are
// disabled or the broker was unreachable at startup.
type Result struct {
	Store     storage.Store
	Publisher *amqp.Client
	// Ready reports whether the store answers.
	Ready func(ctx context.Context) error
}

// Close releases the publisher and the store.
func (r *Result) Close() error {
	var errs []error
	if r.Publisher != nil {
		errs = append(errs, r.Publisher.Close())
	}
	if r.Store != nil {
		errs = append(errs, r.Store.Close())
	}
	return errors.Join(errs...)
}

type Factory struct {
	logger *slog.Logger
	// newPublisher is swapped in tests.
	newPublisher func(url, exchange, queue string) (*amqp.Client, error)
}

func NewFactory(logger *slog.Logger) *Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Factory{logger: logger, newPublisher: amqp.NewClient}
}

func (f *Factory) Create(ctx context.Context, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	res := &Result{}
	switch cfg.Type {
	case SQLite:
		repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
		}
		res.Store = repo
		res.Ready = repo.Ping
		f.logger.Info("Initialized SQLite backend", "db_path", cfg.SQLiteDBPath)
	case Memory:
		res.Store = memory.New()
		res.Ready = func(context.Context) error { return nil }
		f.logger.Warn("Initialized memory backend, data is lost on restart")
	}

	if cfg.AMQPURL != "" {
		client, err := f.newPublisher(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			f.logger.Warn("Failed to initialize AMQP client, continuing without change events", "error", err)
		} else {
			res.Publisher = client
			f.logger.Info("Initialized AMQP client", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	}
	return res, nil
}
