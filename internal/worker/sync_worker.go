// Package worker applies transaction change events to the spreadsheet mirror.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"accountbook/internal/amqp"
	applog "accountbook/internal/log"
	"accountbook/internal/sheets"
)

// SyncWorker mirrors transactions to a sheet from the snapshots carried by
// change events. It never reads the ledger database.
type SyncWorker struct {
	mirror sheets.Mirror
	logger *applog.Logger
}

func NewSyncWorker(mirror sheets.Mirror, logger *applog.Logger) *SyncWorker {
	if logger == nil {
		logger = applog.New(applog.Config{Component: applog.ComponentWorker, Handler: slog.Default().Handler()})
	}
	return &SyncWorker{mirror: mirror, logger: logger}
}

// HandleEvent applies one event. Returning an error makes the consumer
// requeue the message.
func (w *SyncWorker) HandleEvent(ctx context.Context, msg *amqp.TransactionEventMessage) error {
	if msg == nil {
		return nil
	}
	w.logger.InfoContext(ctx, "Processing transaction event",
		applog.FieldEventKind, string(msg.Kind),
		applog.FieldTransaction, msg.ID,
		applog.FieldOwner, msg.Owner,
		"timestamp", msg.Timestamp)

	switch msg.Kind {
	case amqp.EventCreated, amqp.EventUpdated:
		t := msg.Snapshot.Transaction()
		if t.ID == 0 {
			t.ID = msg.ID
		}
		if err := w.mirror.UpsertTransaction(ctx, t); err != nil {
			w.logger.ErrorContext(ctx, "Failed to mirror transaction",
				applog.FieldTransaction, msg.ID,
				applog.FieldError, err)
			return fmt.Errorf("mirror transaction %d: %w", msg.ID, err)
		}
	case amqp.EventDeleted:
		if err := w.mirror.RemoveTransaction(ctx, msg.ID); err != nil {
			w.logger.ErrorContext(ctx, "Failed to remove mirrored transaction",
				applog.FieldTransaction, msg.ID,
				applog.FieldError, err)
			return fmt.Errorf("remove transaction %d: %w", msg.ID, err)
		}
	default:
		// Unknown kinds are dropped rather than requeued forever.
		w.logger.WarnContext(ctx, "Ignoring unknown event kind",
			applog.FieldEventKind, string(msg.Kind),
			applog.FieldTransaction, msg.ID)
		return nil
	}

	w.logger.DebugContext(ctx, "Transaction event applied",
		applog.FieldEventKind, string(msg.Kind),
		applog.FieldTransaction, msg.ID)
	return nil
}
