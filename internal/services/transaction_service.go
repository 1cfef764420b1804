// Package services orchestrates the domain operations behind the HTTP API
// and the background workers.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"accountbook/internal/amqp"
	"accountbook/internal/core"
	applog "accountbook/internal/log"
	"accountbook/internal/stats"
	"accountbook/internal/storage"
)

// EventPublisher sends transaction change events. *amqp.Client implements it.
type EventPublisher interface {
	PublishTransactionEvent(ctx context.Context, msg *amqp.TransactionEventMessage) error
}

// TransactionInput is what a caller supplies when writing a row.
type TransactionInput struct {
	Date     core.Date
	Title    string
	Amount   int64
	Flow     core.FlowType
	Category string
}

func (in TransactionInput) transaction(owner core.OwnerID) core.Transaction {
	t := core.Transaction{
		Owner:    owner,
		Date:     in.Date,
		Title:    strings.TrimSpace(in.Title),
		Amount:   in.Amount,
		Flow:     in.Flow,
		Category: strings.TrimSpace(in.Category),
	}
	if d, err := core.ParseDate(string(in.Date)); err == nil {
		t.Date = d
	}
	return t
}

// TransactionService writes ledger rows and announces every change. Store
// writes are authoritative; publishing is best effort.
type TransactionService struct {
	store     storage.TransactionStore
	publisher EventPublisher
}

// NewTransactionService accepts a nil publisher, in which case no events are sent.
func NewTransactionService(store storage.TransactionStore, publisher EventPublisher) *TransactionService {
	return &TransactionService{store: store, publisher: publisher}
}

func (s *TransactionService) Create(ctx context.Context, sess core.Session, in TransactionInput) (core.Transaction, error) {
	t := in.transaction(sess.Owner)
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	t.DayLabel = t.Date.DayLabel()

	saved, err := s.store.AddTransaction(ctx, t)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}
	applog.LogTransactionChange(ctx, applog.OpCreate, int64(saved.Owner), saved.ID, string(saved.Flow), saved.Category, saved.Amount, string(saved.Date))
	s.publish(ctx, amqp.EventCreated, saved)
	return saved, nil
}

func (s *TransactionService) Update(ctx context.Context, sess core.Session, id int64, in TransactionInput) (core.Transaction, error) {
	t := in.transaction(sess.Owner)
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	t.ID = id
	t.DayLabel = t.Date.DayLabel()

	if err := s.store.UpdateTransaction(ctx, t); err != nil {
		return core.Transaction{}, fmt.Errorf("update transaction: %w", err)
	}
	applog.LogTransactionChange(ctx, applog.OpUpdate, int64(t.Owner), t.ID, string(t.Flow), t.Category, t.Amount, string(t.Date))
	s.publish(ctx, amqp.EventUpdated, t)
	return t, nil
}

func (s *TransactionService) Delete(ctx context.Context, sess core.Session, id int64) error {
	removed, err := s.store.DeleteTransaction(ctx, sess.Owner, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	applog.LogTransactionChange(ctx, applog.OpDelete, int64(removed.Owner), removed.ID, string(removed.Flow), removed.Category, removed.Amount, string(removed.Date))
	s.publish(ctx, amqp.EventDeleted, removed)
	return nil
}

func (s *TransactionService) Get(ctx context.Context, sess core.Session, id int64) (core.Transaction, error) {
	t, err := s.store.TransactionByID(ctx, sess.Owner, id)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	return t, nil
}

// List returns the caller's rows matching q. The owner in q is ignored.
func (s *TransactionService) List(ctx context.Context, sess core.Session, q core.TransactionQuery) ([]core.Transaction, error) {
	q.Owner = sess.Owner
	rows, err := s.store.ListTransactions(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return rows, nil
}

// DayGroup is one date of a category detail.
type DayGroup struct {
	Date         core.Date
	DayLabel     string
	Total        int64
	Transactions []core.Transaction
}

// CategoryDetail lists a category's rows in a scope, newest date first.
type CategoryDetail struct {
	Key   string
	Flow  core.FlowType
	Total int64
	Count int
	Days  []DayGroup
}

func (s *TransactionService) CategoryDetail(ctx context.Context, sess core.Session, scope stats.Scope, flow core.FlowType, key string) (CategoryDetail, error) {
	if !flow.Valid() {
		return CategoryDetail{}, core.ErrInvalidFlow
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return CategoryDetail{}, core.ErrEmptyCategory
	}
	res, err := stats.Resolve(scope)
	if err != nil {
		return CategoryDetail{}, err
	}

	rows, err := s.store.ListTransactions(ctx, core.TransactionQuery{
		Owner:    sess.Owner,
		Flow:     flow,
		Category: key,
		Dates:    res.Filter,
	})
	if err != nil {
		return CategoryDetail{}, fmt.Errorf("%w: list category %s: %w", stats.ErrUnavailable, key, err)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Date != rows[j].Date {
			return rows[i].Date > rows[j].Date
		}
		return rows[i].ID > rows[j].ID
	})

	detail := CategoryDetail{Key: key, Flow: flow, Count: len(rows)}
	for _, t := range rows {
		n := len(detail.Days)
		if n == 0 || detail.Days[n-1].Date != t.Date {
			label := t.DayLabel
			if label == "" {
				label = t.Date.DayLabel()
			}
			detail.Days = append(detail.Days, DayGroup{Date: t.Date, DayLabel: label})
			n++
		}
		detail.Days[n-1].Total += t.Amount
		detail.Days[n-1].Transactions = append(detail.Days[n-1].Transactions, t)
		detail.Total += t.Amount
	}
	return detail, nil
}

func (s *TransactionService) publish(ctx context.Context, kind amqp.EventKind, t core.Transaction) {
	if s.publisher == nil {
		slog.DebugContext(ctx, "No event publisher configured, skipping transaction event", "kind", kind, "id", t.ID)
		return
	}
	if err := s.publisher.PublishTransactionEvent(ctx, amqp.NewTransactionEvent(kind, t)); err != nil {
		slog.ErrorContext(ctx, "Failed to publish transaction event",
			"kind", kind,
			"id", t.ID,
			"error", err)
	}
}
