package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"accountbook/internal/amqp"
	"accountbook/internal/core"
	"accountbook/internal/stats"
	"accountbook/internal/storage/memory"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []*amqp.TransactionEventMessage
	err    error
}

func (p *recordingPublisher) PublishTransactionEvent(_ context.Context, msg *amqp.TransactionEventMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, msg)
	return p.err
}

func (p *recordingPublisher) kinds() []amqp.EventKind {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]amqp.EventKind, len(p.events))
	for i, e := range p.events {
		out[i] = e.Kind
	}
	return out
}

var alice = core.Session{Owner: 1, Name: "alice", Email: "alice@example.com"}

func lunch(date core.Date, amount int64) TransactionInput {
	return TransactionInput{Date: date, Title: "noodles", Amount: amount, Flow: core.Expense, Category: "lunch"}
}

func TestTransactionService_CreateValidates(t *testing.T) {
	svc := NewTransactionService(memory.New(), nil)
	ctx := context.Background()

	tests := []struct {
		name string
		in   TransactionInput
		want error
	}{
		{"zero amount", lunch("2025/06/01", 0), core.ErrInvalidAmount},
		{"bad date", lunch("2025/13/01", 10), core.ErrInvalidDate},
		{"bad flow", TransactionInput{Date: "2025/06/01", Amount: 10, Flow: "gift", Category: "lunch"}, core.ErrInvalidFlow},
		{"no category", TransactionInput{Date: "2025/06/01", Amount: 10, Flow: core.Income, Category: "  "}, core.ErrEmptyCategory},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Create(ctx, alice, tt.in); !errors.Is(err, tt.want) {
				t.Errorf("Create() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestTransactionService_Lifecycle(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	pub := &recordingPublisher{}
	svc := NewTransactionService(store, pub)

	created, err := svc.Create(ctx, alice, lunch("2025-06-01", 120))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if created.ID == 0 || created.Owner != alice.Owner || created.Date != "2025/06/01" || created.DayLabel != "Sunday" {
		t.Fatalf("Create() = %+v", created)
	}

	updated, err := svc.Update(ctx, alice, created.ID, lunch("2025/06/02", 90))
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.DayLabel != "Monday" || updated.Amount != 90 {
		t.Errorf("Update() = %+v", updated)
	}
	got, err := svc.Get(ctx, alice, created.ID)
	if err != nil || got.Amount != 90 {
		t.Fatalf("Get() = %+v, %v", got, err)
	}

	bob := core.Session{Owner: 2}
	if _, err := svc.Get(ctx, bob, created.ID); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("other owner Get() error = %v", err)
	}
	if err := svc.Delete(ctx, bob, created.ID); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("other owner Delete() error = %v", err)
	}

	if err := svc.Delete(ctx, alice, created.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	kinds := pub.kinds()
	want := []amqp.EventKind{amqp.EventCreated, amqp.EventUpdated, amqp.EventDeleted}
	if len(kinds) != len(want) {
		t.Fatalf("events = %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("event %d = %s, want %s", i, kinds[i], want[i])
		}
	}
	if snap := pub.events[2].Snapshot; snap.Amount != 90 || snap.Date != "2025/06/02" {
		t.Errorf("delete snapshot = %+v", snap)
	}
}

func TestTransactionService_PublishFailureIsNotFatal(t *testing.T) {
	svc := NewTransactionService(memory.New(), &recordingPublisher{err: errors.New("broker down")})
	if _, err := svc.Create(context.Background(), alice, lunch("2025/06/01", 10)); err != nil {
		t.Fatalf("Create() error = %v, publish failures must not fail writes", err)
	}
}

func TestTransactionService_CategoryDetail(t *testing.T) {
	ctx := context.Background()
	svc := NewTransactionService(memory.New(), nil)

	for _, in := range []TransactionInput{
		lunch("2025/06/01", 100),
		lunch("2025/06/01", 50),
		lunch("2025/06/15", 80),
		lunch("2025/07/01", 999),
		{Date: "2025/06/15", Title: "rent", Amount: 200, Flow: core.Expense, Category: "rent"},
		{Date: "2025/06/15", Title: "refund", Amount: 30, Flow: core.Income, Category: "lunch"},
	} {
		if _, err := svc.Create(ctx, alice, in); err != nil {
			t.Fatal(err)
		}
	}

	detail, err := svc.CategoryDetail(ctx, alice, stats.MonthScope(2025, 6), core.Expense, "lunch")
	if err != nil {
		t.Fatalf("CategoryDetail() error = %v", err)
	}
	if detail.Total != 230 || detail.Count != 3 || len(detail.Days) != 2 {
		t.Fatalf("detail = %+v", detail)
	}
	if detail.Days[0].Date != "2025/06/15" || detail.Days[0].Total != 80 {
		t.Errorf("first day = %+v", detail.Days[0])
	}
	if detail.Days[1].Date != "2025/06/01" || detail.Days[1].Total != 150 || len(detail.Days[1].Transactions) != 2 {
		t.Errorf("second day = %+v", detail.Days[1])
	}

	if _, err := svc.CategoryDetail(ctx, alice, stats.MonthScope(2025, 13), core.Expense, "lunch"); !errors.Is(err, stats.ErrInvalidScope) {
		t.Errorf("bad scope error = %v", err)
	}
	if _, err := svc.CategoryDetail(ctx, alice, stats.MonthScope(2025, 6), core.Expense, ""); !errors.Is(err, core.ErrEmptyCategory) {
		t.Errorf("empty key error = %v", err)
	}

	empty, err := svc.CategoryDetail(ctx, core.Session{Owner: 99}, stats.MonthScope(2025, 6), core.Expense, "lunch")
	if err != nil || empty.Total != 0 || len(empty.Days) != 0 {
		t.Errorf("unknown owner detail = %+v, %v", empty, err)
	}
}
