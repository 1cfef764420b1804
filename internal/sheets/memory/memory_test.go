package memory

import (
	"context"
	"testing"

	"accountbook/internal/core"
)

func TestMirror(t *testing.T) {
	ctx := context.Background()
	m := New()

	_ = m.UpsertTransaction(ctx, core.Transaction{ID: 2, Amount: 20})
	_ = m.UpsertTransaction(ctx, core.Transaction{ID: 1, Amount: 10})
	_ = m.UpsertTransaction(ctx, core.Transaction{ID: 2, Amount: 25})

	rows := m.Rows()
	if len(rows) != 2 || rows[0].ID != 1 || rows[1].Amount != 25 {
		t.Fatalf("Rows() = %+v", rows)
	}

	if err := m.RemoveTransaction(ctx, 2); err != nil {
		t.Fatal(err)
	}
	if err := m.RemoveTransaction(ctx, 42); err != nil {
		t.Errorf("removing a missing row should succeed, got %v", err)
	}
	if rows := m.Rows(); len(rows) != 1 {
		t.Errorf("Rows() after remove = %+v", rows)
	}
}
