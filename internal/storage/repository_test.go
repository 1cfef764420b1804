package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"accountbook/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "data", "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func mustUser(t *testing.T, repo *SQLiteRepository, name string) core.User {
	t.Helper()
	u, err := repo.CreateUser(context.Background(), core.User{
		Name:         name,
		Email:        name + "@example.com",
		PasswordHash: "hash",
		Settings:     core.DefaultSettings(),
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	return u
}

func TestMigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "twice.db")
	for i := 0; i < 2; i++ {
		repo, err := NewSQLiteRepository(path)
		if err != nil {
			t.Fatalf("open %d: %v", i, err)
		}
		repo.Close()
	}
}

func TestTransactionCRUD(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	u := mustUser(t, repo, "alice")

	added, err := repo.AddTransaction(ctx, core.Transaction{
		Owner:    u.ID,
		Date:     "2025/06/01",
		DayLabel: "Sunday",
		Title:    "noodles",
		Amount:   100,
		Flow:     core.Expense,
		Category: "lunch",
	})
	if err != nil {
		t.Fatal(err)
	}
	if added.ID == 0 {
		t.Fatal("expected an assigned id")
	}

	added.Amount = 120
	added.Title = "noodles and tea"
	if err := repo.UpdateTransaction(ctx, added); err != nil {
		t.Fatal(err)
	}
	got, err := repo.TransactionByID(ctx, u.ID, added.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got != added {
		t.Fatalf("got %+v, want %+v", got, added)
	}

	// other owners can neither read nor change the row
	if _, err := repo.TransactionByID(ctx, u.ID+1, added.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	foreign := added
	foreign.Owner = u.ID + 1
	if err := repo.UpdateTransaction(ctx, foreign); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	deleted, err := repo.DeleteTransaction(ctx, u.ID, added.ID)
	if err != nil {
		t.Fatal(err)
	}
	if deleted.Amount != 120 {
		t.Fatalf("deleted snapshot = %+v", deleted)
	}
	if _, err := repo.DeleteTransaction(ctx, u.ID, added.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("second delete: expected ErrNotFound, got %v", err)
	}

	next, err := repo.AddTransaction(ctx, core.Transaction{Owner: u.ID, Date: "2025/06/02", Amount: 1, Flow: core.Expense, Category: "snack"})
	if err != nil {
		t.Fatal(err)
	}
	if next.ID <= added.ID {
		t.Fatalf("ids must not be reused: %d after %d", next.ID, added.ID)
	}
}

func TestListTransactionsFilters(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	a := mustUser(t, repo, "alice")
	b := mustUser(t, repo, "bob")

	rows := []core.Transaction{
		{Owner: a.ID, Date: "2025/05/31", Amount: 10, Flow: core.Expense, Category: "lunch"},
		{Owner: a.ID, Date: "2025/06/01", Amount: 100, Flow: core.Expense, Category: "lunch"},
		{Owner: a.ID, Date: "2025/06/15", Amount: 200, Flow: core.Expense, Category: "rent"},
		{Owner: a.ID, Date: "2025/06/15", Amount: 500, Flow: core.Income, Category: "salary"},
		{Owner: b.ID, Date: "2025/06/01", Amount: 999, Flow: core.Expense, Category: "lunch"},
	}
	for _, r := range rows {
		if _, err := repo.AddTransaction(ctx, r); err != nil {
			t.Fatal(err)
		}
	}

	cases := []struct {
		name  string
		q     core.TransactionQuery
		count int
		sum   int64
	}{
		{"owner", core.TransactionQuery{Owner: a.ID}, 4, 810},
		{"month prefix", core.TransactionQuery{Owner: a.ID, Dates: core.PrefixFilter(core.MonthPrefix(2025, 6))}, 3, 800},
		{"flow", core.TransactionQuery{Owner: a.ID, Flow: core.Expense, Dates: core.PrefixFilter("2025/06/")}, 2, 300},
		{"category", core.TransactionQuery{Owner: a.ID, Category: "lunch"}, 2, 110},
		{"inclusive range", core.TransactionQuery{Owner: a.ID, Dates: core.RangeFilter("2025/05/31", "2025/06/01")}, 2, 110},
		{"year prefix", core.TransactionQuery{Owner: a.ID, Dates: core.PrefixFilter(core.YearPrefix(2024))}, 0, 0},
		{"unknown owner", core.TransactionQuery{Owner: 999}, 0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := repo.ListTransactions(ctx, tc.q)
			if err != nil {
				t.Fatal(err)
			}
			var sum int64
			for _, r := range got {
				sum += r.Amount
			}
			if len(got) != tc.count || sum != tc.sum {
				t.Fatalf("got %d rows summing %d, want %d rows summing %d", len(got), sum, tc.count, tc.sum)
			}
		})
	}

	all, _ := repo.ListTransactions(ctx, core.TransactionQuery{Owner: a.ID})
	if all[0].Date != "2025/06/15" || all[len(all)-1].Date != "2025/05/31" {
		t.Fatalf("rows not ordered newest first: %+v", all)
	}
}

func TestUsersAndCategories(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	u := mustUser(t, repo, "alice")

	if _, err := repo.CreateUser(ctx, core.User{Name: "alice", Email: "other@example.com"}); !errors.Is(err, ErrDuplicateName) {
		t.Fatalf("expected ErrDuplicateName, got %v", err)
	}
	if _, err := repo.CreateUser(ctx, core.User{Name: "carol", Email: "alice@example.com"}); !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}

	byEmail, err := repo.UserByEmail(ctx, "alice@example.com")
	if err != nil || byEmail.ID != u.ID || byEmail.Settings.Budget != core.DefaultBudget {
		t.Fatalf("UserByEmail = %+v, %v", byEmail, err)
	}

	s := core.Settings{Budget: 12000, Currency: "€", ReminderEnabled: true, ReminderHour: 21, ReminderMinute: 30}
	if err := repo.UpdateSettings(ctx, u.ID, s); err != nil {
		t.Fatal(err)
	}
	if err := repo.RenameUser(ctx, u.ID, "alice2"); err != nil {
		t.Fatal(err)
	}
	got, err := repo.UserByID(ctx, u.ID)
	if err != nil || got.Settings != s || got.Name != "alice2" {
		t.Fatalf("UserByID = %+v, %v", got, err)
	}

	cands, err := repo.ReminderCandidates(ctx)
	if err != nil || len(cands) != 1 || cands[0].LastRemindedOn != "" {
		t.Fatalf("ReminderCandidates = %+v, %v", cands, err)
	}
	if err := repo.MarkReminded(ctx, u.ID, "2025/06/01"); err != nil {
		t.Fatal(err)
	}
	cands, _ = repo.ReminderCandidates(ctx)
	if cands[0].LastRemindedOn != "2025/06/01" {
		t.Fatalf("LastRemindedOn = %q", cands[0].LastRemindedOn)
	}

	c, _ := core.NewCustomCategory("Pets")
	if err := repo.AddCategory(ctx, u.ID, c); err != nil {
		t.Fatal(err)
	}
	cats, err := repo.CustomCategories(ctx, u.ID)
	if err != nil || len(cats) != 1 || cats[0].Key != c.Key || cats[0].Kind != core.Custom {
		t.Fatalf("CustomCategories = %+v, %v", cats, err)
	}

	if _, err := repo.AddTransaction(ctx, core.Transaction{Owner: u.ID, Date: "2025/06/01", Amount: 5, Flow: core.Expense, Category: c.Key}); err != nil {
		t.Fatal(err)
	}
	if err := repo.DeleteUser(ctx, u.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.UserByID(ctx, u.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	rows, _ := repo.ListTransactions(ctx, core.TransactionQuery{Owner: u.ID})
	cats, _ = repo.CustomCategories(ctx, u.ID)
	if len(rows) != 0 || len(cats) != 0 {
		t.Fatalf("user data left behind: %d rows, %d categories", len(rows), len(cats))
	}
}
