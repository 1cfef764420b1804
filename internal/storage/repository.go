package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"accountbook/internal/core"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
}

var _ Store = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// Run migrations
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	repo := &SQLiteRepository{
		db:      db,
		queries: New(db),
	}

	return repo, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping reports whether the database answers.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLiteRepository) AddTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	row, err := r.queries.CreateTransaction(ctx, CreateTransactionParams{
		UserID:      int64(t.Owner),
		Date:        string(t.Date),
		Day:         t.DayLabel,
		Title:       t.Title,
		Amount:      t.Amount,
		Type:        string(t.Flow),
		CategoryKey: t.Category,
	})
	if err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved to SQLite",
		"id", row.ID,
		"owner", row.UserID,
		"date", row.Date,
		"type", row.Type,
		"amount", row.Amount,
		"category", row.CategoryKey)

	return r.toCore(ctx, row), nil
}

func (r *SQLiteRepository) UpdateTransaction(ctx context.Context, t core.Transaction) error {
	n, err := r.queries.UpdateTransaction(ctx, UpdateTransactionParams{
		Date:        string(t.Date),
		Day:         t.DayLabel,
		Title:       t.Title,
		Amount:      t.Amount,
		Type:        string(t.Flow),
		CategoryKey: t.Category,
		ID:          t.ID,
		UserID:      int64(t.Owner),
	})
	if err != nil {
		return fmt.Errorf("update transaction %d: %w", t.ID, err)
	}
	if n == 0 {
		return fmt.Errorf("update transaction %d: %w", t.ID, core.ErrNotFound)
	}
	return nil
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, owner core.OwnerID, id int64) (core.Transaction, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("begin delete: %w", err)
	}
	defer tx.Rollback()

	q := r.queries.WithTx(tx)
	row, err := q.GetTransaction(ctx, id, int64(owner))
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, fmt.Errorf("delete transaction %d: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction %d: %w", id, err)
	}
	if _, err := q.DeleteTransaction(ctx, id, int64(owner)); err != nil {
		return core.Transaction{}, fmt.Errorf("delete transaction %d: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return core.Transaction{}, fmt.Errorf("commit delete: %w", err)
	}

	slog.InfoContext(ctx, "Transaction deleted from SQLite", "id", id, "owner", owner)
	return r.toCore(ctx, row), nil
}

func (r *SQLiteRepository) TransactionByID(ctx context.Context, owner core.OwnerID, id int64) (core.Transaction, error) {
	row, err := r.queries.GetTransaction(ctx, id, int64(owner))
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, fmt.Errorf("transaction %d: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction by id: %w", err)
	}
	return r.toCore(ctx, row), nil
}

// ListTransactions implements stats.Source
func (r *SQLiteRepository) ListTransactions(ctx context.Context, q core.TransactionQuery) ([]core.Transaction, error) {
	rows, err := r.queries.ListTransactions(ctx, ListTransactionsParams{
		UserID:      int64(q.Owner),
		Type:        string(q.Flow),
		CategoryKey: q.Category,
		DatePrefix:  q.Dates.Prefix,
		DateFrom:    string(q.Dates.From),
		DateTo:      string(q.Dates.To),
	})
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	out := make([]core.Transaction, len(rows))
	for i, row := range rows {
		out[i] = r.toCore(ctx, row)
	}
	return out, nil
}

// toCore converts a row. Dates that do not parse are kept verbatim and logged.
func (r *SQLiteRepository) toCore(ctx context.Context, row Transaction) core.Transaction {
	t := core.Transaction{
		ID:       row.ID,
		Owner:    core.OwnerID(row.UserID),
		Date:     core.Date(row.Date),
		DayLabel: row.Day,
		Title:    row.Title,
		Amount:   row.Amount,
		Flow:     core.FlowType(row.Type),
		Category: row.CategoryKey,
	}
	if !t.Date.Valid() {
		slog.WarnContext(ctx, "Stored transaction has an unparseable date",
			"id", row.ID,
			"owner", row.UserID,
			"date", row.Date)
	}
	return t
}

func (r *SQLiteRepository) AddCategory(ctx context.Context, owner core.OwnerID, c core.Category) error {
	if err := r.queries.CreateCategory(ctx, int64(owner), c.Name, c.Key); err != nil {
		return fmt.Errorf("create category: %w", err)
	}
	slog.InfoContext(ctx, "Custom category saved", "owner", owner, "key", c.Key, "name", c.Name)
	return nil
}

func (r *SQLiteRepository) CustomCategories(ctx context.Context, owner core.OwnerID) ([]core.Category, error) {
	rows, err := r.queries.ListCategories(ctx, int64(owner))
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	out := make([]core.Category, len(rows))
	for i, row := range rows {
		out[i] = core.Category{Kind: core.Custom, Key: row.Key, Name: row.Name}
	}
	return out, nil
}

func (r *SQLiteRepository) CreateUser(ctx context.Context, u core.User) (core.User, error) {
	if n, err := r.queries.CountUsersByName(ctx, u.Name, 0); err != nil {
		return core.User{}, fmt.Errorf("check user name: %w", err)
	} else if n > 0 {
		return core.User{}, ErrDuplicateName
	}
	if n, err := r.queries.CountUsersByEmail(ctx, u.Email); err != nil {
		return core.User{}, fmt.Errorf("check user email: %w", err)
	} else if n > 0 {
		return core.User{}, ErrDuplicateEmail
	}

	row, err := r.queries.CreateUser(ctx, CreateUserParams{
		Name:            u.Name,
		Email:           u.Email,
		PasswordHash:    u.PasswordHash,
		Budget:          u.Settings.Budget,
		Currency:        u.Settings.Currency,
		ReminderEnabled: u.Settings.ReminderEnabled,
		ReminderHour:    int64(u.Settings.ReminderHour),
		ReminderMinute:  int64(u.Settings.ReminderMinute),
	})
	if err != nil {
		return core.User{}, fmt.Errorf("create user: %w", err)
	}

	slog.InfoContext(ctx, "User created", "id", row.ID, "name", row.Name)
	return userToCore(row), nil
}

func (r *SQLiteRepository) UserByID(ctx context.Context, id core.OwnerID) (core.User, error) {
	row, err := r.queries.GetUser(ctx, int64(id))
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, fmt.Errorf("user %d: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.User{}, fmt.Errorf("get user: %w", err)
	}
	return userToCore(row), nil
}

func (r *SQLiteRepository) UserByEmail(ctx context.Context, email string) (core.User, error) {
	row, err := r.queries.GetUserByEmail(ctx, email)
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, fmt.Errorf("user %q: %w", email, core.ErrNotFound)
	}
	if err != nil {
		return core.User{}, fmt.Errorf("get user by email: %w", err)
	}
	return userToCore(row), nil
}

func (r *SQLiteRepository) RenameUser(ctx context.Context, id core.OwnerID, name string) error {
	if n, err := r.queries.CountUsersByName(ctx, name, int64(id)); err != nil {
		return fmt.Errorf("check user name: %w", err)
	} else if n > 0 {
		return ErrDuplicateName
	}
	n, err := r.queries.UpdateUserName(ctx, int64(id), name)
	if err != nil {
		return fmt.Errorf("rename user: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("rename user %d: %w", id, core.ErrNotFound)
	}
	return nil
}

func (r *SQLiteRepository) UpdateSettings(ctx context.Context, id core.OwnerID, s core.Settings) error {
	n, err := r.queries.UpdateUserSettings(ctx, UpdateUserSettingsParams{
		Budget:          s.Budget,
		Currency:        s.Currency,
		ReminderEnabled: s.ReminderEnabled,
		ReminderHour:    int64(s.ReminderHour),
		ReminderMinute:  int64(s.ReminderMinute),
		ID:              int64(id),
	})
	if err != nil {
		return fmt.Errorf("update settings: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("update settings for user %d: %w", id, core.ErrNotFound)
	}
	return nil
}

func (r *SQLiteRepository) DeleteUser(ctx context.Context, id core.OwnerID) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete user: %w", err)
	}
	defer tx.Rollback()

	q := r.queries.WithTx(tx)
	if err := q.DeleteTransactionsByUser(ctx, int64(id)); err != nil {
		return fmt.Errorf("delete user transactions: %w", err)
	}
	if err := q.DeleteCategoriesByUser(ctx, int64(id)); err != nil {
		return fmt.Errorf("delete user categories: %w", err)
	}
	n, err := q.DeleteUser(ctx, int64(id))
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("delete user %d: %w", id, core.ErrNotFound)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete user: %w", err)
	}

	slog.InfoContext(ctx, "User deleted with all data", "id", id)
	return nil
}

func (r *SQLiteRepository) ReminderCandidates(ctx context.Context) ([]ReminderCandidate, error) {
	rows, err := r.queries.ListReminderUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list reminder users: %w", err)
	}
	out := make([]ReminderCandidate, len(rows))
	for i, row := range rows {
		out[i] = ReminderCandidate{User: userToCore(row), LastRemindedOn: core.Date(row.LastRemindedOn)}
	}
	return out, nil
}

func (r *SQLiteRepository) MarkReminded(ctx context.Context, id core.OwnerID, day core.Date) error {
	if err := r.queries.MarkReminded(ctx, int64(id), string(day)); err != nil {
		return fmt.Errorf("mark reminded: %w", err)
	}
	return nil
}

func userToCore(row User) core.User {
	return core.User{
		ID:           core.OwnerID(row.ID),
		Name:         row.Name,
		Email:        row.Email,
		PasswordHash: row.PasswordHash,
		Settings: core.Settings{
			Budget:          row.Budget,
			Currency:        row.Currency,
			ReminderEnabled: row.ReminderEnabled,
			ReminderHour:    int(row.ReminderHour),
			ReminderMinute:  int(row.ReminderMinute),
		},
	}
}
