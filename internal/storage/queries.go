package storage

import (
	"context"
)

const createTransaction = `-- name: CreateTransaction :one
INSERT INTO transactions (user_id, date, day, title, amount, type, category_key)
VALUES (?, ?, ?, ?, ?, ?, ?)
RETURNING id, user_id, date, day, title, amount, type, category_key
`

type CreateTransactionParams struct {
	UserID      int64
	Date        string
	Day         string
	Title       string
	Amount      int64
	Type        string
	CategoryKey string
}

func (q *Queries) CreateTransaction(ctx context.Context, arg CreateTransactionParams) (Transaction, error) {
	row := q.db.QueryRowContext(ctx, createTransaction,
		arg.UserID,
		arg.Date,
		arg.Day,
		arg.Title,
		arg.Amount,
		arg.Type,
		arg.CategoryKey,
	)
	var i Transaction
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.Date,
		&i.Day,
		&i.Title,
		&i.Amount,
		&i.Type,
		&i.CategoryKey,
	)
	return i, err
}

const updateTransaction = `-- name: UpdateTransaction :execrows
UPDATE transactions
SET date = ?, day = ?, title = ?, amount = ?, type = ?, category_key = ?
WHERE id = ? AND user_id = ?
`

type UpdateTransactionParams struct {
	Date        string
	Day         string
	Title       string
	Amount      int64
	Type        string
	CategoryKey string
	ID          int64
	UserID      int64
}

func (q *Queries) UpdateTransaction(ctx context.Context, arg UpdateTransactionParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateTransaction,
		arg.Date,
		arg.Day,
		arg.Title,
		arg.Amount,
		arg.Type,
		arg.CategoryKey,
		arg.ID,
		arg.UserID,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteTransaction = `-- name: DeleteTransaction :execrows
DELETE FROM transactions WHERE id = ? AND user_id = ?
`

func (q *Queries) DeleteTransaction(ctx context.Context, id, userID int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteTransaction, id, userID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const getTransaction = `-- name: GetTransaction :one
SELECT id, user_id, date, day, title, amount, type, category_key
FROM transactions
WHERE id = ? AND user_id = ?
`

func (q *Queries) GetTransaction(ctx context.Context, id, userID int64) (Transaction, error) {
	row := q.db.QueryRowContext(ctx, getTransaction, id, userID)
	var i Transaction
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.Date,
		&i.Day,
		&i.Title,
		&i.Amount,
		&i.Type,
		&i.CategoryKey,
	)
	return i, err
}

// Empty filter arguments disable their predicate.
const listTransactions = `-- name: ListTransactions :many
SELECT id, user_id, date, day, title, amount, type, category_key
FROM transactions
WHERE user_id = ?1
  AND (?2 = '' OR type = ?2)
  AND (?3 = '' OR category_key = ?3)
  AND (?4 = '' OR date LIKE ?4 || '%')
  AND (?5 = '' OR date >= ?5)
  AND (?6 = '' OR date <= ?6)
ORDER BY date DESC, id DESC
`

type ListTransactionsParams struct {
	UserID      int64
	Type        string
	CategoryKey string
	DatePrefix  string
	DateFrom    string
	DateTo      string
}

func (q *Queries) ListTransactions(ctx context.Context, arg ListTransactionsParams) ([]Transaction, error) {
	rows, err := q.db.QueryContext(ctx, listTransactions,
		arg.UserID,
		arg.Type,
		arg.CategoryKey,
		arg.DatePrefix,
		arg.DateFrom,
		arg.DateTo,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Transaction
	for rows.Next() {
		var i Transaction
		if err := rows.Scan(
			&i.ID,
			&i.UserID,
			&i.Date,
			&i.Day,
			&i.Title,
			&i.Amount,
			&i.Type,
			&i.CategoryKey,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const deleteTransactionsByUser = `-- name: DeleteTransactionsByUser :exec
DELETE FROM transactions WHERE user_id = ?
`

func (q *Queries) DeleteTransactionsByUser(ctx context.Context, userID int64) error {
	_, err := q.db.ExecContext(ctx, deleteTransactionsByUser, userID)
	return err
}

const createCategory = `-- name: CreateCategory :exec
INSERT INTO categories (user_id, name, key) VALUES (?, ?, ?)
`

func (q *Queries) CreateCategory(ctx context.Context, userID int64, name, key string) error {
	_, err := q.db.ExecContext(ctx, createCategory, userID, name, key)
	return err
}

const listCategories = `-- name: ListCategories :many
SELECT id, user_id, name, key FROM categories WHERE user_id = ? ORDER BY id
`

func (q *Queries) ListCategories(ctx context.Context, userID int64) ([]Category, error) {
	rows, err := q.db.QueryContext(ctx, listCategories, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Category
	for rows.Next() {
		var i Category
		if err := rows.Scan(&i.ID, &i.UserID, &i.Name, &i.Key); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const deleteCategoriesByUser = `-- name: DeleteCategoriesByUser :exec
DELETE FROM categories WHERE user_id = ?
`

func (q *Queries) DeleteCategoriesByUser(ctx context.Context, userID int64) error {
	_, err := q.db.ExecContext(ctx, deleteCategoriesByUser, userID)
	return err
}

const userColumns = `id, name, email, password_hash, budget, currency,
       reminder_enabled, reminder_hour, reminder_minute, last_reminded_on`

const createUser = `-- name: CreateUser :one
INSERT INTO users (name, email, password_hash, budget, currency, reminder_enabled, reminder_hour, reminder_minute)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
RETURNING ` + userColumns

type CreateUserParams struct {
	Name            string
	Email           string
	PasswordHash    string
	Budget          int64
	Currency        string
	ReminderEnabled bool
	ReminderHour    int64
	ReminderMinute  int64
}

func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (User, error) {
	row := q.db.QueryRowContext(ctx, createUser,
		arg.Name,
		arg.Email,
		arg.PasswordHash,
		arg.Budget,
		arg.Currency,
		arg.ReminderEnabled,
		arg.ReminderHour,
		arg.ReminderMinute,
	)
	return scanUser(row)
}

const getUser = `-- name: GetUser :one
SELECT ` + userColumns + ` FROM users WHERE id = ?
`

func (q *Queries) GetUser(ctx context.Context, id int64) (User, error) {
	return scanUser(q.db.QueryRowContext(ctx, getUser, id))
}

const getUserByEmail = `-- name: GetUserByEmail :one
SELECT ` + userColumns + ` FROM users WHERE email = ?
`

func (q *Queries) GetUserByEmail(ctx context.Context, email string) (User, error) {
	return scanUser(q.db.QueryRowContext(ctx, getUserByEmail, email))
}

const countUsersByName = `-- name: CountUsersByName :one
SELECT COUNT(*) FROM users WHERE name = ? AND id != ?
`

func (q *Queries) CountUsersByName(ctx context.Context, name string, excludeID int64) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countUsersByName, name, excludeID).Scan(&n)
	return n, err
}

const countUsersByEmail = `-- name: CountUsersByEmail :one
SELECT COUNT(*) FROM users WHERE email = ?
`

func (q *Queries) CountUsersByEmail(ctx context.Context, email string) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countUsersByEmail, email).Scan(&n)
	return n, err
}

const updateUserName = `-- name: UpdateUserName :execrows
UPDATE users SET name = ? WHERE id = ?
`

func (q *Queries) UpdateUserName(ctx context.Context, id int64, name string) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateUserName, name, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const updateUserSettings = `-- name: UpdateUserSettings :execrows
UPDATE users
SET budget = ?, currency = ?, reminder_enabled = ?, reminder_hour = ?, reminder_minute = ?
WHERE id = ?
`

type UpdateUserSettingsParams struct {
	Budget          int64
	Currency        string
	ReminderEnabled bool
	ReminderHour    int64
	ReminderMinute  int64
	ID              int64
}

func (q *Queries) UpdateUserSettings(ctx context.Context, arg UpdateUserSettingsParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateUserSettings,
		arg.Budget,
		arg.Currency,
		arg.ReminderEnabled,
		arg.ReminderHour,
		arg.ReminderMinute,
		arg.ID,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const markReminded = `-- name: MarkReminded :exec
UPDATE users SET last_reminded_on = ? WHERE id = ?
`

func (q *Queries) MarkReminded(ctx context.Context, id int64, day string) error {
	_, err := q.db.ExecContext(ctx, markReminded, day, id)
	return err
}

const listReminderUsers = `-- name: ListReminderUsers :many
SELECT ` + userColumns + ` FROM users WHERE reminder_enabled = 1 ORDER BY id
`

func (q *Queries) ListReminderUsers(ctx context.Context) ([]User, error) {
	rows, err := q.db.QueryContext(ctx, listReminderUsers)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []User
	for rows.Next() {
		i, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const deleteUser = `-- name: DeleteUser :execrows
DELETE FROM users WHERE id = ?
`

func (q *Queries) DeleteUser(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteUser, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(row scanner) (User, error) {
	var i User
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Email,
		&i.PasswordHash,
		&i.Budget,
		&i.Currency,
		&i.ReminderEnabled,
		&i.ReminderHour,
		&i.ReminderMinute,
		&i.LastRemindedOn,
	)
	return i, err
}
