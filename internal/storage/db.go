package storage

import (
	"context"
	"database/sql"
)

// DBTX is satisfied by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	PrepareContext(context.Context, string) (*sql.Stmt, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{
		db: tx,
	}
}

type Transaction struct {
	ID          int64
	UserID      int64
	Date        string
	Day         string
	Title       string
	Amount      int64
	Type        string
	CategoryKey string
}

type User struct {
	ID              int64
	Name            string
	Email           string
	PasswordHash    string
	Budget          int64
	Currency        string
	ReminderEnabled bool
	ReminderHour    int64
	ReminderMinute  int64
	LastRemindedOn  string
}

type Category struct {
	ID     int64
	UserID int64
	Name   string
	Key    string
}
