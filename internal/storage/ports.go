package storage

import (
	"context"
	"errors"

	"accountbook/internal/core"
)

var (
	ErrDuplicateName  = errors.New("user name already exists")
	ErrDuplicateEmail = errors.New("email already registered")
)

// Ports implemented by the SQLite repository and the memory store.
type (
	TransactionStore interface {
		// AddTransaction persists t and returns it with its new ID.
		AddTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error)
		// UpdateTransaction overwrites every field but ID and owner.
		UpdateTransaction(ctx context.Context, t core.Transaction) error
		// DeleteTransaction removes a row and returns what was removed.
		DeleteTransaction(ctx context.Context, owner core.OwnerID, id int64) (core.Transaction, error)
		TransactionByID(ctx context.Context, owner core.OwnerID, id int64) (core.Transaction, error)
		// ListTransactions returns matching rows, newest date first.
		ListTransactions(ctx context.Context, q core.TransactionQuery) ([]core.Transaction, error)
	}

	CategoryStore interface {
		AddCategory(ctx context.Context, owner core.OwnerID, c core.Category) error
		CustomCategories(ctx context.Context, owner core.OwnerID) ([]core.Category, error)
	}

	UserStore interface {
		// CreateUser fails with ErrDuplicateName or ErrDuplicateEmail.
		CreateUser(ctx context.Context, u core.User) (core.User, error)
		UserByID(ctx context.Context, id core.OwnerID) (core.User, error)
		UserByEmail(ctx context.Context, email string) (core.User, error)
		RenameUser(ctx context.Context, id core.OwnerID, name string) error
		UpdateSettings(ctx context.Context, id core.OwnerID, s core.Settings) error
		// DeleteUser removes the user with all their transactions and categories.
		DeleteUser(ctx context.Context, id core.OwnerID) error
		ReminderCandidates(ctx context.Context) ([]ReminderCandidate, error)
		MarkReminded(ctx context.Context, id core.OwnerID, day core.Date) error
	}

	Store interface {
		TransactionStore
		CategoryStore
		UserStore
		Close() error
	}
)

// ReminderCandidate is a user with reminders enabled.
type ReminderCandidate struct {
	User           core.User
	LastRemindedOn core.Date
}
