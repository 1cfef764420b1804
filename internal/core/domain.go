package core

import (
	"errors"
	"strings"
)

const (
	Expense FlowType = "expense"
	Income  FlowType = "income"
)

type (
	// FlowType is the direction of money for a transaction.
	FlowType string

	// OwnerID identifies the user that owns a row. Every read is scoped by it.
	OwnerID int64

	Transaction struct {
		ID       int64
		Owner    OwnerID
		Date     Date
		DayLabel string // weekday name computed when the row is written
		Title    string
		Amount   int64
		Flow     FlowType
		Category string // built-in or custom category key
	}

	// Session is the authenticated caller, passed explicitly to every operation.
	Session struct {
		Owner OwnerID
		Name  string
		Email string
	}

	Settings struct {
		Budget          int64
		Currency        string
		ReminderEnabled bool
		ReminderHour    int
		ReminderMinute  int
	}

	User struct {
		ID           OwnerID
		Name         string
		Email        string
		PasswordHash string
		Settings     Settings
	}
)

const (
	DefaultBudget         int64 = 8000
	DefaultCurrency             = "NT$"
	DefaultReminderHour         = 20
	DefaultReminderMinute       = 0
	maxTitleLength              = 200
)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidDate     = errors.New("invalid date")
	ErrInvalidFlow     = errors.New("invalid flow type")
	ErrEmptyCategory   = errors.New("empty category")
	ErrTitleTooLong    = errors.New("title too long (max 200 characters)")
	ErrInvalidSettings = errors.New("invalid settings")
	ErrNotFound        = errors.New("not found")
)

// DefaultSettings returns the settings a new account starts with.
func DefaultSettings() Settings {
	return Settings{
		Budget:         DefaultBudget,
		Currency:       DefaultCurrency,
		ReminderHour:   DefaultReminderHour,
		ReminderMinute: DefaultReminderMinute,
	}
}

// ParseFlowType accepts the lowercase wire names of a flow.
func ParseFlowType(s string) (FlowType, error) {
	switch FlowType(strings.ToLower(strings.TrimSpace(s))) {
	case Expense:
		return Expense, nil
	case Income:
		return Income, nil
	default:
		return "", ErrInvalidFlow
	}
}

func (f FlowType) Valid() bool {
	return f == Expense || f == Income
}

func (f FlowType) String() string {
	return string(f)
}

// Validate checks the fields a caller controls. ID, owner and day label are
// assigned by the service and the store.
func (t Transaction) Validate() error {
	if t.Amount <= 0 {
		return ErrInvalidAmount
	}
	if !t.Date.Valid() {
		return ErrInvalidDate
	}
	if !t.Flow.Valid() {
		return ErrInvalidFlow
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	if len(t.Title) > maxTitleLength {
		return ErrTitleTooLong
	}
	return nil
}

// Signed returns the amount with the sign of its flow.
func (t Transaction) Signed() int64 {
	if t.Flow == Expense {
		return -t.Amount
	}
	return t.Amount
}

func (s Settings) Validate() error {
	if s.Budget < 0 {
		return ErrInvalidSettings
	}
	if strings.TrimSpace(s.Currency) == "" {
		return ErrInvalidSettings
	}
	if s.ReminderHour < 0 || s.ReminderHour > 23 || s.ReminderMinute < 0 || s.ReminderMinute > 59 {
		return ErrInvalidSettings
	}
	return nil
}
