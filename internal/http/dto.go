package http

import (
	"accountbook/internal/core"
	"accountbook/internal/services"
)

type transactionJSON struct {
	ID           int64  `json:"id"`
	Date         string `json:"date"`
	Day          string `json:"day"`
	Title        string `json:"title"`
	Amount       int64  `json:"amount"`
	Flow         string `json:"flow"`
	Category     string `json:"category"`
	CategoryName string `json:"category_name,omitempty"`
}

func toTransactionJSON(t core.Transaction, name func(string) string) transactionJSON {
	out := transactionJSON{
		ID:       t.ID,
		Date:     string(t.Date),
		Day:      t.DayLabel,
		Title:    t.Title,
		Amount:   t.Amount,
		Flow:     string(t.Flow),
		Category: t.Category,
	}
	if name != nil {
		out.CategoryName = name(t.Category)
	}
	return out
}

func toTransactionList(rows []core.Transaction, name func(string) string) []transactionJSON {
	out := make([]transactionJSON, 0, len(rows))
	for _, t := range rows {
		out = append(out, toTransactionJSON(t, name))
	}
	return out
}

type transactionRequest struct {
	Date     string      `json:"date"`
	Title    string      `json:"title"`
	Amount   amountValue `json:"amount"`
	Flow     string      `json:"flow"`
	Category string      `json:"category"`
}

func (req transactionRequest) input() (services.TransactionInput, error) {
	amount, err := req.Amount.parse()
	if err != nil {
		return services.TransactionInput{}, err
	}
	flow, err := core.ParseFlowType(req.Flow)
	if err != nil {
		return services.TransactionInput{}, err
	}
	return services.TransactionInput{
		Date:     core.Date(sanitizeInput(req.Date)),
		Title:    sanitizeInput(req.Title),
		Amount:   amount,
		Flow:     flow,
		Category: sanitizeInput(req.Category),
	}, nil
}

type categoryJSON struct {
	Key    string `json:"key"`
	Name   string `json:"name"`
	Custom bool   `json:"custom"`
	Flow   string `json:"flow,omitempty"`
}

func toCategoryJSON(c core.Category) categoryJSON {
	return categoryJSON{Key: c.Key, Name: c.Name, Custom: c.Kind == core.Custom, Flow: string(c.Flow)}
}

type settingsJSON struct {
	Budget          int64  `json:"budget"`
	Currency        string `json:"currency"`
	ReminderEnabled bool   `json:"reminder_enabled"`
	ReminderHour    int    `json:"reminder_hour"`
	ReminderMinute  int    `json:"reminder_minute"`
}

func toSettingsJSON(s core.Settings) settingsJSON {
	return settingsJSON{
		Budget:          s.Budget,
		Currency:        s.Currency,
		ReminderEnabled: s.ReminderEnabled,
		ReminderHour:    s.ReminderHour,
		ReminderMinute:  s.ReminderMinute,
	}
}

func (s settingsJSON) settings() core.Settings {
	return core.Settings{
		Budget:          s.Budget,
		Currency:        sanitizeInput(s.Currency),
		ReminderEnabled: s.ReminderEnabled,
		ReminderHour:    s.ReminderHour,
		ReminderMinute:  s.ReminderMinute,
	}
}

type userJSON struct {
	ID       int64        `json:"id"`
	Name     string       `json:"name"`
	Email    string       `json:"email"`
	Settings settingsJSON `json:"settings"`
}

func toUserJSON(u core.User) userJSON {
	return userJSON{ID: int64(u.ID), Name: u.Name, Email: u.Email, Settings: toSettingsJSON(u.Settings)}
}

type sessionResponse struct {
	Token string   `json:"token"`
	User  userJSON `json:"user"`
}

type dayGroupJSON struct {
	Date         string            `json:"date"`
	Day          string            `json:"day"`
	Total        int64             `json:"total"`
	Transactions []transactionJSON `json:"transactions"`
}

type categoryDetailJSON struct {
	Key   string         `json:"key"`
	Name  string         `json:"name"`
	Flow  string         `json:"flow"`
	Total int64          `json:"total"`
	Count int            `json:"count"`
	Days  []dayGroupJSON `json:"days"`
}

func toCategoryDetailJSON(d services.CategoryDetail, name func(string) string) categoryDetailJSON {
	out := categoryDetailJSON{
		Key:   d.Key,
		Name:  core.BuiltInName(d.Key),
		Flow:  string(d.Flow),
		Total: d.Total,
		Count: d.Count,
		Days:  make([]dayGroupJSON, 0, len(d.Days)),
	}
	if name != nil {
		out.Name = name(d.Key)
	}
	for _, g := range d.Days {
		out.Days = append(out.Days, dayGroupJSON{
			Date:         string(g.Date),
			Day:          g.DayLabel,
			Total:        g.Total,
			Transactions: toTransactionList(g.Transactions, name),
		})
	}
	return out
}
