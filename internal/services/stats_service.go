package services

import (
	"context"
	"fmt"
	"log/slog"

	"accountbook/internal/category"
	"accountbook/internal/core"
	"accountbook/internal/stats"
	"accountbook/internal/storage"
)

// StatsService answers chart and budget queries for a session. Nothing is
// cached; every call reads the store.
type StatsService struct {
	agg   *stats.Aggregator
	users storage.UserStore
	names *category.Directory
}

func NewStatsService(source stats.Source, users storage.UserStore, names *category.Directory) *StatsService {
	return &StatsService{
		agg:   stats.NewAggregator(source),
		users: users,
		names: names,
	}
}

func (s *StatsService) Aggregate(ctx context.Context, sess core.Session, scope stats.Scope, sel stats.Selector) (stats.Result, error) {
	return s.agg.Aggregate(ctx, sess.Owner, scope, sel)
}

// Series aggregates and relabels for display using the caller's currency
// and category names.
func (s *StatsService) Series(ctx context.Context, sess core.Session, scope stats.Scope, sel stats.Selector) (stats.Series, error) {
	res, err := s.agg.Aggregate(ctx, sess.Owner, scope, sel)
	if err != nil {
		return stats.Series{}, err
	}
	var namer func(string) string
	if s.names != nil {
		namer = s.names.Names(ctx, sess.Owner)
	}
	return stats.Present(res, namer, s.currency(ctx, sess)), nil
}

// QuickRange resolves a preset relative to today and returns its series.
func (s *StatsService) QuickRange(ctx context.Context, sess core.Session, preset stats.Preset, today core.Date, sel stats.Selector) (stats.Series, error) {
	scope, err := stats.QuickRange(preset, today)
	if err != nil {
		return stats.Series{}, err
	}
	return s.Series(ctx, sess, scope, sel)
}

// Budget compares the month of today's expenses against the user's budget.
func (s *StatsService) Budget(ctx context.Context, sess core.Session, today core.Date) (core.BudgetSummary, error) {
	if !today.Valid() {
		return core.BudgetSummary{}, fmt.Errorf("%w: today %q", stats.ErrInvalidScope, today)
	}
	u, err := s.users.UserByID(ctx, sess.Owner)
	if err != nil {
		return core.BudgetSummary{}, fmt.Errorf("load settings: %w", err)
	}
	res, err := s.agg.Aggregate(ctx, sess.Owner, stats.MonthScope(today.Year(), today.Month()), stats.SelectExpense)
	if err != nil {
		return core.BudgetSummary{}, err
	}
	return core.NewBudgetSummary(u.Settings.Budget, res.Total, u.Settings.Currency), nil
}

func (s *StatsService) currency(ctx context.Context, sess core.Session) string {
	if s.users == nil {
		return core.DefaultCurrency
	}
	u, err := s.users.UserByID(ctx, sess.Owner)
	if err != nil {
		slog.WarnContext(ctx, "Could not load currency, using default", "owner", sess.Owner, "error", err)
		return core.DefaultCurrency
	}
	if u.Settings.Currency == "" {
		return core.DefaultCurrency
	}
	return u.Settings.Currency
}
