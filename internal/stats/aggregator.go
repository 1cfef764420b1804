package stats

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"accountbook/internal/core"
)

// Selector picks the flow a result is computed for.
type Selector string

const (
	// SelectExpense is the default when no flow is given.
	SelectExpense Selector = "expense"
	SelectIncome  Selector = "income"
	// SelectNet is income minus expense per bucket.
	SelectNet Selector = "net"
)

// ErrUnavailable wraps store failures. Data-shape problems never produce it.
var ErrUnavailable = errors.New("statistics unavailable")

// ErrInvalidSelector is returned for flows other than expense, income or net.
var ErrInvalidSelector = errors.New("invalid flow selector")

// ParseSelector reads a flow name case-insensitively. Empty means expense.
func ParseSelector(s string) (Selector, error) {
	switch Selector(strings.ToLower(strings.TrimSpace(s))) {
	case "", SelectExpense:
		return SelectExpense, nil
	case SelectIncome:
		return SelectIncome, nil
	case SelectNet:
		return SelectNet, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidSelector, s)
	}
}

// Source is the read side of the transaction store the aggregator needs.
type Source interface {
	ListTransactions(ctx context.Context, q core.TransactionQuery) ([]core.Transaction, error)
}

// Bucket is the signed amount of one time slot.
type Bucket struct {
	Key    string `json:"key"`
	Amount int64  `json:"amount"`
}

// CategoryStat is one category's share of the result's flow.
type CategoryStat struct {
	Key        string  `json:"key"`
	Total      int64   `json:"total"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// Result is one aggregation. Buckets follow the resolved key order.
type Result struct {
	Scope      Scope          `json:"scope"`
	Selector   Selector       `json:"flow"`
	Buckets    []Bucket       `json:"buckets"`
	Total      int64          `json:"total"`
	Average    int64          `json:"average"`
	Categories []CategoryStat `json:"categories"`
}

// Aggregator computes results on demand. Nothing is cached between calls.
type Aggregator struct {
	source Source
}

func NewAggregator(source Source) *Aggregator {
	return &Aggregator{source: source}
}

// Aggregate sums the owner's rows in scope for the selected flow.
//
// Category stats follow the selected flow. In net mode they are computed
// over expenses.
func (a *Aggregator) Aggregate(ctx context.Context, owner core.OwnerID, scope Scope, sel Selector) (Result, error) {
	res, err := Resolve(scope)
	if err != nil {
		return Result{}, err
	}

	out := Result{Scope: scope, Selector: sel}

	switch sel {
	case SelectExpense, SelectIncome:
		flow := core.Expense
		if sel == SelectIncome {
			flow = core.Income
		}
		rows, err := a.list(ctx, owner, flow, res)
		if err != nil {
			return Result{}, err
		}
		sums := sumByKey(res, rows)
		out.Buckets = buildBuckets(res, sums, nil)
		out.Total = sumAll(sums)
		out.Categories = CategoryStats(rows)

	case SelectNet:
		var income, expense []core.Transaction
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			income, err = a.list(gctx, owner, core.Income, res)
			return err
		})
		g.Go(func() error {
			var err error
			expense, err = a.list(gctx, owner, core.Expense, res)
			return err
		})
		if err := g.Wait(); err != nil {
			return Result{}, err
		}
		incomeSums := sumByKey(res, income)
		expenseSums := sumByKey(res, expense)
		out.Buckets = buildBuckets(res, incomeSums, expenseSums)
		out.Total = sumAll(incomeSums) - sumAll(expenseSums)
		out.Categories = CategoryStats(expense)

	default:
		return Result{}, fmt.Errorf("%w: %q", ErrInvalidSelector, sel)
	}

	out.Average = average(out.Total, len(out.Buckets))

	slog.DebugContext(ctx, "Statistics aggregated",
		"owner", owner,
		"mode", res.Mode,
		"flow", sel,
		"buckets", len(out.Buckets),
		"total", out.Total)

	return out, nil
}

func (a *Aggregator) list(ctx context.Context, owner core.OwnerID, flow core.FlowType, res Resolution) ([]core.Transaction, error) {
	rows, err := a.source.ListTransactions(ctx, core.TransactionQuery{
		Owner: owner,
		Flow:  flow,
		Dates: res.Filter,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: list %s transactions: %w", ErrUnavailable, flow, err)
	}
	return rows, nil
}

func sumByKey(res Resolution, rows []core.Transaction) map[string]int64 {
	sums := make(map[string]int64)
	for _, t := range rows {
		sums[res.KeyOf(t.Date)] += t.Amount
	}
	return sums
}

// buildBuckets computes plus[k] - minus[k] for every key. Dense resolutions keep
// every key with zero fill. Sparse resolutions use the sorted union of the
// keys present in either map. Amounts under the "0" key of unparseable dates
// count toward the total but never get a bucket of their own.
func buildBuckets(res Resolution, plus, minus map[string]int64) []Bucket {
	keys := res.Keys
	if res.Sparse {
		seen := make(map[string]struct{}, len(plus)+len(minus))
		for k := range plus {
			seen[k] = struct{}{}
		}
		for k := range minus {
			seen[k] = struct{}{}
		}
		keys = make([]string, 0, len(seen))
		for k := range seen {
			keys = append(keys, k)
		}
		sort.Strings(keys)
	}

	buckets := make([]Bucket, 0, len(keys))
	for _, k := range keys {
		buckets = append(buckets, Bucket{Key: k, Amount: plus[k] - minus[k]})
	}
	return buckets
}

func sumAll(sums map[string]int64) int64 {
	var total int64
	for _, v := range sums {
		total += v
	}
	return total
}

func average(total int64, n int) int64 {
	if n == 0 {
		return 0
	}
	return total / int64(n)
}

// CategoryStats groups rows by category key, sorted by total descending with
// ties broken by key. Percentages are rounded to two decimals.
func CategoryStats(rows []core.Transaction) []CategoryStat {
	byKey := make(map[string]*CategoryStat)
	var grand int64
	for _, t := range rows {
		key := t.Category
		if strings.TrimSpace(key) == "" {
			key = core.OtherCategory
		}
		cs, ok := byKey[key]
		if !ok {
			cs = &CategoryStat{Key: key}
			byKey[key] = cs
		}
		cs.Total += t.Amount
		cs.Count++
		grand += t.Amount
	}

	out := make([]CategoryStat, 0, len(byKey))
	for _, cs := range byKey {
		cs.Percentage = percentage(cs.Total, grand)
		out = append(out, *cs)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Key < out[j].Key
	})
	return out
}

func percentage(part, whole int64) float64 {
	if whole == 0 {
		return 0
	}
	return decimal.NewFromInt(part).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(whole)).
		Round(2).
		InexactFloat64()
}
