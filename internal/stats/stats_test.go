package stats

import (
	"context"
	"errors"
	"math"
	"strconv"
	"sync"
	"testing"

	"accountbook/internal/core"
)

type fakeSource struct {
	mu    sync.Mutex
	rows  []core.Transaction
	err   error
	calls int
}

func (f *fakeSource) ListTransactions(_ context.Context, q core.TransactionQuery) ([]core.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	var out []core.Transaction
	for _, t := range f.rows {
		if q.Matches(t) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeSource) add(owner core.OwnerID, date core.Date, amount int64, flow core.FlowType, cat string) {
	f.rows = append(f.rows, core.Transaction{
		ID:       int64(len(f.rows) + 1),
		Owner:    owner,
		Date:     date,
		Amount:   amount,
		Flow:     flow,
		Category: cat,
	})
}

func juneScenario() *fakeSource {
	src := &fakeSource{}
	src.add(1, "2025/06/01", 100, core.Expense, "lunch")
	src.add(1, "2025/06/01", 50, core.Expense, "lunch")
	src.add(1, "2025/06/15", 200, core.Expense, "rent")
	// other owners never leak in
	src.add(2, "2025/06/01", 9999, core.Expense, "lunch")
	return src
}

func bucketMap(r Result) map[string]int64 {
	m := make(map[string]int64, len(r.Buckets))
	for _, b := range r.Buckets {
		m[b.Key] = b.Amount
	}
	return m
}

func TestResolveDayModeMatchesCalendar(t *testing.T) {
	for _, year := range []int{1900, 2000, 2023, 2024, 2025} {
		for month := 1; month <= 12; month++ {
			res, err := Resolve(MonthScope(year, month))
			if err != nil {
				t.Fatalf("%d/%d: %v", year, month, err)
			}
			if want := core.DaysInMonth(year, month); len(res.Keys) != want {
				t.Fatalf("%d/%d: %d keys, want %d", year, month, len(res.Keys), want)
			}
			if res.Keys[0] != "1" {
				t.Fatalf("first key %q", res.Keys[0])
			}
		}
	}
}

func TestResolveInvalidScopes(t *testing.T) {
	cases := []struct {
		name  string
		scope Scope
	}{
		{"month zero", MonthScope(2025, 0)},
		{"month thirteen", MonthScope(2025, 13)},
		{"year zero", YearScope(0)},
		{"bad range date", RangeScope("2025/02/30", "2025/03/01")},
		{"unknown mode", Scope{Mode: "week"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Resolve(tc.scope); !errors.Is(err, ErrInvalidScope) {
				t.Fatalf("expected ErrInvalidScope, got %v", err)
			}
		})
	}
}

func TestResolveRangeThreshold(t *testing.T) {
	start := core.Date("2025/01/01")

	res, err := Resolve(RangeScope(start, start.AddDays(59)))
	if err != nil {
		t.Fatal(err)
	}
	if res.Sparse || len(res.Keys) != 60 {
		t.Fatalf("60-day range: sparse=%v keys=%d", res.Sparse, len(res.Keys))
	}

	res, err = Resolve(RangeScope(start, start.AddDays(60)))
	if err != nil {
		t.Fatal(err)
	}
	if !res.Sparse || res.Keys != nil {
		t.Fatalf("61-day range should be sparse, got keys=%d", len(res.Keys))
	}

	res, err = Resolve(RangeScope(start, start))
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Keys) != 1 || res.Keys[0] != "2025/01/01" {
		t.Fatalf("single day keys = %v", res.Keys)
	}
}

func TestAggregateJuneExpenses(t *testing.T) {
	agg := NewAggregator(juneScenario())

	r, err := agg.Aggregate(context.Background(), 1, MonthScope(2025, 6), SelectExpense)
	if err != nil {
		t.Fatal(err)
	}
	if len(r.Buckets) != 30 {
		t.Fatalf("buckets = %d, want 30", len(r.Buckets))
	}
	if r.Total != 350 {
		t.Fatalf("total = %d, want 350", r.Total)
	}
	b := bucketMap(r)
	for day := 1; day <= 30; day++ {
		want := int64(0)
		switch day {
		case 1:
			want = 150
		case 15:
			want = 200
		}
		if got := b[strconv.Itoa(day)]; got != want {
			t.Fatalf("bucket %d = %d, want %d", day, got, want)
		}
	}
	if r.Average != 11 {
		t.Fatalf("average = %d, want 11", r.Average)
	}

	want := []CategoryStat{
		{Key: "rent", Total: 200, Count: 1, Percentage: 57.14},
		{Key: "lunch", Total: 150, Count: 2, Percentage: 42.86},
	}
	if len(r.Categories) != len(want) {
		t.Fatalf("categories = %+v", r.Categories)
	}
	for i := range want {
		if r.Categories[i] != want[i] {
			t.Fatalf("category %d = %+v, want %+v", i, r.Categories[i], want[i])
		}
	}
}

func TestAggregateNet(t *testing.T) {
	src := juneScenario()
	src.add(1, "2025/06/01", 500, core.Income, "salary")
	agg := NewAggregator(src)

	r, err := agg.Aggregate(context.Background(), 1, MonthScope(2025, 6), SelectNet)
	if err != nil {
		t.Fatal(err)
	}
	b := bucketMap(r)
	if b["1"] != 350 || b["15"] != -200 {
		t.Fatalf("bucket 1 = %d, bucket 15 = %d", b["1"], b["15"])
	}
	if r.Total != 150 {
		t.Fatalf("total = %d, want 150", r.Total)
	}
	if r.Average != 5 {
		t.Fatalf("average = %d, want 5", r.Average)
	}
	// net category stats are computed over expenses
	if len(r.Categories) != 2 || r.Categories[0].Key != "rent" {
		t.Fatalf("net categories = %+v", r.Categories)
	}

	income, err := agg.Aggregate(context.Background(), 1, MonthScope(2025, 6), SelectIncome)
	if err != nil {
		t.Fatal(err)
	}
	expense, err := agg.Aggregate(context.Background(), 1, MonthScope(2025, 6), SelectExpense)
	if err != nil {
		t.Fatal(err)
	}
	ib, eb := bucketMap(income), bucketMap(expense)
	for k, v := range b {
		if v != ib[k]-eb[k] {
			t.Fatalf("bucket %s: net %d != %d - %d", k, v, ib[k], eb[k])
		}
	}
	if len(income.Categories) != 1 || income.Categories[0].Key != "salary" || income.Categories[0].Percentage != 100 {
		t.Fatalf("income categories = %+v", income.Categories)
	}
}

func TestAggregateYear(t *testing.T) {
	src := juneScenario()
	src.add(1, "2025/12/31", 10, core.Expense, "snack")
	src.add(1, "2024/12/31", 10, core.Expense, "snack")
	r, err := NewAggregator(src).Aggregate(context.Background(), 1, YearScope(2025), SelectExpense)
	if err != nil {
		t.Fatal(err)
	}
	b := bucketMap(r)
	if len(r.Buckets) != 12 || b["6"] != 350 || b["12"] != 10 || r.Total != 360 {
		t.Fatalf("year result = %+v", r.Buckets)
	}
	if r.Average != 30 {
		t.Fatalf("average = %d", r.Average)
	}
}

func TestAggregateRangeSwapIsIdentical(t *testing.T) {
	src := &fakeSource{}
	src.add(1, "2025/03/01", 10, core.Expense, "lunch")
	src.add(1, "2025/03/05", 20, core.Expense, "dinner")
	src.add(1, "2025/03/10", 30, core.Expense, "lunch")
	src.add(1, "2025/03/11", 99, core.Expense, "lunch")
	agg := NewAggregator(src)

	fwd, err := agg.Aggregate(context.Background(), 1, RangeScope("2025/03/01", "2025/03/10"), SelectExpense)
	if err != nil {
		t.Fatal(err)
	}
	rev, err := agg.Aggregate(context.Background(), 1, RangeScope("2025/03/10", "2025/03/01"), SelectExpense)
	if err != nil {
		t.Fatal(err)
	}
	if fwd.Total != 60 || rev.Total != fwd.Total || fwd.Average != rev.Average {
		t.Fatalf("fwd total=%d avg=%d, rev total=%d avg=%d", fwd.Total, fwd.Average, rev.Total, rev.Average)
	}
	if len(fwd.Buckets) != 10 || len(rev.Buckets) != 10 {
		t.Fatalf("bucket counts %d %d", len(fwd.Buckets), len(rev.Buckets))
	}
	for i := range fwd.Buckets {
		if fwd.Buckets[i] != rev.Buckets[i] {
			t.Fatalf("bucket %d differs: %+v vs %+v", i, fwd.Buckets[i], rev.Buckets[i])
		}
	}
	for i := range fwd.Categories {
		if fwd.Categories[i] != rev.Categories[i] {
			t.Fatalf("category %d differs", i)
		}
	}
}

func TestAggregateSparseThreshold(t *testing.T) {
	start := core.Date("2025/01/01")
	src := &fakeSource{}
	src.add(1, start, 10, core.Expense, "lunch")
	src.add(1, start.AddDays(20), 20, core.Expense, "lunch")
	src.add(1, start.AddDays(40), 30, core.Expense, "lunch")
	agg := NewAggregator(src)

	sparse, err := agg.Aggregate(context.Background(), 1, RangeScope(start, start.AddDays(60)), SelectExpense)
	if err != nil {
		t.Fatal(err)
	}
	if len(sparse.Buckets) != 3 {
		t.Fatalf("61-day range buckets = %d, want 3", len(sparse.Buckets))
	}
	if sparse.Buckets[0].Key != "2025/01/01" || sparse.Buckets[2].Key != "2025/02/10" {
		t.Fatalf("sparse keys not ordered: %+v", sparse.Buckets)
	}
	if sparse.Average != 20 {
		t.Fatalf("sparse average = %d, want 20", sparse.Average)
	}

	dense, err := agg.Aggregate(context.Background(), 1, RangeScope(start, start.AddDays(59)), SelectExpense)
	if err != nil {
		t.Fatal(err)
	}
	if len(dense.Buckets) != 60 {
		t.Fatalf("60-day range buckets = %d, want 60", len(dense.Buckets))
	}
	if dense.Average != 1 {
		t.Fatalf("dense average = %d, want 1", dense.Average)
	}
}

func TestAggregateSparseNetUsesUnionOfDates(t *testing.T) {
	start := core.Date("2025/01/01")
	src := &fakeSource{}
	src.add(1, start.AddDays(1), 100, core.Income, "salary")
	src.add(1, start.AddDays(70), 40, core.Expense, "rent")
	src.add(1, start.AddDays(1), 30, core.Expense, "lunch")

	r, err := NewAggregator(src).Aggregate(context.Background(), 1, RangeScope(start, start.AddDays(90)), SelectNet)
	if err != nil {
		t.Fatal(err)
	}
	if len(r.Buckets) != 2 {
		t.Fatalf("buckets = %+v", r.Buckets)
	}
	if r.Buckets[0].Amount != 70 || r.Buckets[1].Amount != -40 || r.Total != 30 {
		t.Fatalf("buckets = %+v total = %d", r.Buckets, r.Total)
	}
}

func TestAggregateEmptyAndUnknownOwner(t *testing.T) {
	agg := NewAggregator(juneScenario())

	r, err := agg.Aggregate(context.Background(), 42, MonthScope(2025, 6), SelectExpense)
	if err != nil {
		t.Fatalf("unknown owner should not error: %v", err)
	}
	if r.Total != 0 || r.Average != 0 || len(r.Categories) != 0 || len(r.Buckets) != 30 {
		t.Fatalf("unexpected result %+v", r)
	}

	r, err = agg.Aggregate(context.Background(), 42, RangeScope("2025/01/01", "2025/12/31"), SelectNet)
	if err != nil {
		t.Fatal(err)
	}
	if len(r.Buckets) != 0 || r.Average != 0 {
		t.Fatalf("sparse empty result %+v", r)
	}
}

func TestAggregateUnparseableDayCountsTowardTotalOnly(t *testing.T) {
	src := juneScenario()
	src.add(1, "2025/06/xx", 7, core.Expense, "snack")
	r, err := NewAggregator(src).Aggregate(context.Background(), 1, MonthScope(2025, 6), SelectExpense)
	if err != nil {
		t.Fatal(err)
	}
	if len(r.Buckets) != 30 || r.Buckets[0].Key != "1" || r.Buckets[0].Amount != 150 {
		t.Fatalf("buckets = %d, first = %+v", len(r.Buckets), r.Buckets[0])
	}
	if r.Total != 357 || r.Average != 357/30 {
		t.Fatalf("total = %d average = %d", r.Total, r.Average)
	}
}

func TestAggregateStoreFailure(t *testing.T) {
	src := &fakeSource{err: errors.New("disk I/O error")}
	for _, sel := range []Selector{SelectExpense, SelectNet} {
		_, err := NewAggregator(src).Aggregate(context.Background(), 1, MonthScope(2025, 6), sel)
		if !errors.Is(err, ErrUnavailable) {
			t.Fatalf("%s: expected ErrUnavailable, got %v", sel, err)
		}
	}
}

func TestCategoryPercentagesSumToHundred(t *testing.T) {
	src := &fakeSource{}
	amounts := []int64{1, 1, 1, 7, 13, 333}
	for i, a := range amounts {
		src.add(1, "2025/06/02", a, core.Expense, "c"+strconv.Itoa(i))
	}
	r, err := NewAggregator(src).Aggregate(context.Background(), 1, MonthScope(2025, 6), SelectExpense)
	if err != nil {
		t.Fatal(err)
	}
	var sum float64
	for i, c := range r.Categories {
		sum += c.Percentage
		if i > 0 && r.Categories[i-1].Total < c.Total {
			t.Fatalf("categories not sorted descending: %+v", r.Categories)
		}
	}
	if math.Abs(sum-100) > 0.05 {
		t.Fatalf("percentages sum to %v", sum)
	}

	if stats := CategoryStats(nil); len(stats) != 0 {
		t.Fatalf("empty stats = %+v", stats)
	}
}

func TestParseSelector(t *testing.T) {
	cases := map[string]Selector{"": SelectExpense, "expense": SelectExpense, "INCOME": SelectIncome, " net ": SelectNet}
	for in, want := range cases {
		got, err := ParseSelector(in)
		if err != nil || got != want {
			t.Fatalf("ParseSelector(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseSelector("transfer"); !errors.Is(err, ErrInvalidSelector) {
		t.Fatalf("expected ErrInvalidSelector, got %v", err)
	}
}
