package core

// BudgetSummary compares a month's expenses with the user's budget.
type BudgetSummary struct {
	Budget           int64  `json:"budget"`
	Spent            int64  `json:"spent"`
	Remaining        int64  `json:"remaining"`
	PercentRemaining int    `json:"percent_remaining"`
	Currency         string `json:"currency"`
}

// NewBudgetSummary computes the remaining share of the budget, clamped to 0..100.
// A zero budget reports 0 percent remaining.
func NewBudgetSummary(budget, spent int64, currency string) BudgetSummary {
	s := BudgetSummary{
		Budget:    budget,
		Spent:     spent,
		Remaining: budget - spent,
		Currency:  currency,
	}
	if budget > 0 {
		pct := s.Remaining * 100 / budget
		switch {
		case pct < 0:
			pct = 0
		case pct > 100:
			pct = 100
		}
		s.PercentRemaining = int(pct)
	}
	return s
}
