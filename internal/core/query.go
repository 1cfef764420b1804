package core

import "strings"

// DateFilter restricts a query to a calendar period. Either Prefix is set
// (every date starting with it, "2025/06/") or From/To give a closed interval.
// The zero value matches everything.
type DateFilter struct {
	Prefix string
	From   Date
	To     Date
}

func PrefixFilter(prefix string) DateFilter {
	return DateFilter{Prefix: prefix}
}

func RangeFilter(from, to Date) DateFilter {
	return DateFilter{From: from, To: to}
}

func (f DateFilter) IsZero() bool {
	return f.Prefix == "" && f.From == "" && f.To == ""
}

// Matches compares textually, which is chronological for the persisted layout.
func (f DateFilter) Matches(d Date) bool {
	if f.Prefix != "" && !strings.HasPrefix(string(d), f.Prefix) {
		return false
	}
	if f.From != "" && d < f.From {
		return false
	}
	if f.To != "" && d > f.To {
		return false
	}
	return true
}

// TransactionQuery selects an owner's rows. Empty Flow and Category mean any.
type TransactionQuery struct {
	Owner    OwnerID
	Flow     FlowType
	Category string
	Dates    DateFilter
}

func (q TransactionQuery) Matches(t Transaction) bool {
	if t.Owner != q.Owner {
		return false
	}
	if q.Flow != "" && t.Flow != q.Flow {
		return false
	}
	if q.Category != "" && t.Category != q.Category {
		return false
	}
	return q.Dates.Matches(t.Date)
}
