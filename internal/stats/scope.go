// Package stats turns an owner's transactions into time-bucketed and
// category-bucketed summaries.
//
// A Scope names a calendar period and a granularity. Resolve turns it into
// the ordered bucket keys and the date filter the store is queried with.
// The Aggregator sums rows into those buckets and Present relabels the
// result for display.
package stats

import (
	"errors"
	"fmt"
	"strconv"

	"accountbook/internal/core"
)

type Mode string

const (
	// ModeDay buckets a single month by day of month.
	ModeDay Mode = "day"
	// ModeMonth buckets a single year by month.
	ModeMonth Mode = "month"
	// ModeRange buckets a closed date interval by calendar date.
	ModeRange Mode = "range"
)

// DenseRangeLimit is the longest range, in days, that gets one bucket per
// calendar date. Longer ranges only get buckets for dates with data.
const DenseRangeLimit = 60

// ErrInvalidScope is returned for parameters that cannot describe a calendar period.
var ErrInvalidScope = errors.New("invalid scope")

// Scope selects a period. Only the fields of the active mode are read.
type Scope struct {
	Mode  Mode      `json:"mode"`
	Year  int       `json:"year,omitempty"`
	Month int       `json:"month,omitempty"`
	Start core.Date `json:"start,omitempty"`
	End   core.Date `json:"end,omitempty"`
}

// MonthScope buckets every day of one month.
func MonthScope(year, month int) Scope {
	return Scope{Mode: ModeDay, Year: year, Month: month}
}

// YearScope buckets the twelve months of one year.
func YearScope(year int) Scope {
	return Scope{Mode: ModeMonth, Year: year}
}

// RangeScope buckets the dates of [start, end]. Inverted bounds are swapped
// when the scope is resolved.
func RangeScope(start, end core.Date) Scope {
	return Scope{Mode: ModeRange, Start: start, End: end}
}

// Resolution is a resolved scope.
type Resolution struct {
	Mode Mode
	// Keys are the ordered bucket keys. Nil when Sparse is set, in which
	// case the keys are the distinct dates found in the data.
	Keys   []string
	Sparse bool
	Filter core.DateFilter
	// Start and End are the normalized bounds of a range scope.
	Start core.Date
	End   core.Date
}

// Resolve validates the scope and computes its buckets and date filter.
func Resolve(s Scope) (Resolution, error) {
	switch s.Mode {
	case ModeDay:
		if s.Year < 1 || s.Month < 1 || s.Month > 12 {
			return Resolution{}, fmt.Errorf("%w: month %d/%d", ErrInvalidScope, s.Year, s.Month)
		}
		return Resolution{
			Mode:   ModeDay,
			Keys:   numberedKeys(core.DaysInMonth(s.Year, s.Month)),
			Filter: core.PrefixFilter(core.MonthPrefix(s.Year, s.Month)),
		}, nil

	case ModeMonth:
		if s.Year < 1 {
			return Resolution{}, fmt.Errorf("%w: year %d", ErrInvalidScope, s.Year)
		}
		return Resolution{
			Mode:   ModeMonth,
			Keys:   numberedKeys(12),
			Filter: core.PrefixFilter(core.YearPrefix(s.Year)),
		}, nil

	case ModeRange:
		start, end := s.Start, s.End
		if !start.Valid() || !end.Valid() {
			return Resolution{}, fmt.Errorf("%w: range %q..%q", ErrInvalidScope, start, end)
		}
		if end < start {
			start, end = end, start
		}
		days, err := start.DaysBetween(end)
		if err != nil {
			return Resolution{}, fmt.Errorf("%w: %w", ErrInvalidScope, err)
		}
		r := Resolution{
			Mode:   ModeRange,
			Filter: core.RangeFilter(start, end),
			Start:  start,
			End:    end,
		}
		if days > DenseRangeLimit {
			r.Sparse = true
			return r, nil
		}
		r.Keys = make([]string, 0, days)
		for d := start; d <= end; d = d.AddDays(1) {
			r.Keys = append(r.Keys, string(d))
		}
		return r, nil

	default:
		return Resolution{}, fmt.Errorf("%w: unknown mode %q", ErrInvalidScope, s.Mode)
	}
}

// KeyOf returns the bucket key a stored date falls into. Unparseable
// fragments yield "0".
func (r Resolution) KeyOf(d core.Date) string {
	switch r.Mode {
	case ModeDay:
		return strconv.Itoa(d.Day())
	case ModeMonth:
		return strconv.Itoa(d.Month())
	default:
		return string(d)
	}
}

func numberedKeys(n int) []string {
	keys := make([]string, n)
	for i := range keys {
		keys[i] = strconv.Itoa(i + 1)
	}
	return keys
}
