package stats

import (
	"fmt"
	"strings"

	"accountbook/internal/core"
)

// Preset names a range relative to today.
type Preset string

const (
	Last7Days       Preset = "last7days"
	Last30Days      Preset = "last30days"
	ThisMonthToDate Preset = "thisMonthToDate"
)

// QuickRange returns the range scope of a preset. Ranges end today and
// include it.
func QuickRange(p Preset, today core.Date) (Scope, error) {
	if !today.Valid() {
		return Scope{}, fmt.Errorf("%w: today %q", ErrInvalidScope, today)
	}
	switch Preset(strings.TrimSpace(string(p))) {
	case Last7Days:
		return RangeScope(today.AddDays(-6), today), nil
	case Last30Days:
		return RangeScope(today.AddDays(-29), today), nil
	case ThisMonthToDate:
		return RangeScope(core.NewDate(today.Year(), today.Month(), 1), today), nil
	default:
		return Scope{}, fmt.Errorf("%w: unknown preset %q", ErrInvalidScope, p)
	}
}
