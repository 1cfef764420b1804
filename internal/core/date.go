package core

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the persisted form of a calendar date. It is fixed width, so
// lexicographic order equals chronological order.
const DateLayout = "2006/01/02"

// Date is a calendar date stored as "YYYY/MM/DD".
type Date string

func NewDate(year, month, day int) Date {
	return Date(fmt.Sprintf("%04d/%02d/%02d", year, month, day))
}

// DateOf returns the calendar date of t in t's location.
func DateOf(t time.Time) Date {
	return Date(t.Format(DateLayout))
}

// ParseDate accepts "YYYY/MM/DD" and "YYYY-MM-DD" and normalizes to the
// persisted layout.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{DateLayout, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return DateOf(t), nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

// Time returns midnight UTC of the date.
func (d Date) Time() (time.Time, error) {
	t, err := time.Parse(DateLayout, string(d))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, string(d))
	}
	return t, nil
}

func (d Date) Valid() bool {
	_, err := d.Time()
	return err == nil
}

// Year, Month and Day read the fixed-width fragments directly and return 0
// when the fragment is not a number.
func (d Date) Year() int  { return d.fragment(0, 4) }
func (d Date) Month() int { return d.fragment(5, 7) }
func (d Date) Day() int   { return d.fragment(8, 10) }

func (d Date) fragment(from, to int) int {
	if len(d) < to {
		return 0
	}
	n, err := strconv.Atoi(string(d[from:to]))
	if err != nil {
		return 0
	}
	return n
}

// AddDays shifts the date by n calendar days. Invalid dates are returned unchanged.
func (d Date) AddDays(n int) Date {
	t, err := d.Time()
	if err != nil {
		return d
	}
	return DateOf(t.AddDate(0, 0, n))
}

// DayLabel is the English weekday name of the date, empty when invalid.
func (d Date) DayLabel() string {
	t, err := d.Time()
	if err != nil {
		return ""
	}
	return t.Weekday().String()
}

// DaysBetween counts the calendar days from d to other, inclusive of both ends.
func (d Date) DaysBetween(other Date) (int, error) {
	a, err := d.Time()
	if err != nil {
		return 0, err
	}
	b, err := other.Time()
	if err != nil {
		return 0, err
	}
	return int(b.Sub(a).Hours()/24) + 1, nil
}

func (d Date) String() string {
	return string(d)
}

// DaysInMonth handles leap years through time normalization.
func DaysInMonth(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// MonthPrefix is the textual prefix shared by every date of a month, "2025/06/".
func MonthPrefix(year, month int) string {
	return fmt.Sprintf("%04d/%02d/", year, month)
}

// YearPrefix is the textual prefix shared by every date of a year, "2025/".
func YearPrefix(year int) string {
	return fmt.Sprintf("%04d/", year)
}
