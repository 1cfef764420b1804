// Package core provides the domain types of the account book.
//
// This file contains amount parsing and display formatting. Amounts are
// integral values in the smallest display unit of the user's currency.
package core

import (
	"strconv"
	"strings"
	"unicode"
)

// ParseAmount converts user input to a positive integral amount.
//
// Thousands separators (comma, space, underscore) are ignored. Signs, zero
// and anything with a decimal point are rejected.
//
// Examples:
//
//	ParseAmount("1500")   -> 1500, nil
//	ParseAmount("1,500")  -> 1500, nil
//	ParseAmount("12.5")   -> 0, ErrInvalidAmount
//	ParseAmount("-5")     -> 0, ErrInvalidAmount
func ParseAmount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	var b strings.Builder
	for _, r := range s {
		switch {
		case unicode.IsDigit(r):
			b.WriteRune(r)
		case r == ',' || r == ' ' || r == '_':
			// separator
		default:
			return 0, ErrInvalidAmount
		}
	}
	if b.Len() == 0 {
		return 0, ErrInvalidAmount
	}
	v, err := strconv.ParseInt(b.String(), 10, 64)
	if err != nil || v <= 0 {
		return 0, ErrInvalidAmount
	}
	return v, nil
}

// FormatAmount renders a signed amount with the currency symbol. The minus
// sign is only written for negative values: "-NT$200", "NT$150".
func FormatAmount(currency string, v int64) string {
	if v < 0 {
		return "-" + currency + strconv.FormatInt(-v, 10)
	}
	return currency + strconv.FormatInt(v, 10)
}
