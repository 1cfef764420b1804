package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"accountbook/internal/core"
	"accountbook/internal/stats"
)

// maxBodyBytes bounds every JSON request body.
const maxBodyBytes = 1 << 20

var errBadRequest = errors.New("malformed request")

// ParseScope reads mode, year, month, start and end from query. Missing
// year and month default to today's; range mode requires both bounds.
func ParseScope(query url.Values, today core.Date) (stats.Scope, error) {
	mode := stats.Mode(strings.ToLower(strings.TrimSpace(query.Get("mode"))))
	if mode == "" {
		mode = stats.ModeDay
	}

	switch mode {
	case stats.ModeDay:
		year, err := intParam(query, "year", today.Year())
		if err != nil {
			return stats.Scope{}, err
		}
		month, err := intParam(query, "month", today.Month())
		if err != nil {
			return stats.Scope{}, err
		}
		return stats.MonthScope(year, month), nil

	case stats.ModeMonth:
		year, err := intParam(query, "year", today.Year())
		if err != nil {
			return stats.Scope{}, err
		}
		return stats.YearScope(year), nil

	case stats.ModeRange:
		start, err := core.ParseDate(query.Get("start"))
		if err != nil {
			return stats.Scope{}, fmt.Errorf("%w: start: %w", stats.ErrInvalidScope, err)
		}
		end, err := core.ParseDate(query.Get("end"))
		if err != nil {
			return stats.Scope{}, fmt.Errorf("%w: end: %w", stats.ErrInvalidScope, err)
		}
		return stats.RangeScope(start, end), nil
	}
	return stats.Scope{}, fmt.Errorf("%w: unknown mode %q", stats.ErrInvalidScope, mode)
}

func intParam(query url.Values, key string, fallback int) (int, error) {
	v := strings.TrimSpace(query.Get(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q", stats.ErrInvalidScope, key, v)
	}
	return n, nil
}

// ParseSelector defaults to expense when flow is absent.
func ParseSelector(query url.Values) (stats.Selector, error) {
	v := strings.TrimSpace(query.Get("flow"))
	if v == "" {
		return stats.SelectExpense, nil
	}
	return stats.ParseSelector(v)
}

// parseID reads the {id} path segment.
func parseID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: id %q", errBadRequest, r.PathValue("id"))
	}
	return id, nil
}

// decodeJSON reads one JSON object into dst and rejects unknown fields.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %w", errBadRequest, err)
	}
	return nil
}

// sanitizeInput drops control characters except tab.
func sanitizeInput(s string) string {
	return strings.Map(func(r rune) rune {
		if (r < 0x20 && r != '\t') || r == 0x7f {
			return -1
		}
		return r
	}, strings.TrimSpace(s))
}

// amountValue accepts a JSON number or a string such as "1,500".
type amountValue string

func (a *amountValue) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if unq, err := strconv.Unquote(s); err == nil {
		s = unq
	}
	*a = amountValue(s)
	return nil
}

func (a amountValue) parse() (int64, error) {
	return core.ParseAmount(string(a))
}
