package google

import (
	"fmt"
	"strconv"
	"strings"

	"accountbook/internal/core"
)

// Header is the first row of the mirror sheet. Column A holds the ID.
var Header = []any{"ID", "Owner", "Date", "Day", "Type", "Category", "Item", "Amount"}

const lastColumn = "H"

// rowValues is the sheet row written for t.
func rowValues(t core.Transaction) []any {
	return []any{
		t.ID,
		int64(t.Owner),
		string(t.Date),
		t.DayLabel,
		string(t.Flow),
		t.Category,
		t.Title,
		t.Amount,
	}
}

// findRow returns the 1-based row whose first cell equals id, or 0. values
// is column A starting at row 1.
func findRow(values [][]any, id int64) int {
	want := strconv.FormatInt(id, 10)
	for i, row := range values {
		if len(row) == 0 {
			continue
		}
		if normalizeID(fmt.Sprint(row[0])) == want {
			return i + 1
		}
	}
	return 0
}

// normalizeID accepts numbers rendered by Sheets as "12" or "12.0".
func normalizeID(s string) string {
	s = strings.TrimSpace(s)
	if f, err := strconv.ParseFloat(s, 64); err == nil && f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return s
}

// rowRange is the A:H range of a single row.
func rowRange(sheet string, row int) string {
	return fmt.Sprintf("%s!A%d:%s%d", sheet, row, lastColumn, row)
}

func needsHeader(values [][]any) bool {
	if len(values) == 0 || len(values[0]) == 0 {
		return true
	}
	return !strings.EqualFold(strings.TrimSpace(fmt.Sprint(values[0][0])), "ID")
}
