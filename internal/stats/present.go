package stats

import "accountbook/internal/core"

// Palette holds the legend colors. Categories take them by position.
var Palette = []string{"#7CB9E8", "#81C784", "#E57373", "#EAC45D", "#BA68C8", "#FF8A65"}

type Point struct {
	Label  string `json:"label"`
	Amount int64  `json:"amount"`
}

type LegendEntry struct {
	Key        string  `json:"key"`
	Name       string  `json:"name"`
	Total      int64   `json:"total"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
	ColorIndex int     `json:"color_index"`
	Color      string  `json:"color"`
}

// Series is a Result reshaped for a chart.
type Series struct {
	Scope        Scope         `json:"scope"`
	Flow         Selector      `json:"flow"`
	Points       []Point       `json:"points"`
	Total        int64         `json:"total"`
	TotalLabel   string        `json:"total_label"`
	Average      int64         `json:"average"`
	AverageLabel string        `json:"average_label"`
	Legend       []LegendEntry `json:"legend"`
}

// Present relabels a result. name resolves category keys to display names
// and may be nil, in which case built-in names are used.
func Present(r Result, name func(key string) string, currency string) Series {
	if name == nil {
		name = core.BuiltInName
	}

	s := Series{
		Scope:        r.Scope,
		Flow:         r.Selector,
		Points:       make([]Point, 0, len(r.Buckets)),
		Total:        r.Total,
		TotalLabel:   core.FormatAmount(currency, r.Total),
		Average:      r.Average,
		AverageLabel: core.FormatAmount(currency, r.Average),
		Legend:       make([]LegendEntry, 0, len(r.Categories)),
	}

	for _, b := range r.Buckets {
		s.Points = append(s.Points, Point{Label: BucketLabel(r.Scope.Mode, b.Key), Amount: b.Amount})
	}

	for i, c := range r.Categories {
		idx := i % len(Palette)
		s.Legend = append(s.Legend, LegendEntry{
			Key:        c.Key,
			Name:       name(c.Key),
			Total:      c.Total,
			Count:      c.Count,
			Percentage: c.Percentage,
			ColorIndex: idx,
			Color:      Palette[idx],
		})
	}
	return s
}

// BucketLabel trims range keys "YYYY/MM/DD" to "MM/DD". Day and month keys
// are already labels.
func BucketLabel(mode Mode, key string) string {
	if mode == ModeRange && len(key) > 5 {
		return key[5:]
	}
	return key
}
