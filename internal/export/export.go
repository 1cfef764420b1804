// Package export renders a user's complete account book as CSV or XML.
package export

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"accountbook/internal/core"
)

// Format names an export encoding.
type Format string

const (
	FormatCSV Format = "csv"
	FormatXML Format = "xml"
)

func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatXML:
		return FormatXML, nil
	}
	return "", fmt.Errorf("unsupported export format %q", s)
}

func (f Format) ContentType() string {
	if f == FormatXML {
		return "application/xml; charset=utf-8"
	}
	return "text/csv; charset=utf-8"
}

// Bundle is everything exported for one user.
type Bundle struct {
	User         core.User
	Categories   []core.Category // custom categories only
	Transactions []core.Transaction
	// Name resolves category keys. Nil falls back to built-in names.
	Name func(key string) string
}

func (b Bundle) name(key string) string {
	if b.Name == nil {
		return core.BuiltInName(key)
	}
	return b.Name(key)
}

const utf8BOM = "\uFEFF"

// WriteCSV writes three sections separated by blank lines. Commas and line
// breaks inside free text are replaced by spaces so spreadsheet imports keep
// one row per record.
func WriteCSV(w io.Writer, b Bundle) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(utf8BOM); err != nil {
		return err
	}
	cw := csv.NewWriter(bw)
	s := b.User.Settings

	records := [][]string{
		{"--- User Profile & Settings ---"},
		{"Item", "Value"},
		{"User Name", clean(b.User.Name)},
		{"User Email", clean(b.User.Email)},
		{"Budget", strconv.FormatInt(s.Budget, 10)},
		{"Currency", clean(s.Currency)},
		{"Reminder", reminderText(s)},
		{},
		{"--- Custom Categories ---"},
	}
	if len(b.Categories) == 0 {
		records = append(records, []string{"(No Custom Categories)"})
	} else {
		records = append(records, []string{"Category Name", "Key"})
		for _, c := range b.Categories {
			records = append(records, []string{clean(c.Name), c.Key})
		}
	}
	records = append(records,
		[]string{},
		[]string{"--- Transactions ---"},
		[]string{"Date", "Day", "Type", "Category", "Item", "Amount"},
	)
	for _, t := range b.Transactions {
		records = append(records, []string{
			string(t.Date),
			t.DayLabel,
			string(t.Flow),
			clean(b.name(t.Category)),
			clean(t.Title),
			strconv.FormatInt(t.Amount, 10),
		})
	}

	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return bw.Flush()
}

// WriteXML writes the same content as WriteCSV as an XML document.
func WriteXML(w io.Writer, b Bundle) error {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := doc.CreateElement("accountbook")

	profile := root.CreateElement("profile")
	profile.CreateElement("name").SetText(b.User.Name)
	profile.CreateElement("email").SetText(b.User.Email)
	settings := profile.CreateElement("settings")
	settings.CreateElement("budget").SetText(strconv.FormatInt(b.User.Settings.Budget, 10))
	settings.CreateElement("currency").SetText(b.User.Settings.Currency)
	reminder := settings.CreateElement("reminder")
	reminder.CreateAttr("enabled", strconv.FormatBool(b.User.Settings.ReminderEnabled))
	reminder.SetText(fmt.Sprintf("%02d:%02d", b.User.Settings.ReminderHour, b.User.Settings.ReminderMinute))

	cats := root.CreateElement("categories")
	for _, c := range b.Categories {
		el := cats.CreateElement("category")
		el.CreateAttr("key", c.Key)
		el.SetText(c.Name)
	}

	txs := root.CreateElement("transactions")
	txs.CreateAttr("count", strconv.Itoa(len(b.Transactions)))
	for _, t := range b.Transactions {
		el := txs.CreateElement("transaction")
		el.CreateAttr("id", strconv.FormatInt(t.ID, 10))
		el.CreateAttr("type", string(t.Flow))
		el.CreateElement("date").SetText(string(t.Date))
		el.CreateElement("day").SetText(t.DayLabel)
		cat := el.CreateElement("category")
		cat.CreateAttr("key", t.Category)
		cat.SetText(b.name(t.Category))
		el.CreateElement("item").SetText(t.Title)
		el.CreateElement("amount").SetText(strconv.FormatInt(t.Amount, 10))
	}

	doc.Indent(2)
	if _, err := doc.WriteTo(w); err != nil {
		return fmt.Errorf("write xml: %w", err)
	}
	return nil
}

var cleaner = strings.NewReplacer(",", " ", "\r\n", " ", "\n", " ", "\r", " ")

func clean(s string) string {
	return cleaner.Replace(s)
}

func reminderText(s core.Settings) string {
	if !s.ReminderEnabled {
		return "off"
	}
	return fmt.Sprintf("%02d:%02d", s.ReminderHour, s.ReminderMinute)
}
