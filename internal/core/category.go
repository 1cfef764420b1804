package core

import (
	"strings"

	"github.com/google/uuid"
)

// CategoryKind tags a Category as one of the fixed built-ins or a user-defined one.
type CategoryKind int

const (
	BuiltIn CategoryKind = iota
	Custom
)

// CustomKeyPrefix marks keys created by users.
const CustomKeyPrefix = "custom_"

// OtherCategory is the fallback key for rows stored without a category.
const OtherCategory = "other"

type Category struct {
	Kind CategoryKind
	Key  string
	Name string
	// Flow is the default flow a built-in is offered for. Custom categories
	// can be used with either flow and leave it empty.
	Flow FlowType
}

var builtIns = []Category{
	{Kind: BuiltIn, Key: "breakfast", Name: "Breakfast", Flow: Expense},
	{Kind: BuiltIn, Key: "lunch", Name: "Lunch", Flow: Expense},
	{Kind: BuiltIn, Key: "dinner", Name: "Dinner", Flow: Expense},
	{Kind: BuiltIn, Key: "drink", Name: "Drinks", Flow: Expense},
	{Kind: BuiltIn, Key: "snack", Name: "Snacks", Flow: Expense},
	{Kind: BuiltIn, Key: "traffic", Name: "Transport", Flow: Expense},
	{Kind: BuiltIn, Key: "shopping", Name: "Shopping", Flow: Expense},
	{Kind: BuiltIn, Key: "daily", Name: "Daily Necessities", Flow: Expense},
	{Kind: BuiltIn, Key: "entertainment", Name: "Entertainment", Flow: Expense},
	{Kind: BuiltIn, Key: "rent", Name: "Rent", Flow: Expense},
	{Kind: BuiltIn, Key: "bills", Name: "Bills", Flow: Expense},
	{Kind: BuiltIn, Key: OtherCategory, Name: "Other", Flow: Expense},
	{Kind: BuiltIn, Key: "salary", Name: "Salary", Flow: Income},
	{Kind: BuiltIn, Key: "bonus", Name: "Bonus", Flow: Income},
	{Kind: BuiltIn, Key: "rewards", Name: "Rewards", Flow: Income},
}

var builtInByKey = func() map[string]Category {
	m := make(map[string]Category, len(builtIns))
	for _, c := range builtIns {
		m[c.Key] = c
	}
	return m
}()

// BuiltIns returns a copy of the fixed categories in display order.
func BuiltIns() []Category {
	return append([]Category(nil), builtIns...)
}

// BuiltInsFor returns the built-ins offered for a flow.
func BuiltInsFor(flow FlowType) []Category {
	var out []Category
	for _, c := range builtIns {
		if c.Flow == flow {
			out = append(out, c)
		}
	}
	return out
}

func LookupBuiltIn(key string) (Category, bool) {
	c, ok := builtInByKey[key]
	return c, ok
}

func IsCustomKey(key string) bool {
	return strings.HasPrefix(key, CustomKeyPrefix)
}

// NewCustomCategory creates a user-defined category with a fresh key.
func NewCustomCategory(name string) (Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Category{}, ErrEmptyCategory
	}
	return Category{
		Kind: Custom,
		Key:  CustomKeyPrefix + uuid.NewString(),
		Name: name,
	}, nil
}

// BuiltInName resolves a key against the fixed table only. An empty key maps
// to "Other" and an unknown key is returned as is.
func BuiltInName(key string) string {
	if strings.TrimSpace(key) == "" {
		return builtInByKey[OtherCategory].Name
	}
	if c, ok := builtInByKey[key]; ok {
		return c.Name
	}
	return key
}
