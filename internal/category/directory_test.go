package category

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"accountbook/internal/cache"
	"accountbook/internal/core"
	"accountbook/internal/storage/memory"
)

type countingStore struct {
	*memory.Store
	calls int
	err   error
}

func (s *countingStore) CustomCategories(ctx context.Context, owner core.OwnerID) ([]core.Category, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.Store.CustomCategories(ctx, owner)
}

func newDirectory(t *testing.T) (*Directory, *countingStore) {
	t.Helper()
	store := &countingStore{Store: memory.New()}
	names := cache.NewLRUCache[core.OwnerID, map[string]string](16, time.Minute)
	return NewDirectory(store, names), store
}

func TestDirectory_DisplayName(t *testing.T) {
	ctx := context.Background()
	dir, _ := newDirectory(t)

	c, err := dir.AddCustom(ctx, 1, "  Coffee  ")
	if err != nil {
		t.Fatalf("AddCustom() error = %v", err)
	}
	if !strings.HasPrefix(c.Key, core.CustomKeyPrefix) || c.Name != "Coffee" {
		t.Fatalf("AddCustom() = %+v", c)
	}

	tests := []struct {
		name  string
		owner core.OwnerID
		key   string
		want  string
	}{
		{"built-in", 1, "lunch", "Lunch"},
		{"custom for owner", 1, c.Key, "Coffee"},
		{"custom of another owner", 2, c.Key, c.Key},
		{"empty key", 1, "", "Other"},
		{"unknown key", 1, "groceries", "groceries"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := dir.DisplayName(ctx, tt.owner, tt.key); got != tt.want {
				t.Errorf("DisplayName(%d, %q) = %q, want %q", tt.owner, tt.key, got, tt.want)
			}
		})
	}
}

func TestDirectory_CachesAndInvalidates(t *testing.T) {
	ctx := context.Background()
	dir, store := newDirectory(t)

	dir.DisplayName(ctx, 1, "lunch")
	dir.DisplayName(ctx, 1, "dinner")
	if store.calls != 1 {
		t.Fatalf("store calls = %d, want 1", store.calls)
	}

	c, err := dir.AddCustom(ctx, 1, "Books")
	if err != nil {
		t.Fatal(err)
	}
	if got := dir.DisplayName(ctx, 1, c.Key); got != "Books" {
		t.Errorf("after add: %q", got)
	}
	if store.calls != 2 {
		t.Errorf("store calls = %d, want 2 after invalidation", store.calls)
	}
}

func TestDirectory_StoreFailureFallsBack(t *testing.T) {
	ctx := context.Background()
	dir, store := newDirectory(t)
	store.err = errors.New("disk gone")

	names := dir.Names(ctx, 1)
	if got := names("rent"); got != "Rent" {
		t.Errorf("built-in fallback = %q", got)
	}
	if got := names("custom_x"); got != "custom_x" {
		t.Errorf("raw key fallback = %q", got)
	}
	if _, err := dir.List(ctx, 1); err == nil {
		t.Error("List() should surface the store error")
	}
}

func TestDirectory_List(t *testing.T) {
	ctx := context.Background()
	dir, _ := newDirectory(t)
	if _, err := dir.AddCustom(ctx, 1, ""); !errors.Is(err, core.ErrEmptyCategory) {
		t.Fatalf("empty name error = %v", err)
	}
	if _, err := dir.AddCustom(ctx, 1, "Pets"); err != nil {
		t.Fatal(err)
	}
	list, err := dir.List(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != len(core.BuiltIns())+1 || list[len(list)-1].Name != "Pets" {
		t.Errorf("List() = %+v", list)
	}
}
