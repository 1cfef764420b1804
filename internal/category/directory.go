// Package category resolves category keys to display names for a user,
// combining the fixed built-in table with the user's custom categories.
package category

import (
	"context"
	"fmt"
	"log/slog"

	"accountbook/internal/cache"
	"accountbook/internal/core"
	"accountbook/internal/storage"
)

// Directory is safe for concurrent use. Custom names are cached per owner
// and the owner's entry is dropped whenever a category is added.
type Directory struct {
	store storage.CategoryStore
	names cache.Cache[core.OwnerID, map[string]string]
}

func NewDirectory(store storage.CategoryStore, names cache.Cache[core.OwnerID, map[string]string]) *Directory {
	return &Directory{store: store, names: names}
}

// Names returns a resolver bound to owner. It loads the owner's custom
// categories at most once. When they cannot be loaded the resolver still
// answers with built-in names and raw keys.
func (d *Directory) Names(ctx context.Context, owner core.OwnerID) func(key string) string {
	custom, err := d.customNames(ctx, owner)
	if err != nil {
		slog.WarnContext(ctx, "Custom categories unavailable, using built-in names",
			"owner", owner,
			"error", err)
	}
	return func(key string) string {
		if name, ok := custom[key]; ok {
			return name
		}
		return core.BuiltInName(key)
	}
}

// DisplayName resolves one key for owner.
func (d *Directory) DisplayName(ctx context.Context, owner core.OwnerID, key string) string {
	return d.Names(ctx, owner)(key)
}

// List returns the built-ins followed by the owner's custom categories.
func (d *Directory) List(ctx context.Context, owner core.OwnerID) ([]core.Category, error) {
	custom, err := d.store.CustomCategories(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("list custom categories: %w", err)
	}
	return append(core.BuiltIns(), custom...), nil
}

// AddCustom stores a new category named name and returns it with its key.
func (d *Directory) AddCustom(ctx context.Context, owner core.OwnerID, name string) (core.Category, error) {
	c, err := core.NewCustomCategory(name)
	if err != nil {
		return core.Category{}, err
	}
	if err := d.store.AddCategory(ctx, owner, c); err != nil {
		return core.Category{}, fmt.Errorf("add category: %w", err)
	}
	if d.names != nil {
		d.names.Delete(owner)
	}
	slog.InfoContext(ctx, "Custom category added", "owner", owner, "key", c.Key)
	return c, nil
}

// Forget drops any cached names for owner.
func (d *Directory) Forget(owner core.OwnerID) {
	if d.names != nil {
		d.names.Delete(owner)
	}
}

func (d *Directory) customNames(ctx context.Context, owner core.OwnerID) (map[string]string, error) {
	if d.names != nil {
		if m, ok := d.names.Get(owner); ok {
			return m, nil
		}
	}
	list, err := d.store.CustomCategories(ctx, owner)
	if err != nil {
		return nil, err
	}
	m := make(map[string]string, len(list))
	for _, c := range list {
		m[c.Key] = c.Name
	}
	if d.names != nil {
		d.names.Set(owner, m)
	}
	return m, nil
}
