// Package items implements list operations over a persisted item collection.
//
// Every operation loads the full collection, mutates it in memory and writes
// the full collection back. Lists are short, so O(n) per call is fine.
package items

import (
	"shoplist-cli/internal/model"
)

// Store is the persistence the repository works against.
type Store interface {
	Load() ([]model.Item, error)
	Save(items []model.Item) error
	Clear() error
}

type Repository struct {
	store Store
}

func New(s Store) *Repository {
	return &Repository{store: s}
}

// Exists reports whether an item with exactly this name is stored.
func (r *Repository) Exists(name string) (bool, error) {
	items, err := r.store.Load()
	if err != nil {
		return false, err
	}
	return model.IndexOf(items, name) >= 0, nil
}

// Add appends {name, bought:false}. Callers enforce non-empty and unique names.
func (r *Repository) Add(name string) error {
	items, err := r.store.Load()
	if err != nil {
		return err
	}
	items = append(items, model.Item{Name: name})
	return r.store.Save(items)
}

// RemoveByName drops every entry with exactly this name. Removing an absent
// name leaves the stored collection untouched.
func (r *Repository) RemoveByName(name string) error {
	items, err := r.store.Load()
	if err != nil {
		return err
	}
	kept := items[:0]
	for _, it := range items {
		if it.Name != name {
			kept = append(kept, it)
		}
	}
	if len(kept) == len(items) {
		return nil
	}
	return r.store.Save(kept)
}

// SetBought updates the flag on the matching entry; no-op when absent.
// Rename drops every item named old and appends name, not bought, in a single
// save. Nothing is written when the load fails.
func (r *Repository) Rename(old, name string) error {
	items, err := r.store.Load()
	if err != nil {
		return err
	}
	kept := items[:0]
	for _, it := range items {
		if it.Name != old {
			kept = append(kept, it)
		}
	}
	kept = append(kept, model.Item{Name: name})
	return r.store.Save(kept)
}

func (r *Repository) SetBought(name string, bought bool) error {
	items, err := r.store.Load()
	if err != nil {
		return err
	}
	i := model.IndexOf(items, name)
	if i < 0 || items[i].Bought == bought {
		return nil
	}
	items[i].Bought = bought
	return r.store.Save(items)
}

func (r *Repository) Clear() error {
	return r.store.Clear()
}

func (r *Repository) List() ([]model.Item, error) {
	return r.store.Load()
}

// Get returns the stored item with this name.
func (r *Repository) Get(name string) (model.Item, bool, error) {
	items, err := r.store.Load()
	if err != nil {
		return model.Item{}, false, err
	}
	i := model.IndexOf(items, name)
	if i < 0 {
		return model.Item{}, false, nil
	}
	return items[i], true, nil
}

// ReplaceAll overwrites the stored collection, used by import.
func (r *Repository) ReplaceAll(items []model.Item) error {
	return r.store.Save(items)
}
