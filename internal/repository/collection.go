package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gameon/internal/store"
)

// Storage keys of the two persisted collections.
const (
	BillsKey = "bills"
	UsersKey = "users"
)

// loadCollection decodes the JSON array under key, or returns fallback when
// the key has never been written.
func loadCollection[T any](ctx context.Context, s store.Store, key string, fallback func() []T) ([]T, error) {
	data, err := s.Get(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		return fallback(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", key, err)
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// saveCollection replaces the whole value under key.
func saveCollection[T any](ctx context.Context, s store.Store, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.Put(ctx, key, data); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}
