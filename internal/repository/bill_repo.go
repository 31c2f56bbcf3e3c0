package repository

import (
	"context"

	"gameon/internal/model"
	"gameon/internal/store"
)

// BillRepository loads and saves the full bill collection.
type BillRepository interface {
	Load(ctx context.Context) ([]model.Bill, error)
	Save(ctx context.Context, bills []model.Bill) error
}

type billRepo struct {
	store store.Store
}

func NewBillRepo(s store.Store) BillRepository {
	return &billRepo{store: s}
}

func (r *billRepo) Load(ctx context.Context) ([]model.Bill, error) {
	return loadCollection(ctx, r.store, BillsKey, func() []model.Bill { return []model.Bill{} })
}

func (r *billRepo) Save(ctx context.Context, bills []model.Bill) error {
	return saveCollection(ctx, r.store, BillsKey, bills)
}
