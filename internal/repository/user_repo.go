package repository

import (
	"context"

	"gameon/internal/model"
	"gameon/internal/store"
)

// UserRepository loads and saves the full user collection. Until the first
// save, Load returns the default seed accounts.
type UserRepository interface {
	Load(ctx context.Context) ([]model.User, error)
	Save(ctx context.Context, users []model.User) error
}

type userRepo struct {
	store store.Store
}

func NewUserRepo(s store.Store) UserRepository {
	return &userRepo{store: s}
}

func (r *userRepo) Load(ctx context.Context) ([]model.User, error) {
	return loadCollection(ctx, r.store, UsersKey, model.DefaultUsers)
}

func (r *userRepo) Save(ctx context.Context, users []model.User) error {
	return saveCollection(ctx, r.store, UsersKey, users)
}
