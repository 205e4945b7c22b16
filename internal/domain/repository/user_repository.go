package repository

import (
	"context"
	"fmt"

	"learnhub/internal/common"
	"learnhub/internal/domain/model"
	"learnhub/internal/platform/store"
)

type UserRepository interface {
	All(ctx context.Context) ([]model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	Create(ctx context.Context, user *model.User) error
}

// kvUserRepository keeps the whole user directory as one persisted
// document, the local stand-in for a credential database.
type kvUserRepository struct {
	store store.Store
	key   string
}

func NewKVUserRepository(s store.Store, keyPrefix string) UserRepository {
	return &kvUserRepository{store: s, key: keyPrefix + ":users"}
}

func emptyDirectory() []model.User { return []model.User{} }

func (r *kvUserRepository) All(ctx context.Context) ([]model.User, error) {
	users, err := loadDocument(ctx, r.store, r.key, emptyDirectory)
	if err != nil {
		return nil, fmt.Errorf("kvUserRepository.All: %w", err)
	}
	return users, nil
}

func (r *kvUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	users, err := r.All(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].Email == email {
			return &users[i], nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *kvUserRepository) Create(ctx context.Context, user *model.User) error {
	users, err := r.All(ctx)
	if err != nil {
		return fmt.Errorf("kvUserRepository.Create: %w", err)
	}
	for _, existing := range users {
		if existing.Email == user.Email {
			return fmt.Errorf("user with this email already exists: %w", common.ErrConflict)
		}
	}
	users = append(users, *user)
	if err := saveDocument(ctx, r.store, r.key, users); err != nil {
		return fmt.Errorf("kvUserRepository.Create: %w", err)
	}
	return nil
}
