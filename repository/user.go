package repository

import (
	"context"

	"github.com/tidylist/backend/domain"
)

type UserRepository interface {
	GetByAuthID(ctx context.Context, authID string) (*domain.User, error)
	Upsert(ctx context.Context, user *domain.User) error
}
