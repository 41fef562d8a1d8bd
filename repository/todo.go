package repository

import (
	"context"

	"github.com/tidylist/backend/domain"
)

type TodoRepository interface {
	// ListByOwner returns the owner's todos, newest first (id descending).
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Todo, error)
	Create(ctx context.Context, todo *domain.Todo) (*domain.Todo, error)
	// Delete removes a todo only when it belongs to ownerID. A todo that
	// does not exist and a todo owned by someone else both yield
	// domain.ErrTodoNotFound; the ownership filter lives in the query.
	Delete(ctx context.Context, ownerID string, id int64) error
}
