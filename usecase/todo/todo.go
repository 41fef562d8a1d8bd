package todo

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/tidylist/backend/domain"
	"github.com/tidylist/backend/repository"
)

type UseCase struct {
	todos  repository.TodoRepository
	users  repository.UserRepository
	logger *zap.Logger
}

func New(todos repository.TodoRepository, users repository.UserRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		todos:  todos,
		users:  users,
		logger: logger,
	}
}

// List returns the caller's todos, newest first. The owner is always
// resolved from the session identity, never from client input.
func (uc *UseCase) List(ctx context.Context, identity *domain.Identity) ([]domain.Todo, error) {
	owner, err := uc.resolveOwner(ctx, identity)
	if err != nil {
		return nil, err
	}
	return uc.todos.ListByOwner(ctx, owner.ID)
}

// Create validates and stores a new todo for the caller. The title is
// trimmed; a title that is empty after trimming is rejected before the
// store is touched, and the trimmed form is what gets persisted.
func (uc *UseCase) Create(ctx context.Context, identity *domain.Identity, title string) (*domain.Todo, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, domain.ErrEmptyTitle
	}

	owner, err := uc.resolveOwner(ctx, identity)
	if err != nil {
		return nil, err
	}

	created, err := uc.todos.Create(ctx, &domain.Todo{
		OwnerID: owner.ID,
		Title:   title,
		Status:  domain.TodoStatusPending,
	})
	if err != nil {
		uc.logger.Error("todo create failed", zap.Error(err))
		return nil, err
	}
	return created, nil
}

// Delete removes one of the caller's todos. A todo id belonging to a
// different user behaves exactly like a missing id.
func (uc *UseCase) Delete(ctx context.Context, identity *domain.Identity, id int64) error {
	owner, err := uc.resolveOwner(ctx, identity)
	if err != nil {
		return err
	}
	return uc.todos.Delete(ctx, owner.ID, id)
}

func (uc *UseCase) resolveOwner(ctx context.Context, identity *domain.Identity) (*domain.User, error) {
	if identity == nil || identity.ID == "" {
		return nil, domain.ErrUnauthorized
	}
	user, err := uc.users.GetByAuthID(ctx, identity.ID)
	if err != nil {
		return nil, err
	}
	return user, nil
}
