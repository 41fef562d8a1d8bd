package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tidylist/backend/domain"
	"github.com/tidylist/backend/repository"
)

type todoRepository struct {
	pool *pgxpool.Pool
}

// NewTodoRepository returns a Postgres-backed implementation of TodoRepository.
func NewTodoRepository(pool *pgxpool.Pool) repository.TodoRepository {
	return &todoRepository{pool: pool}
}

func (r *todoRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Todo, error) {
	const query = `
	SELECT id, user_id, title, status, created_at
	FROM todos
	WHERE user_id = $1
	ORDER BY id DESC
	`
	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, domain.WrapError(domain.ErrCodeUnavailable, "todo list failed", err)
	}
	defer rows.Close()

	var todos []domain.Todo
	for rows.Next() {
		var todo domain.Todo
		if err := rows.Scan(&todo.ID, &todo.OwnerID, &todo.Title, &todo.Status, &todo.CreatedAt); err != nil {
			return nil, domain.WrapError(domain.ErrCodeUnavailable, "todo scan failed", err)
		}
		todos = append(todos, todo)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.WrapError(domain.ErrCodeUnavailable, "todo list failed", err)
	}
	return todos, nil
}

func (r *todoRepository) Create(ctx context.Context, todo *domain.Todo) (*domain.Todo, error) {
	if todo == nil || todo.OwnerID == "" {
		return nil, domain.ErrInvalidPayload
	}
	if todo.Status == "" {
		todo.Status = domain.TodoStatusPending
	}

	const query = `
	INSERT INTO todos (user_id, title, status)
	VALUES ($1, $2, $3)
	RETURNING id, created_at
	`
	if err := r.pool.QueryRow(ctx, query,
		todo.OwnerID,
		todo.Title,
		todo.Status,
	).Scan(&todo.ID, &todo.CreatedAt); err != nil {
		return nil, domain.WrapError(domain.ErrCodeUnavailable, "todo create failed", err)
	}

	return todo, nil
}

func (r *todoRepository) Delete(ctx context.Context, ownerID string, id int64) error {
	// Ownership is part of the predicate: deleting someone else's row is
	// indistinguishable from deleting a row that never existed.
	const query = `DELETE FROM todos WHERE id = $1 AND user_id = $2`
	tag, err := r.pool.Exec(ctx, query, id, ownerID)
	if err != nil {
		return domain.WrapError(domain.ErrCodeUnavailable, "todo delete failed", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTodoNotFound
	}
	return nil
}
