package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tidylist/backend/domain"
	"github.com/tidylist/backend/repository"
)

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository instantiates a Postgres-backed user repository.
func NewUserRepository(pool *pgxpool.Pool) repository.UserRepository {
	return &userRepository{pool: pool}
}

func (r *userRepository) GetByAuthID(ctx context.Context, authID string) (*domain.User, error) {
	const query = `
	SELECT id, auth_id, email, created_at, updated_at
	FROM users
	WHERE auth_id = $1
	`
	row := r.pool.QueryRow(ctx, query, authID)

	var user domain.User
	if err := row.Scan(&user.ID, &user.AuthID, &user.Email, &user.CreatedAt, &user.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, domain.WrapError(domain.ErrCodeUnavailable, "user lookup failed", err)
	}

	return &user, nil
}

func (r *userRepository) Upsert(ctx context.Context, user *domain.User) error {
	if user == nil || user.AuthID == "" {
		return domain.ErrInvalidPayload
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO users (id, auth_id, email, created_at, updated_at)
	VALUES ($1, $2, $3, NOW(), NOW())
	ON CONFLICT (auth_id) DO UPDATE
	SET email = EXCLUDED.email,
		updated_at = NOW()
	RETURNING id, created_at, updated_at
	`

	var createdAt, updatedAt time.Time
	if err := r.pool.QueryRow(ctx, query,
		user.ID,
		user.AuthID,
		user.Email,
	).Scan(&user.ID, &createdAt, &updatedAt); err != nil {
		return domain.WrapError(domain.ErrCodeUnavailable, "user upsert failed", err)
	}

	user.CreatedAt = createdAt
	user.UpdatedAt = updatedAt
	return nil
}
