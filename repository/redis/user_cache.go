package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redislib "github.com/redis/go-redis/v9"

	"github.com/tidylist/backend/domain"
	"github.com/tidylist/backend/repository"
)

type cachedUserRepository struct {
	client *redislib.Client
	next   repository.UserRepository
	prefix string
	ttl    time.Duration
}

// NewCachedUserRepository wraps a user repository with a Redis
// read-through cache keyed by the provider auth id. Only the
// auth_id -> user resolution is cached; todo data is never cached.
func NewCachedUserRepository(client *redislib.Client, next repository.UserRepository, ttl time.Duration) repository.UserRepository {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &cachedUserRepository{
		client: client,
		next:   next,
		prefix: "user:auth:",
		ttl:    ttl,
	}
}

func (r *cachedUserRepository) GetByAuthID(ctx context.Context, authID string) (*domain.User, error) {
	if cached, err := r.client.Get(ctx, r.key(authID)).Result(); err == nil {
		var user domain.User
		if err := json.Unmarshal([]byte(cached), &user); err == nil {
			return &user, nil
		}
		// Corrupt entry: fall through to the source of truth.
		_ = r.client.Del(ctx, r.key(authID)).Err()
	}

	user, err := r.next.GetByAuthID(ctx, authID)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(user); err == nil {
		// Cache population is best effort; a redis outage must not fail reads.
		_ = r.client.Set(ctx, r.key(authID), payload, r.ttl).Err()
	}
	return user, nil
}

func (r *cachedUserRepository) Upsert(ctx context.Context, user *domain.User) error {
	if err := r.next.Upsert(ctx, user); err != nil {
		return err
	}
	// Invalidate rather than write-through so the next read reflects
	// whatever the database actually committed.
	_ = r.client.Del(ctx, r.key(user.AuthID)).Err()
	return nil
}

func (r *cachedUserRepository) key(authID string) string {
	return fmt.Sprintf("%s%s", r.prefix, authID)
}
