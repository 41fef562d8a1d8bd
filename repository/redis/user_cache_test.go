package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redislib "github.com/redis/go-redis/v9"

	"github.com/tidylist/backend/domain"
)

type countingUserRepo struct {
	gets  int
	users map[string]*domain.User
}

func (r *countingUserRepo) GetByAuthID(_ context.Context, authID string) (*domain.User, error) {
	r.gets++
	user, ok := r.users[authID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *countingUserRepo) Upsert(_ context.Context, user *domain.User) error {
	if r.users == nil {
		r.users = map[string]*domain.User{}
	}
	copied := *user
	r.users[user.AuthID] = &copied
	return nil
}

func newCacheTest(t *testing.T) (*cachedUserRepository, *countingUserRepo, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis start: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redislib.NewClient(&redislib.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	next := &countingUserRepo{users: map[string]*domain.User{}}
	repo := NewCachedUserRepository(client, next, time.Minute).(*cachedUserRepository)
	return repo, next, mr
}

func TestGetByAuthIDReadThrough(t *testing.T) {
	repo, next, _ := newCacheTest(t)
	ctx := context.Background()

	seed := &domain.User{ID: "local-1", AuthID: "auth-1", Email: "a@example.com"}
	next.users["auth-1"] = seed

	first, err := repo.GetByAuthID(ctx, "auth-1")
	if err != nil {
		t.Fatalf("first get: %v", err)
	}
	second, err := repo.GetByAuthID(ctx, "auth-1")
	if err != nil {
		t.Fatalf("second get: %v", err)
	}

	if next.gets != 1 {
		t.Fatalf("source hit %d times, want 1", next.gets)
	}
	if first.ID != second.ID || second.ID != "local-1" {
		t.Fatalf("cache returned different user: %+v vs %+v", first, second)
	}
}

func TestGetByAuthIDMissIsNotCached(t *testing.T) {
	repo, next, _ := newCacheTest(t)
	ctx := context.Background()

	if _, err := repo.GetByAuthID(ctx, "nobody"); err == nil {
		t.Fatalf("expected not found")
	}
	if _, err := repo.GetByAuthID(ctx, "nobody"); err == nil {
		t.Fatalf("expected not found")
	}
	if next.gets != 2 {
		t.Fatalf("source hit %d times, want 2 (misses not cached)", next.gets)
	}
}

func TestUpsertInvalidatesCache(t *testing.T) {
	repo, next, _ := newCacheTest(t)
	ctx := context.Background()

	next.users["auth-1"] = &domain.User{ID: "local-1", AuthID: "auth-1", Email: "old@example.com"}
	if _, err := repo.GetByAuthID(ctx, "auth-1"); err != nil {
		t.Fatalf("warm cache: %v", err)
	}

	if err := repo.Upsert(ctx, &domain.User{ID: "local-1", AuthID: "auth-1", Email: "new@example.com"}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	user, err := repo.GetByAuthID(ctx, "auth-1")
	if err != nil {
		t.Fatalf("get after upsert: %v", err)
	}
	if user.Email != "new@example.com" {
		t.Fatalf("stale cache entry survived upsert: %+v", user)
	}
}

func TestCorruptCacheEntryFallsThrough(t *testing.T) {
	repo, next, mr := newCacheTest(t)
	ctx := context.Background()

	next.users["auth-1"] = &domain.User{ID: "local-1", AuthID: "auth-1"}
	if err := mr.Set(repo.key("auth-1"), "{not json"); err != nil {
		t.Fatalf("seed corrupt entry: %v", err)
	}

	user, err := repo.GetByAuthID(ctx, "auth-1")
	if err != nil {
		t.Fatalf("get with corrupt cache: %v", err)
	}
	if user.ID != "local-1" {
		t.Fatalf("unexpected user: %+v", user)
	}
	if next.gets != 1 {
		t.Fatalf("source hit %d times, want 1", next.gets)
	}
}
