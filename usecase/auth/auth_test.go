package auth

import (
	"context"
	"testing"

	"github.com/tidylist/backend/domain"
)

type stubProvider struct {
	identity *domain.Identity
	err      error
}

func (p *stubProvider) SignIn(context.Context, string, string) (*domain.Identity, error) {
	return p.identity, p.err
}

type recordingUserRepo struct {
	upserts []domain.User
	err     error
}

func (r *recordingUserRepo) GetByAuthID(_ context.Context, authID string) (*domain.User, error) {
	for _, u := range r.upserts {
		if u.AuthID == authID {
			copied := u
			return &copied, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *recordingUserRepo) Upsert(_ context.Context, user *domain.User) error {
	if r.err != nil {
		return r.err
	}
	user.ID = "local-1"
	r.upserts = append(r.upserts, *user)
	return nil
}

func TestSignInUpsertsLocalUser(t *testing.T) {
	users := &recordingUserRepo{}
	uc := New(&stubProvider{identity: &domain.Identity{ID: "auth-1", Email: "a@example.com"}}, users, nil)

	identity, err := uc.SignIn(context.Background(), "a@example.com", "pw")
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}
	if identity.ID != "auth-1" {
		t.Fatalf("identity = %+v", identity)
	}
	if len(users.upserts) != 1 {
		t.Fatalf("upserts = %d, want 1", len(users.upserts))
	}
	if got := users.upserts[0]; got.AuthID != "auth-1" || got.Email != "a@example.com" {
		t.Fatalf("unexpected local user: %+v", got)
	}
}

func TestSignInProviderErrorPropagatesUntouched(t *testing.T) {
	providerErr := domain.NewError(domain.ErrCodeUnauthorized, "Invalid login credentials")
	users := &recordingUserRepo{}
	uc := New(&stubProvider{err: providerErr}, users, nil)

	_, err := uc.SignIn(context.Background(), "a@example.com", "bad")
	if err != providerErr {
		t.Fatalf("error = %v, want the provider's error", err)
	}
	if len(users.upserts) != 0 {
		t.Fatalf("user created despite rejected credentials")
	}
}

func TestSignInUpsertFailureIsRetryable(t *testing.T) {
	users := &recordingUserRepo{err: domain.ErrStoreFailure}
	uc := New(&stubProvider{identity: &domain.Identity{ID: "auth-1"}}, users, nil)

	_, err := uc.SignIn(context.Background(), "a@example.com", "pw")
	if !domain.IsDomainError(err, domain.ErrCodeUnavailable) {
		t.Fatalf("error = %v, want unavailable", err)
	}
}
