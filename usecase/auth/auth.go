package auth

import (
	"context"

	"go.uber.org/zap"

	"github.com/tidylist/backend/domain"
	"github.com/tidylist/backend/repository"
)

// Provider exchanges credentials for a verified identity.
type Provider interface {
	SignIn(ctx context.Context, email, password string) (*domain.Identity, error)
}

type UseCase struct {
	provider Provider
	users    repository.UserRepository
	logger   *zap.Logger
}

func New(provider Provider, users repository.UserRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		provider: provider,
		users:    users,
		logger:   logger,
	}
}

// SignIn delegates credential verification to the identity provider and
// makes sure a local user row exists for the verified identity. Todos
// hang off that local row, keyed by the provider's identity id.
func (uc *UseCase) SignIn(ctx context.Context, email, password string) (*domain.Identity, error) {
	identity, err := uc.provider.SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		AuthID: identity.ID,
		Email:  identity.Email,
	}
	if err := uc.users.Upsert(ctx, user); err != nil {
		uc.logger.Error("local user upsert failed", zap.Error(err))
		return nil, domain.WrapError(domain.ErrCodeUnavailable, "sign-in failed, please try again", err)
	}

	uc.logger.Info("user signed in", zap.String("auth_id", identity.ID))
	return identity, nil
}
