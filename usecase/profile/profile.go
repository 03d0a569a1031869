// Package profile orchestrates reads and partial updates of a user's own record.
package profile

import (
	"context"

	"go.uber.org/zap"

	"github.com/arjuns-sics/intelligent-learning-platform/domain"
	"github.com/arjuns-sics/intelligent-learning-platform/repository"
)

type UseCase struct {
	users  repository.UserRepository
	cache  repository.ProfileCache
	logger *zap.Logger
}

func New(users repository.UserRepository, cache repository.ProfileCache, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		users:  users,
		cache:  cache,
		logger: logger,
	}
}

// Get returns the profile for userID, read through the cache when one is wired.
func (uc *UseCase) Get(ctx context.Context, userID string) (*domain.User, error) {
	if uc.cache != nil {
		cached, err := uc.cache.Get(ctx, userID)
		if err != nil {
			uc.logger.Warn("profile cache read failed", zap.Error(err))
		} else if cached != nil {
			return cached, nil
		}
	}

	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		if err := uc.cache.Set(ctx, user); err != nil {
			uc.logger.Warn("profile cache write failed", zap.Error(err))
		}
	}
	return user, nil
}

// UpdateInput carries the whitelisted self-service fields. A nil pointer
// means "not supplied"; email, role, mastery score and the password hash are
// never touched here.
type UpdateInput struct {
	Name           *string
	ProfileImage   *string
	PreferredMedia *string
}

// Update applies only the supplied fields, re-validates the record against
// the same constraints as creation and persists it.
func (uc *UseCase) Update(ctx context.Context, userID string, in UpdateInput) (*domain.User, error) {
	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if in.Name != nil && *in.Name != "" {
		user.Name = *in.Name
	}
	if in.ProfileImage != nil {
		user.ProfileImage = in.ProfileImage
	}
	if in.PreferredMedia != nil {
		user.PreferredMedia = in.PreferredMedia
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}
	if err := uc.users.UpdateProfile(ctx, user); err != nil {
		return nil, err
	}

	if uc.cache != nil {
		if err := uc.cache.Invalidate(ctx, userID); err != nil {
			uc.logger.Warn("profile cache invalidation failed", zap.Error(err))
		}
	}

	uc.logger.Info("profile updated", zap.String("user_id", userID))
	return user, nil
}
