package repository

import (
	"context"

	"github.com/arjuns-sics/intelligent-learning-platform/domain"
)

// ProfileCache is a read-through cache in front of the user store. A miss is
// reported as (nil, nil); cache failures are never fatal to the request path,
// callers fall back to the repository.
type ProfileCache interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
	Set(ctx context.Context, user *domain.User) error
	Invalidate(ctx context.Context, userID string) error
}
