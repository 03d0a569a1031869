package repository

import (
	"context"

	"github.com/arjuns-sics/intelligent-learning-platform/domain"
)

// UserRepository persists credential and profile records. Email uniqueness is
// enforced by the store itself, not by application-level coordination.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	// UpdateProfile writes only the self-service profile attributes
	// (name, profile_image, preferred_media) plus the modification timestamp.
	UpdateProfile(ctx context.Context, user *domain.User) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	List(ctx context.Context) ([]*domain.User, error)
}
