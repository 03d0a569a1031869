// Package auth orchestrates registration, login and password changes.
package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/arjuns-sics/intelligent-learning-platform/domain"
	"github.com/arjuns-sics/intelligent-learning-platform/pkg/password"
	"github.com/arjuns-sics/intelligent-learning-platform/pkg/token"
	"github.com/arjuns-sics/intelligent-learning-platform/repository"
)

// MinPasswordLength applies to password changes.
const MinPasswordLength = 6

type UseCase struct {
	users  repository.UserRepository
	cache  repository.ProfileCache
	tokens *token.Issuer
	logger *zap.Logger
}

func New(users repository.UserRepository, cache repository.ProfileCache, tokens *token.Issuer, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		users:  users,
		cache:  cache,
		tokens: tokens,
		logger: logger,
	}
}

// RegisterInput is the domain-level registration payload.
type RegisterInput struct {
	Name           string
	Email          string
	Password       string
	Role           domain.Role
	PreferredMedia *string
}

// Register creates a user record with a hashed secret and issues a token.
// A duplicate email fails with a CONFLICT error; the check is backed by the
// store's uniqueness constraint, the pre-lookup only gives a cleaner message.
func (uc *UseCase) Register(ctx context.Context, in RegisterInput) (*domain.User, string, error) {
	if in.Name == "" || in.Email == "" || in.Password == "" {
		return nil, "", domain.NewError(domain.ErrCodeInvalid, "Name, email, and password are required")
	}

	email := domain.NormalizeEmail(in.Email)
	if existing, err := uc.users.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, "", domain.ErrEmailTaken
	} else if err != nil && !domain.IsDomainError(err, domain.ErrCodeNotFound) {
		return nil, "", err
	}

	hash, err := password.Hash(in.Password)
	if err != nil {
		return nil, "", err
	}

	role := in.Role
	if role == "" {
		role = domain.RoleStudent
	}

	user := &domain.User{
		ID:             uuid.NewString(),
		Name:           in.Name,
		Email:          email,
		PasswordHash:   hash,
		Role:           role,
		PreferredMedia: in.PreferredMedia,
		MasteryScore:   0,
		WeaknessTags:   []string{},
	}
	if err := user.Validate(); err != nil {
		return nil, "", err
	}

	if err := uc.users.Create(ctx, user); err != nil {
		return nil, "", err
	}

	tok, err := uc.tokens.Issue(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, "", err
	}

	uc.logger.Info("user registered",
		zap.String("user_id", user.ID),
		zap.String("role", string(user.Role)))
	return user, tok, nil
}

// Login verifies credentials and issues a token. An unknown email and a wrong
// password are indistinguishable to the caller.
func (uc *UseCase) Login(ctx context.Context, email, plaintext string) (*domain.User, string, error) {
	if email == "" || plaintext == "" {
		return nil, "", domain.NewError(domain.ErrCodeInvalid, "Email and password are required")
	}

	user, err := uc.users.GetByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			return nil, "", domain.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := password.Compare(user.PasswordHash, plaintext); err != nil {
		if errors.Is(err, password.ErrMismatch) {
			return nil, "", domain.ErrInvalidCredentials
		}
		return nil, "", err
	}

	tok, err := uc.tokens.Issue(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, "", err
	}

	uc.logger.Info("user logged in", zap.String("user_id", user.ID))
	return user, tok, nil
}

// ChangePassword re-hashes and persists a new secret after verifying the
// current one. The stored hash is untouched on any failure.
func (uc *UseCase) ChangePassword(ctx context.Context, userID, current, next string) error {
	if current == "" || next == "" {
		return domain.NewError(domain.ErrCodeInvalid, "Current password and new password are required")
	}
	if len(next) < MinPasswordLength {
		return domain.NewError(domain.ErrCodeInvalid, "New password must be at least 6 characters")
	}

	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := password.Compare(user.PasswordHash, current); err != nil {
		if errors.Is(err, password.ErrMismatch) {
			return domain.ErrWrongPassword
		}
		return err
	}

	hash, err := password.Hash(next)
	if err != nil {
		return err
	}
	if err := uc.users.UpdatePassword(ctx, userID, hash); err != nil {
		return err
	}

	uc.invalidate(ctx, userID)
	uc.logger.Info("password changed", zap.String("user_id", userID))
	return nil
}

// ListUsers returns every record, for the admin listing route.
func (uc *UseCase) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return uc.users.List(ctx)
}

func (uc *UseCase) invalidate(ctx context.Context, userID string) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.Invalidate(ctx, userID); err != nil {
		uc.logger.Warn("profile cache invalidation failed",
			zap.String("user_id", userID), zap.Error(err))
	}
}
