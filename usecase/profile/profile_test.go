package profile

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arjuns-sics/intelligent-learning-platform/domain"
)

type fakeUserRepo struct {
	byID map[string]*domain.User

	profileWrites  int
	passwordWrites int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: make(map[string]*domain.User)}
}

func (r *fakeUserRepo) seed(user domain.User) {
	clone := user
	r.byID[user.ID] = &clone
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	r.seed(*user)
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *user
	return &clone, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range r.byID {
		if user.Email == domain.NormalizeEmail(email) {
			clone := *user
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *fakeUserRepo) UpdateProfile(_ context.Context, user *domain.User) error {
	stored, ok := r.byID[user.ID]
	if !ok {
		return domain.ErrUserNotFound
	}
	r.profileWrites++
	stored.Name = user.Name
	stored.ProfileImage = user.ProfileImage
	stored.PreferredMedia = user.PreferredMedia
	stored.UpdatedAt = time.Now()
	return nil
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, id, passwordHash string) error {
	stored, ok := r.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	r.passwordWrites++
	stored.PasswordHash = passwordHash
	return nil
}

func (r *fakeUserRepo) List(_ context.Context) ([]*domain.User, error) {
	users := make([]*domain.User, 0, len(r.byID))
	for _, user := range r.byID {
		clone := *user
		users = append(users, &clone)
	}
	return users, nil
}

// fakeCache records every Get/Set/Invalidate so cache discipline is observable.
type fakeCache struct {
	entries     map[string]*domain.User
	gets        int
	sets        int
	invalidates []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]*domain.User)}
}

func (c *fakeCache) Get(_ context.Context, userID string) (*domain.User, error) {
	c.gets++
	user, ok := c.entries[userID]
	if !ok {
		return nil, nil
	}
	clone := *user
	return &clone, nil
}

func (c *fakeCache) Set(_ context.Context, user *domain.User) error {
	c.sets++
	clone := *user
	c.entries[user.ID] = &clone
	return nil
}

func (c *fakeCache) Invalidate(_ context.Context, userID string) error {
	c.invalidates = append(c.invalidates, userID)
	delete(c.entries, userID)
	return nil
}

func strPtr(s string) *string { return &s }

func seededUser() domain.User {
	return domain.User{
		ID:           "user-1",
		Name:         "Ann",
		Email:        "ann@x.com",
		PasswordHash: "$2a$12$fakefakefakefakefakefake",
		Role:         domain.RoleStudent,
		WeaknessTags: []string{},
	}
}

func TestGetReadThrough(t *testing.T) {
	repo := newFakeUserRepo()
	repo.seed(seededUser())
	cache := newFakeCache()
	uc := New(repo, cache, nil)
	ctx := context.Background()

	first, err := uc.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "Ann", first.Name)
	assert.Equal(t, 1, cache.sets, "miss populates the cache")

	second, err := uc.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, cache.sets, "hit does not rewrite the entry")
	assert.Equal(t, 2, cache.gets)
}

func TestGetWithoutCache(t *testing.T) {
	repo := newFakeUserRepo()
	repo.seed(seededUser())
	uc := New(repo, nil, nil)

	user, err := uc.Get(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "ann@x.com", user.Email)
}

func TestGetUnknownUser(t *testing.T) {
	uc := New(newFakeUserRepo(), nil, nil)

	_, err := uc.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeNotFound))
}

func TestUpdateAppliesOnlySuppliedFields(t *testing.T) {
	repo := newFakeUserRepo()
	repo.seed(seededUser())
	uc := New(repo, nil, nil)

	updated, err := uc.Update(context.Background(), "user-1", UpdateInput{
		Name:           strPtr("Ann Lee"),
		PreferredMedia: strPtr("video"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Ann Lee", updated.Name)
	require.NotNil(t, updated.PreferredMedia)
	assert.Equal(t, "video", *updated.PreferredMedia)
	assert.Nil(t, updated.ProfileImage, "omitted field untouched")
	assert.Equal(t, "ann@x.com", updated.Email, "email never changes here")
	assert.Equal(t, 0, repo.passwordWrites, "hash never touched")
}

func TestUpdateEmptyNameIgnored(t *testing.T) {
	repo := newFakeUserRepo()
	repo.seed(seededUser())
	uc := New(repo, nil, nil)

	updated, err := uc.Update(context.Background(), "user-1", UpdateInput{Name: strPtr("")})
	require.NoError(t, err)
	assert.Equal(t, "Ann", updated.Name)
}

func TestUpdateRejectsOversizedFields(t *testing.T) {
	repo := newFakeUserRepo()
	repo.seed(seededUser())
	uc := New(repo, nil, nil)

	_, err := uc.Update(context.Background(), "user-1", UpdateInput{
		Name: strPtr(strings.Repeat("a", 101)),
	})
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
	assert.Equal(t, 0, repo.profileWrites, "nothing persisted on validation failure")
}

func TestUpdateInvalidatesCache(t *testing.T) {
	repo := newFakeUserRepo()
	repo.seed(seededUser())
	cache := newFakeCache()
	uc := New(repo, cache, nil)
	ctx := context.Background()

	_, err := uc.Get(ctx, "user-1")
	require.NoError(t, err)

	_, err = uc.Update(ctx, "user-1", UpdateInput{Name: strPtr("Ann Lee")})
	require.NoError(t, err)
	assert.Equal(t, []string{"user-1"}, cache.invalidates)

	fresh, err := uc.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "Ann Lee", fresh.Name, "stale entry is gone after update")
}
