package handler

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	"github.com/arjuns-sics/intelligent-learning-platform/domain"
	"github.com/arjuns-sics/intelligent-learning-platform/internal/middleware"
	"github.com/arjuns-sics/intelligent-learning-platform/pkg/httpcontext"
	"github.com/arjuns-sics/intelligent-learning-platform/pkg/token"
	authUC "github.com/arjuns-sics/intelligent-learning-platform/usecase/auth"
	profileUC "github.com/arjuns-sics/intelligent-learning-platform/usecase/profile"
)

type memoryUserRepo struct {
	byID map[string]*domain.User
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{byID: make(map[string]*domain.User)}
}

func (r *memoryUserRepo) Create(_ context.Context, user *domain.User) error {
	for _, existing := range r.byID {
		if existing.Email == user.Email {
			return domain.ErrEmailTaken
		}
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	clone := *user
	r.byID[user.ID] = &clone
	return nil
}

func (r *memoryUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *user
	return &clone, nil
}

func (r *memoryUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range r.byID {
		if user.Email == domain.NormalizeEmail(email) {
			clone := *user
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *memoryUserRepo) UpdateProfile(_ context.Context, user *domain.User) error {
	stored, ok := r.byID[user.ID]
	if !ok {
		return domain.ErrUserNotFound
	}
	stored.Name = user.Name
	stored.ProfileImage = user.ProfileImage
	stored.PreferredMedia = user.PreferredMedia
	stored.UpdatedAt = time.Now()
	return nil
}

func (r *memoryUserRepo) UpdatePassword(_ context.Context, id, passwordHash string) error {
	stored, ok := r.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	stored.PasswordHash = passwordHash
	stored.UpdatedAt = time.Now()
	return nil
}

func (r *memoryUserRepo) List(_ context.Context) ([]*domain.User, error) {
	users := make([]*domain.User, 0, len(r.byID))
	for _, user := range r.byID {
		clone := *user
		users = append(users, &clone)
	}
	return users, nil
}

// testEnv wires the handlers the way cmd/server does, with an in-memory store
// and no cache, so requests run the same middleware and response path as
// production.
type testEnv struct {
	repo    *memoryUserRepo
	issuer  *token.Issuer
	auth    *middleware.Auth
	authH   *AuthHandler
	profile *ProfileHandler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	repo := newMemoryUserRepo()
	issuer := token.New("handler-test-secret", "test", time.Hour)
	adapter := httpcontext.NewAdapter(time.Second)

	authUseCase := authUC.New(repo, nil, issuer, nil)
	profileUseCase := profileUC.New(repo, nil, nil)

	return &testEnv{
		repo:    repo,
		issuer:  issuer,
		auth:    middleware.NewAuth(issuer, nil),
		authH:   NewAuthHandler(authUseCase, adapter, nil, false),
		profile: NewProfileHandler(profileUseCase, adapter, nil, false),
	}
}

// do runs a handler against a synthetic request and returns the parsed body.
func (e *testEnv) do(t *testing.T, h fasthttp.RequestHandler, body interface{}, bearer string) (int, map[string]interface{}) {
	t.Helper()

	var req fasthttp.Request
	req.Header.SetMethod(fasthttp.MethodPost)
	req.SetRequestURI("http://test/")
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		req.SetBody(raw)
	}
	if bearer != "" {
		req.Header.Set(fasthttp.HeaderAuthorization, "Bearer "+bearer)
	}

	ctx := &fasthttp.RequestCtx{}
	ctx.Init(&req, nil, nil)
	h(ctx)

	var parsed map[string]interface{}
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &parsed),
		"response body: %s", ctx.Response.Body())
	return ctx.Response.StatusCode(), parsed
}

// authed wraps h in the token-gating middleware, like the router does.
func (e *testEnv) authed(h fasthttp.RequestHandler) fasthttp.RequestHandler {
	return e.auth.Authenticate(h)
}

func dataField(t *testing.T, body map[string]interface{}) map[string]interface{} {
	t.Helper()
	data, ok := body["data"].(map[string]interface{})
	require.True(t, ok, "data field missing or not an object: %v", body)
	return data
}
