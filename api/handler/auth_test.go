package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arjuns-sics/intelligent-learning-platform/api/transport"
	"github.com/arjuns-sics/intelligent-learning-platform/domain"
	"github.com/arjuns-sics/intelligent-learning-platform/internal/middleware"
)

func register(t *testing.T, env *testEnv, req transport.RegisterRequest) (string, string) {
	t.Helper()
	status, body := env.do(t, env.authH.Register, req, "")
	require.Equal(t, 201, status, "register response: %v", body)
	data := dataField(t, body)
	tok, _ := data["token"].(string)
	require.NotEmpty(t, tok)
	user, _ := data["user"].(map[string]interface{})
	require.NotNil(t, user)
	id, _ := user["id"].(string)
	require.NotEmpty(t, id)
	return id, tok
}

func TestRegisterHandler(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.do(t, env.authH.Register, transport.RegisterRequest{
		Name:     "Ann",
		Email:    "ann@example.com",
		Password: "secret1",
	}, "")
	require.Equal(t, 201, status)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "User registered successfully", body["message"])

	user := dataField(t, body)["user"].(map[string]interface{})
	assert.Equal(t, "ann@example.com", user["email"])
	assert.Equal(t, "Student", user["role"])
	_, hasPassword := user["password"]
	assert.False(t, hasPassword, "password never appears in responses")
	_, hasHash := user["password_hash"]
	assert.False(t, hasHash)
}

func TestRegisterHandlerValidation(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.do(t, env.authH.Register, transport.RegisterRequest{
		Email: "ann@example.com", Password: "secret1",
	}, "")
	assert.Equal(t, 400, status)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Name, email, and password are required", body["message"])
}

func TestRegisterHandlerDuplicate(t *testing.T) {
	env := newTestEnv(t)
	register(t, env, transport.RegisterRequest{Name: "Ann", Email: "ann@example.com", Password: "secret1"})

	status, body := env.do(t, env.authH.Register, transport.RegisterRequest{
		Name: "Other", Email: "ann@example.com", Password: "other99",
	}, "")
	assert.Equal(t, 409, status)
	assert.Equal(t, "User with this email already exists", body["message"])
}

func TestRegisterHandlerMalformedBody(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.do(t, env.authH.Register, "not-an-object", "")
	assert.Equal(t, 400, status)
	assert.Equal(t, false, body["success"])
}

func TestLoginHandler(t *testing.T) {
	env := newTestEnv(t)
	userID, _ := register(t, env, transport.RegisterRequest{Name: "Ann", Email: "ann@example.com", Password: "secret1"})

	status, body := env.do(t, env.authH.Login, transport.LoginRequest{
		Email: "ann@example.com", Password: "secret1",
	}, "")
	require.Equal(t, 200, status)
	assert.Equal(t, "Login successful", body["message"])

	data := dataField(t, body)
	claims, err := env.issuer.Verify(data["token"].(string))
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)

	status, body = env.do(t, env.authH.Login, transport.LoginRequest{
		Email: "ann@example.com", Password: "wrong",
	}, "")
	assert.Equal(t, 401, status)
	assert.Equal(t, "Invalid email or password", body["message"])
}

// TestPasswordLifecycle walks the full account flow: register, fail a change
// with the wrong current password, change it for real, then confirm only the
// new password logs in.
func TestPasswordLifecycle(t *testing.T) {
	env := newTestEnv(t)
	userID, tok := register(t, env, transport.RegisterRequest{Name: "Ann", Email: "ann@example.com", Password: "secret1"})
	originalHash := env.repo.byID[userID].PasswordHash

	changePassword := env.authed(env.authH.ChangePassword)

	status, body := env.do(t, changePassword, transport.ChangePasswordRequest{
		CurrentPassword: "wrong", NewPassword: "secret22",
	}, tok)
	assert.Equal(t, 401, status)
	assert.Equal(t, "Current password is incorrect", body["message"])
	assert.Equal(t, originalHash, env.repo.byID[userID].PasswordHash)

	status, body = env.do(t, changePassword, transport.ChangePasswordRequest{
		CurrentPassword: "secret1", NewPassword: "short",
	}, tok)
	assert.Equal(t, 400, status)
	assert.Equal(t, "New password must be at least 6 characters", body["message"])

	status, body = env.do(t, changePassword, transport.ChangePasswordRequest{
		CurrentPassword: "secret1", NewPassword: "secret22",
	}, tok)
	require.Equal(t, 200, status)
	assert.Equal(t, "Password changed successfully", body["message"])

	status, _ = env.do(t, env.authH.Login, transport.LoginRequest{Email: "ann@example.com", Password: "secret1"}, "")
	assert.Equal(t, 401, status, "old password is dead")
	status, _ = env.do(t, env.authH.Login, transport.LoginRequest{Email: "ann@example.com", Password: "secret22"}, "")
	assert.Equal(t, 200, status, "new password works")
}

func TestChangePasswordRequiresToken(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.do(t, env.authed(env.authH.ChangePassword), transport.ChangePasswordRequest{
		CurrentPassword: "a", NewPassword: "secret22",
	}, "")
	assert.Equal(t, 401, status)
	assert.Equal(t, "Access denied. No token provided.", body["message"])
}

func TestListUsersRequiresAdmin(t *testing.T) {
	env := newTestEnv(t)
	register(t, env, transport.RegisterRequest{Name: "Ann", Email: "ann@example.com", Password: "secret1"})
	_, adminTok := register(t, env, transport.RegisterRequest{
		Name: "Root", Email: "root@example.com", Password: "secret1", Role: "Admin",
	})
	_, studentTok := register(t, env, transport.RegisterRequest{
		Name: "Bob", Email: "bob@example.com", Password: "secret1",
	})

	listUsers := env.authed(middleware.Authorize(domain.RoleAdmin)(env.authH.ListUsers))

	status, body := env.do(t, listUsers, nil, studentTok)
	assert.Equal(t, 403, status)
	assert.Equal(t, "Access denied. Required role: Admin", body["message"])

	status, body = env.do(t, listUsers, nil, adminTok)
	require.Equal(t, 200, status)
	users, ok := body["data"].([]interface{})
	require.True(t, ok, "data: %v", body["data"])
	assert.Len(t, users, 3)
}
