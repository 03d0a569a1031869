package domain

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validUser() *User {
	return &User{
		ID:           "11111111-1111-1111-1111-111111111111",
		Name:         "Ann",
		Email:        "ann@x.com",
		PasswordHash: "$2a$12$fakefakefakefakefakefake",
		Role:         RoleStudent,
		WeaknessTags: []string{},
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
}

func TestValidateOK(t *testing.T) {
	require.NoError(t, validUser().Validate())
}

func TestValidateFailures(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*User)
		message string
	}{
		{"missing name", func(u *User) { u.Name = "" }, "Name is required"},
		{"name too long", func(u *User) { u.Name = strings.Repeat("a", 101) }, "Name cannot exceed 100 characters"},
		{"missing email", func(u *User) { u.Email = "" }, "Email is required"},
		{"bad email", func(u *User) { u.Email = "not-an-email" }, "Please enter a valid email"},
		{"missing hash", func(u *User) { u.PasswordHash = "" }, "Password is required"},
		{"bad role", func(u *User) { u.Role = "Wizard" }, "Role must be Student, Instructor, or Admin"},
		{"media too long", func(u *User) { s := strings.Repeat("v", 51); u.PreferredMedia = &s }, "Preferred media cannot exceed 50 characters"},
		{"mastery negative", func(u *User) { u.MasteryScore = -1 }, "Mastery score cannot be negative"},
		{"mastery too high", func(u *User) { u.MasteryScore = 101 }, "Mastery score cannot exceed 100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := validUser()
			tt.mutate(u)
			err := u.Validate()
			require.Error(t, err)
			assert.True(t, IsDomainError(err, ErrCodeInvalid))
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestPasswordHashNeverSerialized(t *testing.T) {
	out, err := json.Marshal(validUser())
	require.NoError(t, err)
	assert.NotContains(t, string(out), "fakefake")
	assert.NotContains(t, string(out), "password")
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "ann@x.com", NormalizeEmail("  ANN@X.com "))
}

func TestValidRole(t *testing.T) {
	assert.True(t, ValidRole(RoleStudent))
	assert.True(t, ValidRole(RoleInstructor))
	assert.True(t, ValidRole(RoleAdmin))
	assert.False(t, ValidRole("Wizard"))
	assert.False(t, ValidRole(""))
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, ErrCodeConflict, CodeOf(ErrEmailTaken))
	assert.Equal(t, ErrCodeInternal, CodeOf(assert.AnError))
	wrapped := WrapError(ErrCodeNotFound, "gone", assert.AnError)
	assert.Equal(t, ErrCodeNotFound, CodeOf(wrapped))
}
