package domain

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// Role classifies what a user is allowed to do on the platform.
type Role string

const (
	RoleStudent    Role = "Student"
	RoleInstructor Role = "Instructor"
	RoleAdmin      Role = "Admin"
)

// ValidRole reports whether r is one of the enumerated roles.
func ValidRole(r Role) bool {
	switch r {
	case RoleStudent, RoleInstructor, RoleAdmin:
		return true
	}
	return false
}

// User is a credential plus profile record. The password hash never leaves
// the process: it is excluded from JSON serialization entirely.
type User struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	PasswordHash   string    `json:"-"`
	Role           Role      `json:"role"`
	ProfileImage   *string   `json:"profile_image"`
	PreferredMedia *string   `json:"preferredMedia"`
	MasteryScore   int       `json:"masteryScore"`
	WeaknessTags   []string  `json:"weaknessTags"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// NormalizeEmail lowercases and trims an email address so lookups and the
// uniqueness constraint are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Validate checks the field constraints shared by registration and profile
// updates. Violations collapse into a single INVALID error with the
// individual messages joined.
func (u *User) Validate() error {
	err := validation.ValidateStruct(u,
		validation.Field(&u.Name,
			validation.Required.Error("Name is required"),
			validation.Length(1, 100).Error("Name cannot exceed 100 characters")),
		validation.Field(&u.Email,
			validation.Required.Error("Email is required"),
			validation.Length(0, 150).Error("Email cannot exceed 150 characters"),
			is.Email.Error("Please enter a valid email")),
		validation.Field(&u.PasswordHash,
			validation.Required.Error("Password is required")),
		validation.Field(&u.Role,
			validation.In(RoleStudent, RoleInstructor, RoleAdmin).
				Error("Role must be Student, Instructor, or Admin")),
		validation.Field(&u.PreferredMedia,
			validation.Length(0, 50).Error("Preferred media cannot exceed 50 characters")),
		validation.Field(&u.MasteryScore,
			validation.Min(0).Error("Mastery score cannot be negative"),
			validation.Max(100).Error("Mastery score cannot exceed 100")),
	)
	if err != nil {
		return WrapError(ErrCodeInvalid, joinValidationErrors(err), err)
	}
	return nil
}

func joinValidationErrors(err error) string {
	errs, ok := err.(validation.Errors)
	if !ok {
		return err.Error()
	}
	messages := make([]string, 0, len(errs))
	for _, fieldErr := range errs {
		messages = append(messages, fieldErr.Error())
	}
	return strings.Join(messages, ", ")
}
