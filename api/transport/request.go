package transport

// RegisterRequest carries the registration payload. Role and preferredMedia
// are optional; role defaults to Student server-side.
type RegisterRequest struct {
	Name           string  `json:"name"`
	Email          string  `json:"email"`
	Password       string  `json:"password"`
	Role           string  `json:"role"`
	PreferredMedia *string `json:"preferredMedia"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ProfileUpdateRequest is a partial update: only fields present in the JSON
// body are applied, which the pointer types make observable after decoding.
type ProfileUpdateRequest struct {
	Name           *string `json:"name"`
	ProfileImage   *string `json:"profile_image"`
	PreferredMedia *string `json:"preferredMedia"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}
