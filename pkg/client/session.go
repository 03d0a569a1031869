package client

import (
	"errors"

	"github.com/arjuns-sics/intelligent-learning-platform/domain"
)

// Result is the uniform outcome shape surfaced to callers of Session
// operations.
type Result struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

func ok() Result {
	return Result{Success: true}
}

func fail(message string) Result {
	return Result{Success: false, Error: message}
}

// Session keeps the local store in sync with the server: the client-side
// counterpart of the server's stateless tokens.
type Session struct {
	api   *API
	store *Store
}

// NewSession binds an API client to a local session store.
func NewSession(api *API, store *Store) *Session {
	return &Session{api: api, store: store}
}

// Authenticated reports whether a token is persisted locally.
func (s *Session) Authenticated() bool {
	return s.store.Authenticated()
}

// Role returns the cached profile's role, or "" when anonymous.
func (s *Session) Role() domain.Role {
	return s.store.Role()
}

// Login authenticates and atomically persists token plus profile.
func (s *Session) Login(email, password string) Result {
	user, token, err := s.api.Login(email, password)
	if err != nil {
		return fail(errText(err, "An unexpected error occurred during login"))
	}
	if err := s.store.SetSession(token, user); err != nil {
		return fail(err.Error())
	}
	return ok()
}

// Register has the same contract as Login, against the registration endpoint.
func (s *Session) Register(in RegisterInput) Result {
	user, token, err := s.api.Register(in)
	if err != nil {
		return fail(errText(err, "An unexpected error occurred during registration"))
	}
	if err := s.store.SetSession(token, user); err != nil {
		return fail(err.Error())
	}
	return ok()
}

// Logout clears the local session only; stateless tokens need no server-side
// revocation.
func (s *Session) Logout() Result {
	if err := s.store.Clear(); err != nil {
		return fail(err.Error())
	}
	return ok()
}

// FetchProfile refreshes the cached profile from the server. A 401
// specifically forces a logout; any other failure leaves the session alone.
func (s *Session) FetchProfile() Result {
	token, err := s.store.Token()
	if err != nil || token == "" {
		return fail("Not logged in")
	}

	user, err := s.api.Profile(token)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == 401 {
			s.Logout()
			return fail("Session expired. Please login again.")
		}
		return fail(errText(err, "Failed to fetch profile"))
	}

	if err := s.store.SetUser(user); err != nil {
		return fail(err.Error())
	}
	return ok()
}

// User returns the cached profile, transparently fetching it once when a
// token survives from a prior session but no profile is cached yet.
func (s *Session) User() (*domain.User, error) {
	user, err := s.store.User()
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}
	if !s.store.Authenticated() {
		return nil, nil
	}

	if res := s.FetchProfile(); !res.Success {
		return nil, errors.New(res.Error)
	}
	return s.store.User()
}

// UpdateProfile applies a partial update and refreshes the cached profile.
func (s *Session) UpdateProfile(in ProfileUpdateInput) Result {
	token, err := s.store.Token()
	if err != nil || token == "" {
		return fail("Not logged in")
	}

	user, err := s.api.UpdateProfile(token, in)
	if err != nil {
		return fail(errText(err, "Failed to update profile"))
	}
	if err := s.store.SetUser(user); err != nil {
		return fail(err.Error())
	}
	return ok()
}

// ChangePassword rotates the secret; the local session stays valid because
// the issued token is unaffected.
func (s *Session) ChangePassword(currentPassword, newPassword string) Result {
	token, err := s.store.Token()
	if err != nil || token == "" {
		return fail("Not logged in")
	}

	if err := s.api.ChangePassword(token, currentPassword, newPassword); err != nil {
		return fail(errText(err, "Failed to change password"))
	}
	return ok()
}

func errText(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if err != nil {
		return fallback
	}
	return ""
}
