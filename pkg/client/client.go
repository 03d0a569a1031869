// Package client is the Go SDK for the learning platform API: an HTTP client,
// a durable local session store and a Session type that keeps the two in sync
// with the server.
package client

import (
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/arjuns-sics/intelligent-learning-platform/api/transport"
	"github.com/arjuns-sics/intelligent-learning-platform/domain"
)

// APIError is a server response with a non-2xx status.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}

// API talks to the REST backend. Every response is expected in the standard
// envelope shape.
type API struct {
	baseURL string
	http    *fasthttp.Client
	timeout time.Duration
}

// Option customizes the API client.
type Option func(*API)

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(a *API) {
		if d > 0 {
			a.timeout = d
		}
	}
}

// WithDial overrides the transport dialer (used by in-process tests).
func WithDial(dial func(addr string) (net.Conn, error)) Option {
	return func(a *API) {
		a.http.Dial = dial
	}
}

// NewAPI builds a client for baseURL, e.g. "http://localhost:3000".
func NewAPI(baseURL string, opts ...Option) *API {
	a := &API{
		baseURL: baseURL,
		http:    &fasthttp.Client{},
		timeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// RegisterInput mirrors the registration payload.
type RegisterInput struct {
	Name           string  `json:"name"`
	Email          string  `json:"email"`
	Password       string  `json:"password"`
	Role           string  `json:"role,omitempty"`
	PreferredMedia *string `json:"preferredMedia,omitempty"`
}

// ProfileUpdateInput mirrors the partial profile update payload.
type ProfileUpdateInput struct {
	Name           *string `json:"name,omitempty"`
	ProfileImage   *string `json:"profile_image,omitempty"`
	PreferredMedia *string `json:"preferredMedia,omitempty"`
}

// Register creates an account and returns the profile plus issued token.
func (a *API) Register(in RegisterInput) (*domain.User, string, error) {
	var payload transport.AuthPayload
	if err := a.do(fasthttp.MethodPost, "/api/auth/register", "", in, &payload); err != nil {
		return nil, "", err
	}
	return payload.User, payload.Token, nil
}

// Login authenticates and returns the profile plus issued token.
func (a *API) Login(email, password string) (*domain.User, string, error) {
	body := map[string]string{"email": email, "password": password}
	var payload transport.AuthPayload
	if err := a.do(fasthttp.MethodPost, "/api/auth/login", "", body, &payload); err != nil {
		return nil, "", err
	}
	return payload.User, payload.Token, nil
}

// Profile fetches the authenticated caller's record.
func (a *API) Profile(token string) (*domain.User, error) {
	var user domain.User
	if err := a.do(fasthttp.MethodGet, "/api/auth/profile", token, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile applies a partial update and returns the new record.
func (a *API) UpdateProfile(token string, in ProfileUpdateInput) (*domain.User, error) {
	var user domain.User
	if err := a.do(fasthttp.MethodPut, "/api/auth/profile", token, in, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ChangePassword rotates the caller's secret.
func (a *API) ChangePassword(token, currentPassword, newPassword string) error {
	body := map[string]string{
		"currentPassword": currentPassword,
		"newPassword":     newPassword,
	}
	return a.do(fasthttp.MethodPut, "/api/auth/password", token, body, nil)
}

// do performs one round trip and unmarshals the envelope's data section into
// out (when out is non-nil). Error envelopes become *APIError.
func (a *API) do(method, path, token string, body, out interface{}) error {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(a.baseURL + path)
	req.Header.SetMethod(method)
	req.Header.SetContentType("application/json")
	if token != "" {
		req.Header.Set(fasthttp.HeaderAuthorization, "Bearer "+token)
	}
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return err
		}
		req.SetBody(encoded)
	}

	if err := a.http.DoTimeout(req, resp, a.timeout); err != nil {
		return err
	}

	var envelope struct {
		Success bool            `json:"success"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
		Error   string          `json:"error"`
	}
	if err := json.Unmarshal(resp.Body(), &envelope); err != nil {
		return &APIError{StatusCode: resp.StatusCode(), Message: "malformed server response"}
	}

	if resp.StatusCode() >= 400 || !envelope.Success {
		message := envelope.Message
		if message == "" {
			message = envelope.Error
		}
		return &APIError{StatusCode: resp.StatusCode(), Message: message}
	}

	if out != nil && len(envelope.Data) > 0 {
		return json.Unmarshal(envelope.Data, out)
	}
	return nil
}
