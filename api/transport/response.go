package transport

import (
	"encoding/json"

	"github.com/arjuns-sics/intelligent-learning-platform/domain"
)

// Envelope is the standard API response wrapper used for both success and
// error payloads.
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Stack   string      `json:"stack,omitempty"`
}

// NewSuccess returns a success envelope with an optional human-readable message.
func NewSuccess(data interface{}, message string) Envelope {
	return Envelope{
		Success: true,
		Message: message,
		Data:    data,
	}
}

// NewError returns an error envelope carrying a human-readable message.
func NewError(message string) Envelope {
	return Envelope{
		Success: false,
		Message: message,
	}
}

// AuthPayload is the data section returned by register and login.
type AuthPayload struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token"`
}

// String returns the JSON representation (best-effort) for logging purposes.
func (e Envelope) String() string {
	out, err := json.Marshal(e)
	if err != nil {
		return "{}"
	}
	return string(out)
}
