// Package password wraps bcrypt hashing for credential storage.
package password

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// Cost is the bcrypt work factor used for every stored hash.
const Cost = 12

// ErrMismatch is returned when a plaintext does not match the stored hash.
var ErrMismatch = errors.New("password does not match hash")

// Hash generates a salted one-way hash of the plaintext.
func Hash(plaintext string) (string, error) {
	if plaintext == "" {
		return "", errors.New("password must not be empty")
	}
	h, err := bcrypt.GenerateFromPassword([]byte(plaintext), Cost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// Compare validates the given plaintext against a stored hash.
func Compare(hash, plaintext string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrMismatch
		}
		return err
	}
	return nil
}
