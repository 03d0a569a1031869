package client

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/arjuns-sics/intelligent-learning-platform/domain"
)

// Storage keys are fixed so a token issued in one process survives into the
// next session.
const (
	tokenKey = "learnify_token"
	userKey  = "learnify_user"

	sessionBucket = "session"
)

// Store persists the client session (token plus cached profile) in a local
// BoltDB file.
type Store struct {
	db *bolt.DB
}

// OpenStore initializes the session database, creating parent directories as
// needed.
func OpenStore(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(sessionBucket))
		return err
	}); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Token returns the persisted bearer token, or "" when logged out.
func (s *Store) Token() (string, error) {
	var token string
	err := s.db.View(func(tx *bolt.Tx) error {
		token = string(tx.Bucket([]byte(sessionBucket)).Get([]byte(tokenKey)))
		return nil
	})
	return token, err
}

// User returns the cached profile, or nil when none is stored.
func (s *Store) User() (*domain.User, error) {
	var raw []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket([]byte(sessionBucket)).Get([]byte(userKey)); v != nil {
			raw = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil || raw == nil {
		return nil, err
	}

	var user domain.User
	if err := json.Unmarshal(raw, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// SetSession atomically persists the token and profile together, so the two
// can never disagree about who is logged in. A nil user drops the cached
// profile; the next User call fetches it.
func (s *Store) SetSession(token string, user *domain.User) error {
	var payload []byte
	if user != nil {
		var err error
		if payload, err = json.Marshal(user); err != nil {
			return err
		}
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(sessionBucket))
		if err := b.Put([]byte(tokenKey), []byte(token)); err != nil {
			return err
		}
		if payload == nil {
			return b.Delete([]byte(userKey))
		}
		return b.Put([]byte(userKey), payload)
	})
}

// SetUser refreshes only the cached profile.
func (s *Store) SetUser(user *domain.User) error {
	payload, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(sessionBucket)).Put([]byte(userKey), payload)
	})
}

// Clear wipes the session. Logout is purely local: tokens are stateless and
// simply expire server-side.
func (s *Store) Clear() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(sessionBucket))
		if err := b.Delete([]byte(tokenKey)); err != nil {
			return err
		}
		return b.Delete([]byte(userKey))
	})
}

// Authenticated reports whether a non-empty token is stored.
func (s *Store) Authenticated() bool {
	token, err := s.Token()
	return err == nil && token != ""
}

// Role returns the cached profile's role, or "" when anonymous.
func (s *Store) Role() domain.Role {
	user, err := s.User()
	if err != nil || user == nil {
		return ""
	}
	return user.Role
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
