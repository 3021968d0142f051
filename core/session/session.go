package session

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Session is a request-scoped key-value session snapshot. It is loaded from
// a Store before the handler runs and persisted after the handler completes
// when it has been modified.
type Session struct {
	// ID is the stable unique session identifier that never changes during
	// the session lifecycle.
	ID uuid.UUID

	// Token is the cryptographically secure session identifier carried by
	// the client cookie (32 bytes base64url).
	Token string

	// Values holds the session payload. Mutate through Set/Delete so the
	// modification flag stays accurate.
	Values map[string]string

	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time

	// isModified tracks if the session needs saving
	isModified bool
}

// New creates a new anonymous session with a generated token and ID.
// The session is marked as modified and ready to be saved.
func New(ttl time.Duration) (*Session, error) {
	token, err := generateToken()
	if err != nil {
		return nil, errors.Join(ErrTokenGeneration, err)
	}

	now := time.Now()
	return &Session{
		ID:         uuid.New(),
		Token:      token,
		Values:     make(map[string]string),
		ExpiresAt:  now.Add(ttl),
		CreatedAt:  now,
		UpdatedAt:  now,
		isModified: true,
	}, nil
}

// Get returns the value stored under key and whether it was present.
func (s *Session) Get(key string) (string, bool) {
	v, ok := s.Values[key]
	return v, ok
}

// Set stores a value under key and marks the session as modified.
func (s *Session) Set(key, value string) {
	if s.Values == nil {
		s.Values = make(map[string]string)
	}
	s.Values[key] = value
	s.UpdatedAt = time.Now()
	s.isModified = true
}

// Delete removes key from the session. Deleting an absent key does not
// mark the session as modified.
func (s *Session) Delete(key string) {
	if _, ok := s.Values[key]; !ok {
		return
	}
	delete(s.Values, key)
	s.UpdatedAt = time.Now()
	s.isModified = true
}

// Refresh rotates the session token without changing the session ID or
// the stored values.
func (s *Session) Refresh() error {
	token, err := generateToken()
	if err != nil {
		return errors.Join(ErrTokenGeneration, err)
	}
	s.Token = token
	s.UpdatedAt = time.Now()
	s.isModified = true
	return nil
}

// Touch extends the session expiration if the touch interval has elapsed.
// This reduces write operations by only updating when sufficient time has passed.
func (s *Session) Touch(ttl, touchInterval time.Duration) {
	if time.Since(s.UpdatedAt) >= touchInterval {
		s.ExpiresAt = time.Now().Add(ttl)
		s.UpdatedAt = time.Now()
		s.isModified = true
	}
}

// IsModified returns true if the session has been modified and needs saving.
func (s *Session) IsModified() bool {
	return s.isModified
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// markSaved resets the modification flag after a successful store write.
func (s *Session) markSaved() {
	s.isModified = false
}

// generateToken creates a cryptographically secure random token using 32 bytes
// (256 bits) encoded as base64 URL-safe string without padding.
func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
