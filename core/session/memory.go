package session

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory Store implementation. Suitable for tests and
// single-process deployments; use the redis or pg integrations otherwise.
type MemoryStore struct {
	mu      sync.RWMutex
	byID    map[uuid.UUID]*Session
	byToken map[string]uuid.UUID
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:    make(map[uuid.UUID]*Session),
		byToken: make(map[string]uuid.UUID),
	}
}

// GetByID retrieves a session snapshot by its ID.
func (s *MemoryStore) GetByID(_ context.Context, id uuid.UUID) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return snapshot(sess), nil
}

// GetByToken retrieves a session snapshot by its client-facing token.
func (s *MemoryStore) GetByToken(_ context.Context, token string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byToken[token]
	if !ok {
		return nil, ErrNotFound
	}
	sess, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return snapshot(sess), nil
}

// Save stores a copy of the session, replacing any previous state.
func (s *MemoryStore) Save(_ context.Context, sess *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Token rotation leaves a stale index entry behind otherwise.
	if prev, ok := s.byID[sess.ID]; ok && prev.Token != sess.Token {
		delete(s.byToken, prev.Token)
	}

	s.byID[sess.ID] = snapshot(sess)
	s.byToken[sess.Token] = sess.ID
	return nil
}

// Delete removes a session by ID. Deleting an absent session is not an error.
func (s *MemoryStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.byID[id]; ok {
		delete(s.byToken, sess.Token)
		delete(s.byID, id)
	}
	return nil
}

// DeleteExpired removes all expired sessions and returns the count of deleted sessions.
func (s *MemoryStore) DeleteExpired(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	var deleted int64
	for id, sess := range s.byID {
		if now.After(sess.ExpiresAt) {
			delete(s.byToken, sess.Token)
			delete(s.byID, id)
			deleted++
		}
	}
	return deleted, nil
}

// snapshot copies the session so callers never share the stored map.
// The copy starts clean: loaded sessions are unmodified until touched.
func snapshot(sess *Session) *Session {
	return &Session{
		ID:        sess.ID,
		Token:     sess.Token,
		Values:    maps.Clone(sess.Values),
		ExpiresAt: sess.ExpiresAt,
		CreatedAt: sess.CreatedAt,
		UpdatedAt: sess.UpdatedAt,
	}
}
