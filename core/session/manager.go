package session

import (
	"context"
	"errors"
	"time"
)

// Manager handles session lifecycle including creation, retrieval, and expiration.
// The touchInterval determines how often sessions are automatically extended on access,
// reducing write operations to the store.
type Manager struct {
	store         Store
	ttl           time.Duration
	touchInterval time.Duration
}

// NewManager creates a session manager with the specified store, time-to-live duration,
// and touch interval. The touchInterval prevents updating session expiration on every
// access, reducing write operations to the store.
func NewManager(store Store, ttl, touchInterval time.Duration) *Manager {
	return &Manager{
		store:         store,
		ttl:           ttl,
		touchInterval: touchInterval,
	}
}

// New creates a fresh anonymous session using the manager's TTL.
func (m *Manager) New() (*Session, error) {
	return New(m.ttl)
}

// GetByToken retrieves a session by its client-facing token and validates expiration.
func (m *Manager) GetByToken(ctx context.Context, token string) (*Session, error) {
	sess, err := m.store.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}

	if sess.IsExpired() {
		return nil, ErrExpired
	}

	return sess, nil
}

// Store persists the session when it has been modified. The session expiration
// is extended first when the touch interval has elapsed.
func (m *Manager) Store(ctx context.Context, sess *Session) error {
	sess.Touch(m.ttl, m.touchInterval)

	if !sess.IsModified() {
		return nil
	}

	if err := m.store.Save(ctx, sess); err != nil {
		return errors.Join(ErrSaveSession, err)
	}
	sess.markSaved()

	return nil
}

// CleanupExpired removes all expired sessions from the store.
// Should be called periodically to prevent session storage growth.
func (m *Manager) CleanupExpired(ctx context.Context) (int64, error) {
	return m.store.DeleteExpired(ctx)
}

// TTL returns the session time-to-live duration.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}
