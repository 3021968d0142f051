package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/surfguard/core/session"
)

const (
	sessionKeyPrefix = "session:token:"
	idIndexKeyPrefix = "session:id:"
)

// SessionStore is a Redis-backed session.Store. Sessions are stored as JSON
// under their token with a secondary id-to-token index; both keys carry the
// session TTL so Redis expires stale sessions on its own.
type SessionStore struct {
	client *redis.Client
}

// NewSessionStore creates a session store on top of an established client.
func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

// GetByID retrieves a session via the id index.
func (s *SessionStore) GetByID(ctx context.Context, id uuid.UUID) (*session.Session, error) {
	token, err := s.client.Get(ctx, idIndexKeyPrefix+id.String()).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, session.ErrNotFound
		}
		return nil, err
	}
	return s.GetByToken(ctx, token)
}

// GetByToken retrieves a session by its client-facing token.
func (s *SessionStore) GetByToken(ctx context.Context, token string) (*session.Session, error) {
	data, err := s.client.Get(ctx, sessionKeyPrefix+token).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, session.ErrNotFound
		}
		return nil, err
	}

	var sess session.Session
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

// Save writes the session and its id index, both expiring with the session.
func (s *SessionStore) Save(ctx context.Context, sess *session.Session) error {
	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return session.ErrExpired
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}

	// Token rotation leaves a stale session key behind otherwise.
	prevToken, err := s.client.Get(ctx, idIndexKeyPrefix+sess.ID.String()).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return err
	}

	pipe := s.client.TxPipeline()
	if prevToken != "" && prevToken != sess.Token {
		pipe.Del(ctx, sessionKeyPrefix+prevToken)
	}
	pipe.Set(ctx, sessionKeyPrefix+sess.Token, data, ttl)
	pipe.Set(ctx, idIndexKeyPrefix+sess.ID.String(), sess.Token, ttl)
	_, err = pipe.Exec(ctx)
	return err
}

// Delete removes a session and its index entry.
func (s *SessionStore) Delete(ctx context.Context, id uuid.UUID) error {
	token, err := s.client.Get(ctx, idIndexKeyPrefix+id.String()).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, sessionKeyPrefix+token)
	pipe.Del(ctx, idIndexKeyPrefix+id.String())
	_, err = pipe.Exec(ctx)
	return err
}

// DeleteExpired is a no-op: key TTLs make Redis expire sessions itself.
func (s *SessionStore) DeleteExpired(_ context.Context) (int64, error) {
	return 0, nil
}
