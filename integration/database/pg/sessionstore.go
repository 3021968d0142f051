package pg

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/surfguard/core/session"
)

// sessionsSchema creates the backing table. Applied by EnsureSchema;
// production deployments usually run this through their migration tooling
// instead.
const sessionsSchema = `
CREATE TABLE IF NOT EXISTS sessions (
	id         UUID PRIMARY KEY,
	token      TEXT NOT NULL UNIQUE,
	data       JSONB NOT NULL DEFAULT '{}',
	expires_at TIMESTAMPTZ NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS sessions_expires_at_idx ON sessions (expires_at);
`

// SessionStore is a PostgreSQL-backed session.Store.
type SessionStore struct {
	pool *pgxpool.Pool
}

// NewSessionStore creates a session store on top of an established pool.
func NewSessionStore(pool *pgxpool.Pool) *SessionStore {
	return &SessionStore{pool: pool}
}

// EnsureSchema creates the sessions table when it does not exist yet.
func (s *SessionStore) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, sessionsSchema)
	return err
}

// GetByID retrieves a session by its ID.
func (s *SessionStore) GetByID(ctx context.Context, id uuid.UUID) (*session.Session, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, token, data, expires_at, created_at, updated_at FROM sessions WHERE id = $1`, id)
	return scanSession(row)
}

// GetByToken retrieves a session by its client-facing token.
func (s *SessionStore) GetByToken(ctx context.Context, token string) (*session.Session, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, token, data, expires_at, created_at, updated_at FROM sessions WHERE token = $1`, token)
	return scanSession(row)
}

// Save upserts the session by ID, covering both first writes and token
// rotation.
func (s *SessionStore) Save(ctx context.Context, sess *session.Session) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO sessions (id, token, data, expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			token      = EXCLUDED.token,
			data       = EXCLUDED.data,
			expires_at = EXCLUDED.expires_at,
			updated_at = EXCLUDED.updated_at`,
		sess.ID, sess.Token, sess.Values, sess.ExpiresAt, sess.CreatedAt, sess.UpdatedAt)
	return err
}

// Delete removes a session by ID. Deleting an absent session is not an error.
func (s *SessionStore) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	return err
}

// DeleteExpired removes all expired sessions and returns the count of deleted sessions.
func (s *SessionStore) DeleteExpired(ctx context.Context) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM sessions WHERE expires_at < now()`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func scanSession(row pgx.Row) (*session.Session, error) {
	var sess session.Session
	err := row.Scan(&sess.ID, &sess.Token, &sess.Values, &sess.ExpiresAt, &sess.CreatedAt, &sess.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, session.ErrNotFound
		}
		return nil, err
	}
	return &sess, nil
}
