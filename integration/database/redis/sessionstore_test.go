package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/surfguard/core/session"
)

func TestConnect_InvalidConfig(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	_, err := Connect(ctx, Config{})
	assert.ErrorIs(t, err, ErrEmptyConnectionURL)

	_, err = Connect(ctx, Config{ConnectionURL: "not-a-redis-url"})
	assert.ErrorIs(t, err, ErrFailedToParseRedisConnString)
}

func TestSessionStore_SaveExpired(t *testing.T) {
	t.Parallel()

	sess, err := session.New(time.Hour)
	require.NoError(t, err)
	sess.ExpiresAt = time.Now().Add(-time.Minute)

	// An already-expired session is refused before any Redis round trip.
	store := NewSessionStore(nil)
	assert.ErrorIs(t, store.Save(context.Background(), sess), session.ErrExpired)
}

func TestSessionStore_DeleteExpiredIsNoop(t *testing.T) {
	t.Parallel()

	store := NewSessionStore(nil)
	n, err := store.DeleteExpired(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n, "expiry is delegated to key TTLs")
}
