// Package session provides request-scoped key-value sessions with dirty
// tracking and pluggable persistence.
//
// A Session is loaded (or created) before the handler runs and persisted
// after the handler completes, but only when it was actually modified.
// Mutations go through Set/Delete so the modification flag stays accurate;
// the surrounding persistence layer checks IsModified to decide whether a
// write is needed.
//
// # Basic Usage
//
//	store := session.NewMemoryStore()
//	manager := session.NewManager(store, 24*time.Hour, 5*time.Minute)
//
//	sess, err := manager.GetByToken(ctx, cookieValue)
//	if errors.Is(err, session.ErrNotFound) || errors.Is(err, session.ErrExpired) {
//		sess, err = manager.New()
//	}
//
//	sess.Set("theme", "dark")
//
//	// Persists only because the session was modified.
//	if err := manager.Store(ctx, sess); err != nil {
//		return err
//	}
//
// # Stores
//
// The in-memory store suits tests and single-process deployments. The
// integration/database/redis and integration/database/pg packages provide
// production-grade Store implementations.
package session
