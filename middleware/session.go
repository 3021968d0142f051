package middleware

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/surfguard/core/cookie"
	"github.com/dmitrymomot/surfguard/core/logger"
	"github.com/dmitrymomot/surfguard/core/session"
)

type sessionKey struct{}

// SessionConfig configures the session middleware.
type SessionConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(r *http.Request) bool
	// Manager resolves and persists sessions (required)
	Manager *session.Manager
	// Cookies reads and writes the session-identifier cookie (required)
	Cookies *cookie.Manager
	// CookieName names the session-identifier cookie (default "session_id")
	CookieName string
	// Logger for structured logging (default: slog with io.Discard)
	Logger *slog.Logger
	// ErrorHandler defines the response when a session cannot be created.
	// Default: plain 500.
	ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)
}

// Session creates middleware that resolves the session identified by the
// client cookie, creating a fresh one when the cookie is absent, stale, or
// expired, stores it in the request context, and persists it after the
// handler when modified.
func Session(manager *session.Manager, cookies *cookie.Manager) func(http.Handler) http.Handler {
	return SessionWithConfig(SessionConfig{
		Manager: manager,
		Cookies: cookies,
	})
}

// SessionWithConfig creates a session middleware with custom configuration.
func SessionWithConfig(cfg SessionConfig) func(http.Handler) http.Handler {
	if cfg.Manager == nil {
		panic("session middleware: manager is required")
	}
	if cfg.Cookies == nil {
		panic("session middleware: cookie manager is required")
	}
	if cfg.CookieName == "" {
		cfg.CookieName = session.DefaultConfig().CookieName
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.Skip != nil && cfg.Skip(r) {
				next.ServeHTTP(w, r)
				return
			}

			sess := cfg.resolve(r)

			isNew := sess == nil
			if isNew {
				created, err := cfg.Manager.New()
				if err != nil {
					cfg.Logger.ErrorContext(r.Context(), "session middleware: failed to create session", logger.Error(err))
					cfg.ErrorHandler(w, r, err)
					return
				}
				sess = created

				// The identifier cookie must go out before the handler
				// writes the response.
				if err := cfg.Cookies.Set(w, cfg.CookieName, sess.Token,
					cookie.WithHTTPOnly(true),
					cookie.WithMaxAge(int(cfg.Manager.TTL().Seconds())),
				); err != nil {
					cfg.Logger.ErrorContext(r.Context(), "session middleware: failed to set cookie", logger.Error(err))
				}
			}

			r = r.WithContext(WithSession(r.Context(), sess))

			next.ServeHTTP(w, r)

			// Persisted after the response; only modified sessions hit the store.
			if err := cfg.Manager.Store(r.Context(), sess); err != nil {
				cfg.Logger.ErrorContext(r.Context(), "session middleware: failed to store session",
					logger.Error(err),
					logger.SessionID(sess.ID.String()),
				)
			}
		})
	}
}

// resolve looks up the session named by the request cookie. Lookup misses
// are expected (new visitors, expired sessions); store failures are logged.
func (cfg SessionConfig) resolve(r *http.Request) *session.Session {
	token, err := cfg.Cookies.Get(r, cfg.CookieName)
	if err != nil {
		return nil
	}

	sess, err := cfg.Manager.GetByToken(r.Context(), token)
	if err != nil {
		if !errors.Is(err, session.ErrNotFound) && !errors.Is(err, session.ErrExpired) {
			cfg.Logger.ErrorContext(r.Context(), "session middleware: failed to load session", logger.Error(err))
		}
		return nil
	}
	return sess
}

// WithSession returns a context carrying the session.
func WithSession(ctx context.Context, sess *session.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, sess)
}

// GetSession retrieves the session from the context.
// Returns the session and true if found, nil and false otherwise.
func GetSession(ctx context.Context) (*session.Session, bool) {
	if ctx == nil {
		return nil, false
	}
	sess, ok := ctx.Value(sessionKey{}).(*session.Session)
	return sess, ok && sess != nil
}

// MustGetSession retrieves the session from the context or panics if absent.
// Use this when session existence is guaranteed by middleware.
func MustGetSession(ctx context.Context) *session.Session {
	sess, ok := GetSession(ctx)
	if !ok {
		panic("session not found in context")
	}
	return sess
}
