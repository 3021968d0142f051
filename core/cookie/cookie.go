package cookie

import (
	"errors"
	"net/http"
	"time"
)

// MaxCookieSize is the maximum serialized size for a cookie (4KB).
const MaxCookieSize = 4096

// Manager handles HTTP cookie operations with shared defaults and size
// enforcement. A single manager is typically created at application setup
// and reused for every request.
type Manager struct {
	defaults Options
	maxSize  int
}

// ManagerOption configures the Manager itself (not individual cookies).
type ManagerOption func(*Manager)

// WithMaxSize sets the maximum serialized cookie size.
func WithMaxSize(size int) ManagerOption {
	return func(m *Manager) {
		if size > 0 {
			m.maxSize = size
		}
	}
}

// New creates a cookie manager with the given per-cookie defaults.
func New(opts ...Option) *Manager {
	// Secure defaults
	defaults := Options{
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	defaults = applyOptions(defaults, opts)

	return &Manager{
		defaults: defaults,
		maxSize:  MaxCookieSize,
	}
}

// NewWithOptions creates a cookie manager with additional manager options.
func NewWithOptions(cookieOpts []Option, managerOpts ...ManagerOption) *Manager {
	m := New(cookieOpts...)
	for _, opt := range managerOpts {
		opt(m)
	}
	return m
}

// Set writes a cookie to the response, applying the manager defaults
// overridden by opts.
func (m *Manager) Set(w http.ResponseWriter, name, value string, opts ...Option) error {
	options := applyOptions(m.defaults, opts)

	cookie := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     options.Path,
		Domain:   options.Domain,
		MaxAge:   options.MaxAge,
		Secure:   options.Secure,
		HttpOnly: options.HttpOnly,
		SameSite: options.SameSite,
	}

	header := cookie.String()
	if header == "" {
		return ErrInvalidName
	}
	if len(header) > m.maxSize {
		return ErrCookieTooLarge{
			Name: name,
			Size: len(header),
			Max:  m.maxSize,
		}
	}

	http.SetCookie(w, cookie)
	return nil
}

// Get retrieves a cookie value from the request.
func (m *Manager) Get(r *http.Request, name string) (string, error) {
	cookie, err := r.Cookie(name)
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			return "", ErrCookieNotFound
		}
		return "", err
	}
	return cookie.Value, nil
}

// Delete expires a cookie on the client.
func (m *Manager) Delete(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     m.defaults.Path,
		Domain:   m.defaults.Domain,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		Secure:   m.defaults.Secure,
		HttpOnly: m.defaults.HttpOnly,
		SameSite: m.defaults.SameSite,
	})
}
