package session

import "time"

// Config holds session manager configuration.
type Config struct {
	TTL           time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	TouchInterval time.Duration `env:"SESSION_TOUCH_INTERVAL" envDefault:"5m"`
	CookieName    string        `env:"SESSION_COOKIE_NAME" envDefault:"session_id"`
}

// DefaultConfig returns default configuration.
func DefaultConfig() Config {
	return Config{
		TTL:           24 * time.Hour,
		TouchInterval: 5 * time.Minute,
		CookieName:    "session_id",
	}
}

// NewFromConfig creates a Manager from configuration backed by the given store.
func NewFromConfig(cfg Config, store Store) *Manager {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultConfig().TTL
	}
	if cfg.TouchInterval < 0 {
		cfg.TouchInterval = 0
	}
	return NewManager(store, cfg.TTL, cfg.TouchInterval)
}
