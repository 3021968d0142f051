package cookie

import "net/http"

// Config provides environment-based configuration for the cookie manager.
type Config struct {
	Path     string        `env:"COOKIE_PATH" envDefault:"/"`
	Domain   string        `env:"COOKIE_DOMAIN" envDefault:""`
	MaxAge   int           `env:"COOKIE_MAX_AGE" envDefault:"0"`
	Secure   bool          `env:"COOKIE_SECURE" envDefault:"false"`
	HttpOnly bool          `env:"COOKIE_HTTP_ONLY" envDefault:"true"`
	SameSite http.SameSite `env:"COOKIE_SAME_SITE" envDefault:"2"` // SameSiteLaxMode
	MaxSize  int           `env:"COOKIE_MAX_SIZE" envDefault:"4096"`
}

// DefaultConfig returns a Config with secure defaults.
func DefaultConfig() Config {
	return Config{
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxSize:  MaxCookieSize,
	}
}

// NewFromConfig creates a Manager from configuration.
func NewFromConfig(cfg Config, opts ...Option) *Manager {
	configOpts := make([]Option, 0, 8)

	if cfg.Path != "" {
		configOpts = append(configOpts, WithPath(cfg.Path))
	}
	if cfg.Domain != "" {
		configOpts = append(configOpts, WithDomain(cfg.Domain))
	}
	if cfg.MaxAge != 0 {
		configOpts = append(configOpts, WithMaxAge(cfg.MaxAge))
	}
	configOpts = append(configOpts,
		WithSecure(cfg.Secure),
		WithHTTPOnly(cfg.HttpOnly),
	)
	if cfg.SameSite != 0 {
		configOpts = append(configOpts, WithSameSite(cfg.SameSite))
	}

	// Caller-supplied options win over config values.
	configOpts = append(configOpts, opts...)

	managerOpts := make([]ManagerOption, 0, 1)
	if cfg.MaxSize > 0 {
		managerOpts = append(managerOpts, WithMaxSize(cfg.MaxSize))
	}

	return NewWithOptions(configOpts, managerOpts...)
}
