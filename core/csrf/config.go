package csrf

import (
	"net/http"
	"time"
)

// Mode selects how route markings are interpreted by the exemption policy.
type Mode string

const (
	// ModeExempt checks every route unless explicitly marked exempt (default).
	ModeExempt Mode = "exempt"
	// ModeInclude checks only routes explicitly marked included.
	ModeInclude Mode = "include"
)

// jsonTokenField is the fixed field name probed in JSON request bodies,
// independent of the configured cookie name.
const jsonTokenField = "_csrf_token"

// Config holds the protection settings, resolved once at initialization.
type Config struct {
	// Disable turns the whole protection off; every request becomes exempt.
	Disable bool `env:"CSRF_DISABLE" envDefault:"false"`

	// CheckReferer enables the Referer origin check for HTTPS requests.
	CheckReferer bool `env:"CSRF_CHECK_REFERER" envDefault:"true"`

	// Mode selects exempt (opt-out) or include (opt-in) route marking.
	Mode Mode `env:"CSRF_MODE" envDefault:"exempt"`

	// CookieName names the token cookie, the form field, and the session key.
	CookieName string `env:"CSRF_COOKIE_NAME" envDefault:"_csrf_token"`

	// HeaderName names the custom request header carrying the token.
	HeaderName string `env:"CSRF_HEADER_NAME" envDefault:"X-CSRFToken"`

	// Cookie attributes applied when the token cookie is issued.
	CookieTimeout time.Duration `env:"CSRF_COOKIE_TIMEOUT" envDefault:"120h"`
	CookieDomain  string        `env:"CSRF_COOKIE_DOMAIN" envDefault:""`
	CookiePath    string        `env:"CSRF_COOKIE_PATH" envDefault:"/"`
	CookieSecure  bool          `env:"CSRF_COOKIE_SECURE" envDefault:"false"`
	// HttpOnly defaults to false: header-based submission needs the token
	// readable from JavaScript.
	CookieHTTPOnly bool          `env:"CSRF_COOKIE_HTTPONLY" envDefault:"false"`
	CookieSameSite http.SameSite `env:"CSRF_COOKIE_SAMESITE" envDefault:"2"` // SameSiteLaxMode
}

// DefaultConfig returns a Config with the stock names and a five-day
// cookie lifetime.
func DefaultConfig() Config {
	return Config{
		CheckReferer:   true,
		Mode:           ModeExempt,
		CookieName:     "_csrf_token",
		HeaderName:     "X-CSRFToken",
		CookieTimeout:  120 * time.Hour,
		CookiePath:     "/",
		CookieSameSite: http.SameSiteLaxMode,
	}
}

// normalize fills zero values so a partially populated Config behaves.
func (c Config) normalize() Config {
	def := DefaultConfig()
	if c.Mode != ModeInclude {
		c.Mode = ModeExempt
	}
	if c.CookieName == "" {
		c.CookieName = def.CookieName
	}
	if c.HeaderName == "" {
		c.HeaderName = def.HeaderName
	}
	if c.CookiePath == "" {
		c.CookiePath = def.CookiePath
	}
	if c.CookieTimeout <= 0 {
		c.CookieTimeout = def.CookieTimeout
	}
	if c.CookieSameSite == 0 {
		c.CookieSameSite = def.CookieSameSite
	}
	return c
}
