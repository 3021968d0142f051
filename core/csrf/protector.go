package csrf

import (
	"context"
	"crypto/subtle"
	"io"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/surfguard/core/cookie"
	"github.com/dmitrymomot/surfguard/core/logger"
	"github.com/dmitrymomot/surfguard/core/session"
)

// DisableCookieFunc decides per request whether the token cookie is
// suppressed on the response. The session token itself is untouched.
type DisableCookieFunc func(r *http.Request) bool

// Protector is the validation engine. It orchestrates the exemption policy,
// token extraction, and the Referer guard into an allow/deny decision per
// request, and mirrors the session token into the client cookie afterwards.
//
// A Protector is configured once at application setup and is safe for
// concurrent use; the policy registry and the cookie-suppression hook must
// not be mutated after serving starts.
type Protector struct {
	cfg           Config
	policy        *Policy
	cookies       *cookie.Manager
	cookieOpts    []cookie.Option
	log           *slog.Logger
	disableCookie DisableCookieFunc
}

// Option configures a Protector.
type Option func(*Protector)

// WithLogger sets the structured logger for validation outcomes.
// Defaults to a logger that discards output.
func WithLogger(log *slog.Logger) Option {
	return func(p *Protector) {
		if log != nil {
			p.log = log
		}
	}
}

// WithCookieManager sets the cookie manager used to issue the token cookie.
func WithCookieManager(m *cookie.Manager) Option {
	return func(p *Protector) {
		if m != nil {
			p.cookies = m
		}
	}
}

// New creates a Protector from the given configuration.
func New(cfg Config, opts ...Option) *Protector {
	cfg = cfg.normalize()

	p := &Protector{
		cfg:    cfg,
		policy: NewPolicy(cfg.Mode, cfg.Disable),
		log:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		cookieOpts: []cookie.Option{
			cookie.WithPath(cfg.CookiePath),
			cookie.WithDomain(cfg.CookieDomain),
			cookie.WithMaxAge(int(cfg.CookieTimeout.Seconds())),
			cookie.WithSecure(cfg.CookieSecure),
			cookie.WithHTTPOnly(cfg.CookieHTTPOnly),
			cookie.WithSameSite(cfg.CookieSameSite),
		},
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.cookies == nil {
		p.cookies = cookie.New()
	}

	return p
}

// Config returns the resolved configuration.
func (p *Protector) Config() Config {
	return p.cfg
}

// Policy returns the exemption registry for route marking at setup time.
func (p *Protector) Policy() *Policy {
	return p.policy
}

// Exempt marks route identities as exempt from validation.
func (p *Protector) Exempt(routeIDs ...string) {
	p.policy.Exempt(routeIDs...)
}

// Include marks route identities as subject to validation (include mode).
func (p *Protector) Include(routeIDs ...string) {
	p.policy.Include(routeIDs...)
}

// ExemptPrefixes registers URL path prefixes exempted regardless of route
// identity.
func (p *Protector) ExemptPrefixes(prefixes ...string) {
	p.policy.ExemptPrefixes(prefixes...)
}

// SetDisableCookieHandler registers the single cookie-suppression predicate.
// Call during application setup only.
func (p *Protector) SetDisableCookieHandler(fn DisableCookieFunc) {
	p.disableCookie = fn
}

// DisableCookieHandler returns the registered cookie-suppression predicate,
// or nil when none is set.
func (p *Protector) DisableCookieHandler() DisableCookieFunc {
	return p.disableCookie
}

// Begin attaches the per-request validation scope to the request context,
// computes the policy decision, and guarantees the session has a token
// bound. It returns the updated request and the resulting state, EXEMPT or
// PENDING. A nil session is tolerated; validation then fails closed.
func (p *Protector) Begin(r *http.Request, sess *session.Session, routeID string) (*http.Request, State) {
	scope := &requestScope{sess: sess, state: StateExempt}

	if p.policy.RequiresValidation(r.Method, r.URL.Path, routeID) {
		scope.state = StatePending
	}

	if sess != nil {
		if _, err := EnsureToken(sess, p.cfg.CookieName); err != nil {
			p.log.Error("csrf token generation failed", logger.Error(err))
		}
	}

	r = r.WithContext(newContext(r.Context(), scope))
	scope.r = r
	return r, scope.state
}

// Validate runs the PENDING transition for the request carried by ctx and
// records the outcome. An optional override token takes precedence over
// every extraction source; handlers use it for self-checks with
// out-of-band tokens.
//
// Outside any protected request scope it always returns
// ErrNoRequestContext before any token lookup. All failures satisfy
// errors.Is(err, ErrForbidden); the caller answers with a generic 403 and
// keeps the reason out of the response body.
func (p *Protector) Validate(ctx context.Context, override ...string) error {
	scope, ok := scopeFromContext(ctx)
	if !ok || scope.r == nil || scope.sess == nil {
		return ErrNoRequestContext
	}

	var ov string
	if len(override) > 0 {
		ov = override[0]
	}

	if err := p.check(scope, ov); err != nil {
		scope.state = StateRejected
		return err
	}

	scope.state = StateAccepted
	return nil
}

// check executes the decision sequence: Referer guard, extraction,
// constant-time comparison.
func (p *Protector) check(scope *requestScope, override string) error {
	expected, _ := scope.sess.Get(p.cfg.CookieName)

	if err := ValidateReferer(scope.r, p.cfg.CheckReferer); err != nil {
		return err
	}

	submitted := override
	if submitted == "" {
		submitted = requestToken(scope.r, p.cfg.CookieName, p.cfg.HeaderName)
	}
	if submitted == "" {
		return ErrMissingToken
	}

	if expected == "" || subtle.ConstantTimeCompare([]byte(expected), []byte(submitted)) != 1 {
		return ErrTokenMismatch
	}
	return nil
}

// Token returns the session's CSRF token for embedding into forms or
// templates and marks the request so the finalizer re-sends the cookie.
// Outside any protected request scope it returns ErrNoRequestContext.
func (p *Protector) Token(ctx context.Context) (string, error) {
	scope, ok := scopeFromContext(ctx)
	if !ok || scope.sess == nil {
		return "", ErrNoRequestContext
	}

	token, err := EnsureToken(scope.sess, p.cfg.CookieName)
	if err != nil {
		return "", err
	}

	scope.tokenRequested = true
	return token, nil
}

// RegenerateToken forcibly rotates the session's token. The old token stops
// validating immediately; the new one is mirrored to the client by the
// finalizer. Tokens are otherwise stable for the session's lifetime.
func (p *Protector) RegenerateToken(ctx context.Context) (string, error) {
	scope, ok := scopeFromContext(ctx)
	if !ok || scope.sess == nil {
		return "", ErrNoRequestContext
	}

	token, err := GenerateToken()
	if err != nil {
		return "", err
	}
	BindToken(scope.sess, p.cfg.CookieName, token)

	scope.tokenRequested = true
	return token, nil
}

// FinalizeResponse mirrors the session token into the client cookie. It
// runs for every request, exempt or not, so token availability for
// subsequent requests is guaranteed. The cookie is skipped when the
// registered suppression predicate fires, and re-sent only when the
// client's cookie is absent or stale or the token was requested during
// handling, which keeps caches intact.
func (p *Protector) FinalizeResponse(w http.ResponseWriter, r *http.Request) {
	scope, ok := scopeFromContext(r.Context())
	if !ok || scope.sess == nil {
		return
	}

	if p.disableCookie != nil && p.disableCookie(r) {
		return
	}

	token, ok := scope.sess.Get(p.cfg.CookieName)
	if !ok || token == "" {
		return
	}

	if !scope.tokenRequested {
		if current, err := p.cookies.Get(r, p.cfg.CookieName); err == nil && current == token {
			return
		}
	}

	if err := p.cookies.Set(w, p.cfg.CookieName, token, p.cookieOpts...); err != nil {
		p.log.Error("csrf cookie not set",
			logger.Error(err),
			logger.Path(r.URL.Path),
		)
	}
}
