package middleware

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/surfguard/core/csrf"
	"github.com/dmitrymomot/surfguard/core/logger"
)

// CSRFConfig configures the CSRF protection middleware.
type CSRFConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(r *http.Request) bool
	// Protector is the validation engine (required)
	Protector *csrf.Protector
	// RouteID maps a request to the route identity used for policy lookup.
	// Default: the URL path.
	RouteID func(r *http.Request) string
	// Logger for structured logging of rejection reasons (default: io.Discard)
	Logger *slog.Logger
	// ErrorHandler writes the rejection response. Default: a generic 403
	// that does not reveal which check failed.
	ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)
}

// CSRF creates middleware enforcing CSRF protection with default settings.
//
// The middleware expects the session middleware to run first. Per request
// it computes the exemption decision, validates pending requests before
// the handler runs, and mirrors the session token into the client cookie
// afterwards. Rejected requests get a uniform 403; the specific reason
// goes to the log only.
func CSRF(p *csrf.Protector) func(http.Handler) http.Handler {
	return CSRFWithConfig(CSRFConfig{Protector: p})
}

// CSRFWithConfig creates a CSRF middleware with custom configuration.
func CSRFWithConfig(cfg CSRFConfig) func(http.Handler) http.Handler {
	if cfg.Protector == nil {
		panic("csrf middleware: protector is required")
	}
	if cfg.RouteID == nil {
		cfg.RouteID = func(r *http.Request) string { return r.URL.Path }
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
			http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.Skip != nil && cfg.Skip(r) {
				next.ServeHTTP(w, r)
				return
			}

			sess, _ := GetSession(r.Context())
			r, state := cfg.Protector.Begin(r, sess, cfg.RouteID(r))

			// The token cookie must be written before the first byte of the
			// response, but whether it is needed can depend on the handler
			// (a template requesting the token). The wrapper finalizes
			// lazily on the first write.
			fw := &finalizeWriter{
				ResponseWriter: w,
				finalize: func() {
					cfg.Protector.FinalizeResponse(w, r)
				},
			}

			if state == csrf.StatePending {
				if err := cfg.Protector.Validate(r.Context()); err != nil {
					cfg.Logger.WarnContext(r.Context(), "csrf validation failed",
						logger.Error(err),
						logger.Method(r.Method),
						logger.Path(r.URL.Path),
					)
					cfg.ErrorHandler(fw, r, err)
					fw.flush()
					return
				}
			}

			next.ServeHTTP(fw, r)
			fw.flush()
		})
	}
}

// finalizeWriter runs a finalize hook exactly once, just before the first
// byte of the response goes out (or at request end when the handler wrote
// nothing).
type finalizeWriter struct {
	http.ResponseWriter
	finalize func()
	done     bool
}

func (w *finalizeWriter) flush() {
	if w.done {
		return
	}
	w.done = true
	w.finalize()
}

// WriteHeader finalizes before the status line is committed.
func (w *finalizeWriter) WriteHeader(code int) {
	w.flush()
	w.ResponseWriter.WriteHeader(code)
}

// Write finalizes before an implicit 200 is committed.
func (w *finalizeWriter) Write(b []byte) (int, error) {
	w.flush()
	return w.ResponseWriter.Write(b)
}

// Unwrap supports http.ResponseController.
func (w *finalizeWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
