package csrf

import (
	"errors"
	"fmt"
)

// ErrForbidden is the uniform rejection every validation failure wraps.
// Callers check errors.Is(err, ErrForbidden) and answer with a generic 403;
// the wrapped reason is for logs only and must never reach the client.
var ErrForbidden = errors.New("csrf validation failed")

var (
	// ErrNoRequestContext is returned when validation runs outside any
	// protected request scope, or the request has no session. Always fatal
	// to the call; the engine fails closed.
	ErrNoRequestContext = fmt.Errorf("%w: no request context", ErrForbidden)

	// ErrMissingToken is returned when no token could be extracted from
	// form data, JSON body, or the configured header.
	ErrMissingToken = fmt.Errorf("%w: missing token", ErrForbidden)

	// ErrTokenMismatch is returned when a submitted token differs from the
	// token bound to the session.
	ErrTokenMismatch = fmt.Errorf("%w: token mismatch", ErrForbidden)

	// ErrRefererMismatch is returned when a secure request lacks a Referer
	// header or its origin differs from the request's own origin.
	ErrRefererMismatch = fmt.Errorf("%w: referer mismatch", ErrForbidden)

	// ErrTokenGeneration is returned when the random source fails.
	ErrTokenGeneration = errors.New("failed to generate csrf token")
)
