// Package middleware provides net/http middleware wiring the session and
// CSRF protection layers into a handler chain.
//
// Order matters: the session middleware must wrap the CSRF middleware so a
// session is available when the validation engine runs.
//
//	handler := middleware.Session(manager, cookies)(
//		middleware.CSRF(protector)(mux),
//	)
package middleware
