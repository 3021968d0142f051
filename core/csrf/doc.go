// Package csrf implements session-bound Cross-Site Request Forgery
// protection for server-rendered web applications.
//
// An unguessable token is bound to the user's session and mirrored into a
// client cookie. State-changing requests must submit that token back via a
// form field, a JSON body field, or a custom header; a request whose
// submitted token does not match the session's token is refused with a
// generic 403. Safe methods (GET, HEAD, OPTIONS, TRACE) are never token
// checked. For HTTPS requests the Referer header must additionally point
// at the request's own origin.
//
// # Setup
//
//	protector := csrf.New(csrf.DefaultConfig(),
//		csrf.WithLogger(log),
//		csrf.WithCookieManager(cookies),
//	)
//
//	// Route marking: an explicit identity-to-policy table.
//	protector.Exempt("/webhooks/stripe")
//	protector.ExemptPrefixes("/public/")
//
//	mux := http.NewServeMux()
//	handler := middleware.Session(manager, cookies)(
//		middleware.CSRF(protector)(mux),
//	)
//
// # Templates and manual validation
//
// Handlers embed the token into forms with Token, which also forces the
// cookie to be re-sent on the response:
//
//	token, err := protector.Token(r.Context())
//
// Otherwise-exempt handlers can self-check on demand:
//
//	if err := protector.Validate(r.Context()); err != nil {
//		http.Error(w, "Forbidden", http.StatusForbidden)
//		return
//	}
//
// Validate called outside any protected request always fails with
// ErrNoRequestContext, never with a token-comparison outcome.
//
// # Failure semantics
//
// Every rejection satisfies errors.Is(err, ErrForbidden). The wrapped
// reason (missing token, token mismatch, referer mismatch, no request
// context) is intended for structured logs; the client response stays a
// uniform 403 without revealing which check failed. Unparseable request
// bodies never abort the request: a malformed JSON body simply means "no
// token at that source" and extraction moves on to the next one.
package csrf
