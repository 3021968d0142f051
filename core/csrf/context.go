package csrf

import (
	"context"
	"net/http"

	"github.com/dmitrymomot/surfguard/core/session"
)

// State tracks a request's progress through the validation state machine:
// UNCHECKED -> {EXEMPT, PENDING} -> {ACCEPTED, REJECTED}.
type State uint8

const (
	// StateUnchecked means no policy decision has been made for the request.
	StateUnchecked State = iota
	// StateExempt means the exemption policy ruled token checking out.
	StateExempt
	// StatePending means the request is subject to validation.
	StatePending
	// StateAccepted means validation ran and the tokens matched.
	StateAccepted
	// StateRejected means validation ran and the request was refused.
	StateRejected
)

// String implements fmt.Stringer for log output.
func (s State) String() string {
	switch s {
	case StateExempt:
		return "exempt"
	case StatePending:
		return "pending"
	case StateAccepted:
		return "accepted"
	case StateRejected:
		return "rejected"
	default:
		return "unchecked"
	}
}

// scopeKey is an unexported key type to avoid context key collisions.
type scopeKey struct{}

// requestScope carries the per-request validation state. It is attached to
// the request context by Protector.Begin and mutated in place, so the manual
// Validate entry point and the response finalizer observe the same state.
type requestScope struct {
	r              *http.Request
	sess           *session.Session
	state          State
	tokenRequested bool
}

func newContext(ctx context.Context, scope *requestScope) context.Context {
	return context.WithValue(ctx, scopeKey{}, scope)
}

func scopeFromContext(ctx context.Context) (*requestScope, bool) {
	if ctx == nil {
		return nil, false
	}
	scope, ok := ctx.Value(scopeKey{}).(*requestScope)
	return scope, ok
}

// StateFromContext returns the validation state recorded for the request,
// or StateUnchecked outside any protected request scope.
func StateFromContext(ctx context.Context) State {
	if scope, ok := scopeFromContext(ctx); ok {
		return scope.state
	}
	return StateUnchecked
}
