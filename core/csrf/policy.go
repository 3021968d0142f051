package csrf

import "strings"

// safeMethods are HTTP methods defined to have no side effects; they are
// never subject to token checking.
var safeMethods = map[string]struct{}{
	"GET":     {},
	"HEAD":    {},
	"OPTIONS": {},
	"TRACE":   {},
}

// IsSafeMethod reports whether the method is exempt from token checking
// by convention.
func IsSafeMethod(method string) bool {
	_, ok := safeMethods[strings.ToUpper(method)]
	return ok
}

// Policy decides per request whether token validation applies. Route
// markings are an explicit identity-to-policy table populated at
// application setup; the policy is read-only during request processing.
type Policy struct {
	disabled bool
	mode     Mode
	exempt   map[string]struct{}
	include  map[string]struct{}
	prefixes []string
}

// NewPolicy creates a policy for the given mode. When disabled is true,
// every request is exempt regardless of markings.
func NewPolicy(mode Mode, disabled bool) *Policy {
	if mode != ModeInclude {
		mode = ModeExempt
	}
	return &Policy{
		disabled: disabled,
		mode:     mode,
		exempt:   make(map[string]struct{}),
		include:  make(map[string]struct{}),
	}
}

// Exempt marks route identities as exempt from validation (exempt mode).
// Marking a handler's identity covers every URL pattern mapped to it.
func (p *Policy) Exempt(routeIDs ...string) {
	for _, id := range routeIDs {
		p.exempt[id] = struct{}{}
	}
}

// Include marks route identities as subject to validation (include mode).
func (p *Policy) Include(routeIDs ...string) {
	for _, id := range routeIDs {
		p.include[id] = struct{}{}
	}
}

// ExemptPrefixes registers URL path prefixes exempted regardless of route
// identity. Matching is prefix-based, not exact.
func (p *Policy) ExemptPrefixes(prefixes ...string) {
	p.prefixes = append(p.prefixes, prefixes...)
}

// RequiresValidation computes the policy decision for a request, in
// precedence order: global disable, safe methods, then mode-specific
// route markings and exempt URL prefixes.
func (p *Policy) RequiresValidation(method, path, routeID string) bool {
	if p.disabled {
		return false
	}
	if IsSafeMethod(method) {
		return false
	}

	if p.mode == ModeInclude {
		_, included := p.include[routeID]
		return included
	}

	if _, ok := p.exempt[routeID]; ok {
		return false
	}
	for _, prefix := range p.prefixes {
		if strings.HasPrefix(path, prefix) {
			return false
		}
	}
	return true
}
