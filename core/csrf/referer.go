package csrf

import (
	"net/http"
	"net/url"
	"strings"
)

// ValidateReferer enforces the Referer origin check for secure requests.
// When enabled and the request arrived over HTTPS, the Referer header must
// be present and its origin (scheme, host, port) must exactly equal the
// request's own origin; path and query differences are irrelevant.
// Disabled, or on plain HTTP, the check always accepts.
func ValidateReferer(r *http.Request, enabled bool) error {
	if !enabled || !isSecure(r) {
		return nil
	}

	referer := r.Header.Get("Referer")
	if referer == "" {
		return ErrRefererMismatch
	}

	ref, err := url.Parse(referer)
	if err != nil || ref.Scheme == "" || ref.Host == "" {
		return ErrRefererMismatch
	}

	if origin(ref.Scheme, ref.Host) != requestOrigin(r) {
		return ErrRefererMismatch
	}
	return nil
}

// isSecure reports whether the request was made over HTTPS.
func isSecure(r *http.Request) bool {
	return r.TLS != nil || strings.EqualFold(r.URL.Scheme, "https")
}

// requestOrigin reconstructs the request's own base origin.
func requestOrigin(r *http.Request) string {
	scheme := "http"
	if isSecure(r) {
		scheme = "https"
	}
	host := r.Host
	if host == "" {
		host = r.URL.Host
	}
	return origin(scheme, host)
}

func origin(scheme, host string) string {
	return strings.ToLower(scheme) + "://" + strings.ToLower(host)
}
