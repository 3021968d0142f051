// Package cookie provides HTTP cookie management with shared secure defaults
// and size enforcement.
//
// A Manager carries the default attributes (path, domain, security flags)
// applied to every cookie it writes; individual calls can override them with
// functional options.
//
// # Basic Usage
//
//	manager := cookie.New(
//		cookie.WithSecure(true),
//		cookie.WithSameSite(http.SameSiteLaxMode),
//	)
//
//	// Set a cookie with an extra per-call option.
//	err := manager.Set(w, "theme", "dark", cookie.WithMaxAge(3600))
//
//	// Get a cookie value.
//	value, err := manager.Get(r, "theme")
//	if errors.Is(err, cookie.ErrCookieNotFound) {
//		// Cookie doesn't exist.
//	}
//
//	// Delete a cookie.
//	manager.Delete(w, "theme")
//
// # Environment Configuration
//
//	var cfg cookie.Config
//	config.MustLoad(&cfg)
//	manager := cookie.NewFromConfig(cfg)
package cookie
