// Package logger provides slog attribute helpers with consistent keys.
//
// Helpers return an empty slog.Attr for zero values, so call sites never
// need nil checks:
//
//	log.Warn("csrf validation failed",
//		logger.Error(err),
//		logger.Method(r.Method),
//		logger.Path(r.URL.Path),
//	)
package logger
