// Package log provides slog loggers that mask sensitive values.
//
// Audits can send a session cookie or extra headers to the audited site,
// and seed URLs sometimes carry credentials or tokens. SecureHandler wraps
// any slog.Handler and masks such values before they are written:
//   - attributes with sensitive keys (cookie, authorization, token, ...)
//   - values that look like bearer tokens, JWTs or API keys
//   - passwords and sensitive query parameters inside URLs
//
// Usage:
//
//	logger := log.NewSecureLogger(os.Stderr, verbose)
//	slog.SetDefault(logger)
package log
