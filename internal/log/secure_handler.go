package log

import (
	"context"
	"io"
	"log/slog"
	"net/url"
	"regexp"
	"strings"
)

// secretKeys are attribute, header and query parameter names whose values
// are always masked. Names containing one of secretWords are masked too.
var secretKeys = map[string]struct{}{
	"cookie":     {},
	"set-cookie": {},
	"x-api-key":  {},
	"api-key":    {},
	"api_key":    {},
	"apikey":     {},
	"sid":        {},
	"phpsessid":  {},
}

// secretWords mark a name as sensitive when it contains one of them.
// "key" alone is left out: it would hide url and tool keys.
var secretWords = []string{
	"auth", "token", "password", "passwd", "secret",
	"credential", "private", "session",
}

var (
	jwtValue        = regexp.MustCompile(`^eyJ[A-Za-z0-9_-]*\.eyJ[A-Za-z0-9_-]*\.[A-Za-z0-9_-]*$`)
	bearerValue     = regexp.MustCompile(`(?i)^bearer\s+.+`)
	basicAuthValue  = regexp.MustCompile(`(?i)^basic\s+[A-Za-z0-9+/=]+$`)
	opaqueKeyValue  = regexp.MustCompile(`^[a-zA-Z0-9]{32,}$`)
	privateKeyValue = regexp.MustCompile(`(?i)-----BEGIN.*(PRIVATE|SECRET).*KEY-----`)
)

// secretValues match values that look like credentials whatever their key.
var secretValues = []*regexp.Regexp{jwtValue, bearerValue, basicAuthValue, opaqueKeyValue, privateKeyValue}

// MaskValue replaces masked values in log output.
const MaskValue = "***REDACTED***"

// SecureHandler is an slog.Handler that masks cookies, auth headers and
// tokens from site configuration before records reach the wrapped handler.
//
// Page URLs are logged everywhere, so a URL keeps its host and path; only
// its password and sensitive query parameters are masked.
type SecureHandler struct {
	handler slog.Handler
}

var _ slog.Handler = (*SecureHandler)(nil)

// NewSecureHandler wraps handler. A nil handler wraps the default logger's.
func NewSecureHandler(handler slog.Handler) *SecureHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	return &SecureHandler{handler: handler}
}

// Enabled defers to the wrapped handler.
func (h *SecureHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle masks the record's attributes and passes it on.
func (h *SecureHandler) Handle(ctx context.Context, r slog.Record) error {
	masked := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		masked.AddAttrs(mask(a))
		return true
	})
	return h.handler.Handle(ctx, masked)
}

// WithAttrs masks attrs before attaching them.
func (h *SecureHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &SecureHandler{handler: h.handler.WithAttrs(maskAll(attrs))}
}

// WithGroup returns a handler that nests attributes under name.
func (h *SecureHandler) WithGroup(name string) slog.Handler {
	return &SecureHandler{handler: h.handler.WithGroup(name)}
}

func maskAll(attrs []slog.Attr) []slog.Attr {
	out := make([]slog.Attr, 0, len(attrs))
	for _, a := range attrs {
		out = append(out, mask(a))
	}
	return out
}

// mask returns a with secrets replaced by MaskValue. Groups are walked.
func mask(a slog.Attr) slog.Attr {
	a.Value = a.Value.Resolve()

	switch {
	case a.Value.Kind() == slog.KindGroup:
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(maskAll(a.Value.Group())...)}
	case isSensitiveKey(a.Key):
		return slog.String(a.Key, MaskValue)
	case a.Value.Kind() == slog.KindString:
		return slog.String(a.Key, sanitizeString(a.Value.String()))
	case a.Value.Kind() == slog.KindAny:
		// Analyzer command lines are logged as string slices.
		if args, ok := a.Value.Any().([]string); ok {
			out := make([]string, len(args))
			for i, arg := range args {
				out[i] = sanitizeString(arg)
			}
			return slog.Any(a.Key, out)
		}
	}
	return a
}

// sanitizeString masks a sensitive value and strips secrets from URLs.
func sanitizeString(s string) string {
	if isSensitiveValue(s) {
		return MaskValue
	}
	if strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") {
		return sanitizeURL(s)
	}
	return s
}

// sanitizeURL masks the password and sensitive query parameters of a URL.
// Values that do not parse are returned unchanged.
func sanitizeURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}

	changed := false
	if u.User != nil {
		if _, ok := u.User.Password(); ok {
			u.User = url.UserPassword(u.User.Username(), MaskValue)
			changed = true
		}
	}

	if u.RawQuery != "" {
		q := u.Query()
		for key := range q {
			if isSensitiveKey(key) {
				q.Set(key, MaskValue)
				changed = true
			}
		}
		if changed {
			u.RawQuery = q.Encode()
		}
	}

	if !changed {
		return raw
	}
	return u.String()
}

// isSensitiveKey reports whether values under key must be masked.
func isSensitiveKey(key string) bool {
	key = strings.ToLower(key)
	if _, ok := secretKeys[key]; ok {
		return true
	}
	for _, word := range secretWords {
		if strings.Contains(key, word) {
			return true
		}
	}
	return false
}

// isSensitiveValue reports whether value looks like a credential.
func isSensitiveValue(value string) bool {
	for _, re := range secretValues {
		if re.MatchString(value) {
			return true
		}
	}
	return false
}

// level returns Debug for verbose output and Warn otherwise.
func level(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	return slog.LevelWarn
}

// NewSecureLogger creates a text slog.Logger that sanitizes its output.
// verbose lowers the level from Warn to Debug.
func NewSecureLogger(w io.Writer, verbose bool) *slog.Logger {
	return slog.New(NewSecureHandler(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level(verbose)})))
}

// NewSecureJSONLogger creates a JSON slog.Logger that sanitizes its output.
func NewSecureJSONLogger(w io.Writer, verbose bool) *slog.Logger {
	return slog.New(NewSecureHandler(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level(verbose)})))
}
