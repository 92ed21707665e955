package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mhdismailalsayad/Accessiblity-analyzer/internal/model"
)

// DefaultTimeout bounds a single analyzer run. Lighthouse starts a headless
// Chrome, which can take a while on slow machines.
const DefaultTimeout = 3 * time.Minute

// maxStderr caps the stderr excerpt kept in errors.
const maxStderr = 512

// Runner runs one analyzer against a page.
//
// Run returns the analyzer's own JSON payload, not the wrapped result-file
// entry. A failed run returns an error and no payload; callers treat that
// as "no findings from this tool for this page".
type Runner interface {
	Tool() model.Tool
	Run(ctx context.Context, url string) (json.RawMessage, error)
}

// Option configures a runner.
type Option func(*runner)

// WithCommander replaces the command executor.
func WithCommander(c Commander) Option {
	return func(r *runner) {
		r.commander = c
	}
}

// WithTimeout sets the per-run timeout. Zero or negative disables it.
func WithTimeout(d time.Duration) Option {
	return func(r *runner) {
		r.timeout = d
	}
}

// WithNPX sets the npx executable.
func WithNPX(path string) Option {
	return func(r *runner) {
		if path != "" {
			r.npx = path
		}
	}
}

// WithTempDir sets where temporary result files are created.
func WithTempDir(dir string) Option {
	return func(r *runner) {
		r.tempDir = dir
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *runner) {
		r.logger = logger
	}
}

// runner holds the settings shared by all analyzers.
type runner struct {
	tool      model.Tool
	commander Commander
	timeout   time.Duration
	npx       string
	tempDir   string
	logger    *slog.Logger
}

func newRunner(tool model.Tool, opts []Option) runner {
	r := runner{
		tool:      tool,
		commander: ExecCommander{},
		timeout:   DefaultTimeout,
		npx:       NPX(),
	}
	for _, opt := range opts {
		opt(&r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r
}

// Tool returns the analyzer the runner invokes.
func (r runner) Tool() model.Tool {
	return r.tool
}

// withTimeout applies the run timeout to ctx.
func (r runner) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.timeout)
}

// npxRun runs an npx package and logs a non-zero exit. Analyzers exit
// non-zero when they find issues, so the exit status alone is not a
// failure; callers decide from the output.
func (r runner) npxRun(ctx context.Context, url string, args ...string) ([]byte, error) {
	r.logger.Debug("running analyzer", "tool", r.tool, "url", url, "args", args)

	start := time.Now()
	stdout, stderr, err := r.commander.Run(ctx, r.npx, args...)
	if err != nil {
		r.logger.Debug("analyzer exited with error",
			"tool", r.tool,
			"url", url,
			"error", err,
			"stderr", excerpt(stderr),
		)
		err = fmt.Errorf("%s exited: %w: %s", r.tool, err, excerpt(stderr))
	}
	r.logger.Debug("analyzer finished", "tool", r.tool, "url", url, "elapsed", time.Since(start))
	return stdout, err
}

// tempFile reserves a temporary file path for an analyzer to write to.
// The caller must remove it.
func (r runner) tempFile() (string, error) {
	f, err := os.CreateTemp(r.tempDir, "a11yscan-"+string(r.tool)+"-*.json")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	path := f.Name()
	if err := f.Close(); err != nil {
		_ = os.Remove(path) //nolint:errcheck // best-effort cleanup
		return "", fmt.Errorf("failed to close temp file: %w", err)
	}
	return path, nil
}

// readJSONFile reads an analyzer result file.
func readJSONFile(path string) (json.RawMessage, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read result file: %w", err)
	}
	return parseJSON(data)
}

// parseJSON validates analyzer output.
func parseJSON(data []byte) (json.RawMessage, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || !json.Valid(data) {
		return nil, ErrInvalidOutput
	}
	return json.RawMessage(data), nil
}

// excerpt shortens stderr for error messages.
func excerpt(stderr []byte) string {
	s := strings.TrimSpace(string(stderr))
	if len(s) > maxStderr {
		cut := maxStderr
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		return s[:cut] + "..."
	}
	return s
}

// New returns the runner for tool t, or nil for an unknown tool.
func New(t model.Tool, opts ...Option) Runner {
	switch t {
	case model.ToolPa11y:
		return NewPa11y(opts...)
	case model.ToolAxe:
		return NewAxe(opts...)
	case model.ToolLighthouse:
		return NewLighthouse(opts...)
	default:
		return nil
	}
}

// ForTools returns runners for tools in the given order.
func ForTools(tools []model.Tool, opts ...Option) []Runner {
	out := make([]Runner, 0, len(tools))
	for _, t := range tools {
		if r := New(t, opts...); r != nil {
			out = append(out, r)
		}
	}
	return out
}
