package analyzer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/mhdismailalsayad/Accessiblity-analyzer/internal/model"
)

// fakeCommander records invocations and returns canned output. When output
// is set it is also written to the file named by --output-path= or
// --dir/--save, the way axe-core and Lighthouse do.
type fakeCommander struct {
	mu     sync.Mutex
	calls  [][]string
	stdout string
	stderr string
	output string
	err    error
	delay  time.Duration
}

func (f *fakeCommander) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	f.mu.Lock()
	f.calls = append(f.calls, append([]string{name}, args...))
	f.mu.Unlock()

	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, nil, ctx.Err()
		}
	}

	if f.output != "" {
		if path := outputPath(args); path != "" {
			if err := os.WriteFile(path, []byte(f.output), 0o600); err != nil {
				return nil, nil, err
			}
		}
	}
	return []byte(f.stdout), []byte(f.stderr), f.err
}

func outputPath(args []string) string {
	var dir, save string
	for i, a := range args {
		if p, ok := strings.CutPrefix(a, "--output-path="); ok {
			return p
		}
		if a == "--dir" && i+1 < len(args) {
			dir = args[i+1]
		}
		if a == "--save" && i+1 < len(args) {
			save = args[i+1]
		}
	}
	if save == "" {
		return ""
	}
	return filepath.Join(dir, save)
}

func (f *fakeCommander) lastCall() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		return nil
	}
	return f.calls[len(f.calls)-1]
}

func TestPa11yRun(t *testing.T) {
	t.Parallel()

	t.Run("parses stdout despite non-zero exit", func(t *testing.T) {
		t.Parallel()
		cmd := &fakeCommander{
			stdout: `[{"type": "error", "message": "m", "context": "<a>"}]`,
			err:    errors.New("exit status 2"),
		}
		r := NewPa11y(WithCommander(cmd), WithNPX("npx"))

		payload, err := r.Run(context.Background(), "https://example.com/")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(string(payload), `"message"`) {
			t.Errorf("unexpected payload: %s", payload)
		}

		want := "npx pa11y --reporter json --include-warnings https://example.com/"
		if got := strings.Join(cmd.lastCall(), " "); got != want {
			t.Errorf("command = %q, want %q", got, want)
		}
	})

	t.Run("invalid output", func(t *testing.T) {
		t.Parallel()
		cmd := &fakeCommander{stdout: "Error: net::ERR_NAME_NOT_RESOLVED", err: errors.New("exit status 1")}
		r := NewPa11y(WithCommander(cmd))

		if _, err := r.Run(context.Background(), "https://nope.invalid/"); !errors.Is(err, ErrInvalidOutput) {
			t.Errorf("expected ErrInvalidOutput, got %v", err)
		}
	})

	t.Run("empty url", func(t *testing.T) {
		t.Parallel()
		if _, err := NewPa11y(WithCommander(&fakeCommander{})).Run(context.Background(), ""); !errors.Is(err, ErrEmptyURL) {
			t.Errorf("expected ErrEmptyURL, got %v", err)
		}
	})
}

func TestAxeRun(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cmd := &fakeCommander{output: `[{"violations": []}]`, err: errors.New("exit status 1")}
	r := NewAxe(WithCommander(cmd), WithNPX("npx"), WithTempDir(dir))

	payload, err := r.Run(context.Background(), "https://example.com/")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(payload) != `[{"violations": []}]` {
		t.Errorf("unexpected payload: %s", payload)
	}

	call := cmd.lastCall()
	if len(call) < 3 || call[1] != "@axe-core/cli" || call[2] != "https://example.com/" {
		t.Errorf("unexpected command: %v", call)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("temp file was not removed: %v", entries)
	}
}

func TestAxeRunWithoutOutput(t *testing.T) {
	t.Parallel()

	cmd := &fakeCommander{err: errors.New("exit status 1"), stderr: "chromedriver missing"}
	r := NewAxe(WithCommander(cmd), WithTempDir(t.TempDir()))

	_, err := r.Run(context.Background(), "https://example.com/")
	if !errors.Is(err, ErrInvalidOutput) {
		t.Fatalf("expected ErrInvalidOutput, got %v", err)
	}
	if !strings.Contains(err.Error(), "chromedriver missing") {
		t.Errorf("error should carry stderr: %v", err)
	}
}

func TestLighthouseRun(t *testing.T) {
	t.Parallel()

	cmd := &fakeCommander{output: `{"finalUrl": "https://example.com/", "audits": {}}`}
	r := NewLighthouse(WithCommander(cmd), WithNPX("npx"), WithTempDir(t.TempDir()))

	payload, err := r.Run(context.Background(), "https://example.com/")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(string(payload), "finalUrl") {
		t.Errorf("unexpected payload: %s", payload)
	}

	call := strings.Join(cmd.lastCall(), " ")
	for _, want := range []string{
		"npx lighthouse https://example.com/",
		"--only-categories=accessibility",
		"--output=json",
		"--chrome-flags=--headless",
		"--output-path=",
	} {
		if !strings.Contains(call, want) {
			t.Errorf("command %q is missing %q", call, want)
		}
	}
}

func TestRunTimeout(t *testing.T) {
	t.Parallel()

	cmd := &fakeCommander{delay: time.Second}
	r := NewPa11y(WithCommander(cmd), WithTimeout(20*time.Millisecond))

	start := time.Now()
	if _, err := r.Run(context.Background(), "https://example.com/"); err == nil {
		t.Fatal("expected error")
	}
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Errorf("timeout was not applied, took %v", elapsed)
	}
}

func TestForTools(t *testing.T) {
	t.Parallel()

	runners := ForTools([]model.Tool{model.ToolLighthouse, "wave", model.ToolPa11y})
	if len(runners) != 2 {
		t.Fatalf("got %d runners, want 2", len(runners))
	}
	if runners[0].Tool() != model.ToolLighthouse || runners[1].Tool() != model.ToolPa11y {
		t.Errorf("unexpected order: %s, %s", runners[0].Tool(), runners[1].Tool())
	}
}

func TestCheckNodeVersion(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		cmd     *fakeCommander
		version string
		wantErr error
	}{
		{"current", &fakeCommander{stdout: "v22.3.0\n"}, "22.3.0", nil},
		{"exact minimum", &fakeCommander{stdout: "v20.0.0"}, "20.0.0", nil},
		{"too old", &fakeCommander{stdout: "v18.19.1"}, "18.19.1", ErrNodeTooOld},
		{"not installed", &fakeCommander{err: errors.New("executable file not found")}, "", ErrNodeNotFound},
		{"garbage", &fakeCommander{stdout: "hello"}, "hello", ErrNodeNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			version, err := CheckNodeVersion(context.Background(), tc.cmd, MinNodeMajor)
			if version != tc.version {
				t.Errorf("version = %q, want %q", version, tc.version)
			}
			if tc.wantErr == nil && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if tc.wantErr != nil && !errors.Is(err, tc.wantErr) {
				t.Errorf("expected %v, got %v", tc.wantErr, err)
			}
			if got := strings.Join(tc.cmd.lastCall(), " "); got != "node -v" {
				t.Errorf("command = %q", got)
			}
		})
	}
}

func TestNPX(t *testing.T) {
	t.Parallel()

	if got := NPX(); got != "npx" && got != "npx.cmd" {
		t.Errorf("NPX() = %q", got)
	}
}

func TestExcerpt(t *testing.T) {
	t.Parallel()

	if got := excerpt([]byte("  short error\n")); got != "short error" {
		t.Errorf("excerpt() = %q", got)
	}

	// The cap falls inside the two-byte "ü".
	long := strings.Repeat("a", maxStderr-1) + strings.Repeat("ü", 10)
	got := excerpt([]byte(long))
	if !utf8.ValidString(got) {
		t.Errorf("excerpt cut a rune: %q", got[len(got)-8:])
	}
	if !strings.HasSuffix(got, "...") || len(got) > maxStderr+len("...") {
		t.Errorf("unexpected excerpt length %d", len(got))
	}
	if want := strings.Repeat("a", maxStderr-1) + "..."; got != want {
		t.Errorf("excerpt should stop before the split rune, got suffix %q", got[len(got)-8:])
	}
}
