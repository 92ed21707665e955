package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/mhdismailalsayad/Accessiblity-analyzer/internal/model"
)

// Lighthouse runs Lighthouse in headless Chrome, restricted to the
// accessibility category.
type Lighthouse struct {
	runner
}

var _ Runner = (*Lighthouse)(nil)

// NewLighthouse creates a Lighthouse runner.
func NewLighthouse(opts ...Option) *Lighthouse {
	return &Lighthouse{runner: newRunner(model.ToolLighthouse, opts)}
}

// Args returns the npx arguments for url, writing the report to out.
func (l *Lighthouse) Args(url, out string) []string {
	return []string{
		"lighthouse",
		url,
		"--only-categories=accessibility",
		"--output=json",
		"--chrome-flags=--headless",
		"--output-path=" + out,
	}
}

// Run audits url.
func (l *Lighthouse) Run(ctx context.Context, url string) (json.RawMessage, error) {
	if url == "" {
		return nil, ErrEmptyURL
	}
	ctx, cancel := l.withTimeout(ctx)
	defer cancel()

	out, err := l.tempFile()
	if err != nil {
		return nil, err
	}
	defer os.Remove(out) //nolint:errcheck // temp file cleanup

	_, runErr := l.npxRun(ctx, url, l.Args(url, out)...)
	payload, err := readJSONFile(out)
	if err != nil {
		if runErr != nil {
			return nil, fmt.Errorf("lighthouse %s: %w: %w", url, err, runErr)
		}
		return nil, fmt.Errorf("lighthouse %s: %w", url, err)
	}
	return payload, nil
}
