package analyzer

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mhdismailalsayad/Accessiblity-analyzer/internal/model"
)

// Pa11y runs pa11y with its JSON reporter and reads the issue list from
// stdout. Warnings are requested too; the extractor drops them.
type Pa11y struct {
	runner
}

var _ Runner = (*Pa11y)(nil)

// NewPa11y creates a pa11y runner.
func NewPa11y(opts ...Option) *Pa11y {
	return &Pa11y{runner: newRunner(model.ToolPa11y, opts)}
}

// Args returns the npx arguments for url.
func (p *Pa11y) Args(url string) []string {
	return []string{"pa11y", "--reporter", "json", "--include-warnings", url}
}

// Run audits url. pa11y exits with status 2 when it finds issues, so the
// output decides success.
func (p *Pa11y) Run(ctx context.Context, url string) (json.RawMessage, error) {
	if url == "" {
		return nil, ErrEmptyURL
	}
	ctx, cancel := p.withTimeout(ctx)
	defer cancel()

	stdout, runErr := p.npxRun(ctx, url, p.Args(url)...)
	payload, err := parseJSON(stdout)
	if err != nil {
		if runErr != nil {
			return nil, fmt.Errorf("pa11y %s: %w: %w", url, err, runErr)
		}
		return nil, fmt.Errorf("pa11y %s: %w", url, err)
	}
	return payload, nil
}
