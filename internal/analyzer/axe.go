package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mhdismailalsayad/Accessiblity-analyzer/internal/model"
)

// Axe runs the axe-core CLI, which writes its result to a file.
type Axe struct {
	runner
}

var _ Runner = (*Axe)(nil)

// NewAxe creates an axe-core runner.
func NewAxe(opts ...Option) *Axe {
	return &Axe{runner: newRunner(model.ToolAxe, opts)}
}

// Args returns the npx arguments for url, saving the result to out.
func (a *Axe) Args(url, out string) []string {
	return []string{"@axe-core/cli", url, "--dir", filepath.Dir(out), "--save", filepath.Base(out)}
}

// Run audits url.
func (a *Axe) Run(ctx context.Context, url string) (json.RawMessage, error) {
	if url == "" {
		return nil, ErrEmptyURL
	}
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	out, err := a.tempFile()
	if err != nil {
		return nil, err
	}
	defer os.Remove(out) //nolint:errcheck // temp file cleanup

	_, runErr := a.npxRun(ctx, url, a.Args(url, out)...)
	payload, err := readJSONFile(out)
	if err != nil {
		if runErr != nil {
			return nil, fmt.Errorf("axe %s: %w: %w", url, err, runErr)
		}
		return nil, fmt.Errorf("axe %s: %w", url, err)
	}
	return payload, nil
}
