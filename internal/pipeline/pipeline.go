package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/mhdismailalsayad/Accessiblity-analyzer/internal/model"
)

// Step is one unit of work on a page audit, usually one analyzer run.
type Step interface {
	// Do runs the step. A tool that produced no result is recorded in the
	// page audit; only failures that should stop the page are returned.
	Do(ctx context.Context, page *model.PageAudit) error

	// Name identifies the step in logs and in PageAudit.PerformedSteps.
	Name() string
}

// Pipeline runs its steps in order on one page.
type Pipeline struct {
	steps           []Step
	logger          *slog.Logger
	continueOnError bool
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the pipeline logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithContinueOnError keeps running the remaining steps after one fails.
func WithContinueOnError(continueOnError bool) Option {
	return func(p *Pipeline) {
		p.continueOnError = continueOnError
	}
}

// New creates an empty Pipeline.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{logger: slog.Default()}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// Add appends steps to the pipeline.
func (p *Pipeline) Add(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs all steps on page and records the elapsed time.
// Cancellation is checked between steps; a running step has to honour ctx.
func (p *Pipeline) Execute(ctx context.Context, page *model.PageAudit) error {
	start := time.Now()
	defer func() { page.Duration = time.Since(start) }()

	for _, step := range p.steps {
		if err := ctx.Err(); err != nil {
			p.logger.Warn("page audit cancelled", "url", page.URL, "step", step.Name(), "reason", err)
			page.TimedOut = true
			return err
		}

		p.logger.Debug("running step", "url", page.URL, "step", step.Name())
		if err := step.Do(ctx, page); err != nil {
			p.logger.Error("step failed", "url", page.URL, "step", step.Name(), "error", err)
			if !p.continueOnError {
				return err
			}
		}
		page.PerformedSteps = append(page.PerformedSteps, step.Name())
	}
	return nil
}

// Len returns the number of steps.
func (p *Pipeline) Len() int {
	return len(p.steps)
}

// StepNames returns the step names in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, 0, len(p.steps))
	for _, step := range p.steps {
		names = append(names, step.Name())
	}
	return names
}
