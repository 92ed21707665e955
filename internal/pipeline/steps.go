package pipeline

import (
	"context"
	"log/slog"

	"github.com/mhdismailalsayad/Accessiblity-analyzer/internal/analyzer"
	"github.com/mhdismailalsayad/Accessiblity-analyzer/internal/model"
)

// AnalyzerStep runs one accessibility tool on the page.
// A failed run is recorded on the page and never stops the pipeline, so
// the other tools still get their turn.
type AnalyzerStep struct {
	runner analyzer.Runner
	logger *slog.Logger
}

// AnalyzerStepOption configures an AnalyzerStep.
type AnalyzerStepOption func(*AnalyzerStep)

// WithAnalyzerLogger sets a custom logger for the analyzer step.
func WithAnalyzerLogger(logger *slog.Logger) AnalyzerStepOption {
	return func(s *AnalyzerStep) {
		s.logger = logger
	}
}

// NewAnalyzerStep creates a step around runner.
func NewAnalyzerStep(runner analyzer.Runner, opts ...AnalyzerStepOption) *AnalyzerStep {
	s := &AnalyzerStep{
		runner: runner,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *AnalyzerStep) Name() string {
	return string(s.runner.Tool())
}

// Do runs the analyzer and stores its payload or its error.
func (s *AnalyzerStep) Do(ctx context.Context, page *model.PageAudit) error {
	tool := s.runner.Tool()

	payload, err := s.runner.Run(ctx, page.URL)
	if err != nil {
		s.logger.Warn("analyzer failed",
			"tool", tool,
			"url", page.URL,
			"error", err,
		)
		page.SetError(tool, err)

		// Cancellation is the only error worth stopping for.
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return nil
	}

	page.SetPayload(tool, payload)
	s.logger.Debug("analyzer succeeded", "tool", tool, "url", page.URL)
	return nil
}

// NewAuditPipeline creates a pipeline that runs the given analyzers in
// order. It keeps going when a step fails.
func NewAuditPipeline(runners []analyzer.Runner, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}

	p := New(WithLogger(logger), WithContinueOnError(true))
	for _, r := range runners {
		p.Add(NewAnalyzerStep(r, WithAnalyzerLogger(logger)))
	}
	return p
}
