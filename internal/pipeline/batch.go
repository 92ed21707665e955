package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/mhdismailalsayad/Accessiblity-analyzer/internal/model"
	"golang.org/x/sync/errgroup"
)

// BatchProcessor audits many pages concurrently.
// Each page gets a fresh pipeline from the factory.
type BatchProcessor struct {
	// pipelineFactory creates a new pipeline for each page.
	pipelineFactory func() *Pipeline

	// concurrency is the maximum number of pages audited at once.
	concurrency int

	// logger is used for batch-level logging.
	logger *slog.Logger
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent page audits.
// Default is 1, since every analyzer run starts its own browser.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a new BatchProcessor.
func NewBatchProcessor(pipelineFactory func() *Pipeline, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		pipelineFactory: pipelineFactory,
		concurrency:     1,
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// Concurrency returns the configured concurrency limit.
func (bp *BatchProcessor) Concurrency() int {
	return bp.concurrency
}

// ProcessBatch audits urls and returns one PageAudit per URL, in the same
// order as urls. Pages not started before cancellation are nil.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, urls []string) ([]*model.PageAudit, error) {
	results := make([]*model.PageAudit, len(urls))
	err := bp.ProcessBatchWithCallback(ctx, urls, func(page *model.PageAudit, index int) {
		// Each index is written by exactly one goroutine.
		results[index] = page
	})
	return results, err
}

// ProcessBatchWithCallback audits urls and calls callback for each finished
// page with its index in urls. The callback runs on the worker goroutine,
// so it must be safe for concurrent use when concurrency is above one.
func (bp *BatchProcessor) ProcessBatchWithCallback(
	ctx context.Context,
	urls []string,
	callback func(page *model.PageAudit, index int),
) error {
	bp.logger.Info("starting page audits",
		"total_pages", len(urls),
		"concurrency", bp.concurrency,
	)
	startTime := time.Now()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, url := range urls {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			bp.logger.Debug("auditing page",
				"url", url,
				"index", i+1,
				"total", len(urls),
			)

			page := model.NewPageAudit(url)
			if err := bp.pipelineFactory().Execute(ctx, page); err != nil {
				// Recorded in the page; other pages keep going.
				bp.logger.Warn("page audit failed",
					"url", url,
					"error", err,
				)
			}

			callback(page, i)
			return nil
		})
	}

	err := g.Wait()

	bp.logger.Info("page audits complete",
		"total_pages", len(urls),
		"elapsed", time.Since(startTime),
	)

	return err
}
