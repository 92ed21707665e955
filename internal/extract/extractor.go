package extract

import (
	"encoding/json"
	"log/slog"

	"github.com/mhdismailalsayad/Accessiblity-analyzer/internal/canon"
	"github.com/mhdismailalsayad/Accessiblity-analyzer/internal/model"
)

// Extractor turns one analyzer's result-file entries into findings.
//
// Extract never fails. Entries and records it cannot read are skipped, and
// the returned findings are deduplicated by canonical category and context
// in first-seen order.
type Extractor interface {
	Tool() model.Tool
	Extract(entries []json.RawMessage) []model.RawFinding
}

// Option configures an extractor.
type Option func(*base)

// WithLogger sets the logger used to report skipped records.
func WithLogger(logger *slog.Logger) Option {
	return func(b *base) {
		b.logger = logger
	}
}

// base holds what all extractors share.
type base struct {
	tool   model.Tool
	canon  *canon.Canonicalizer
	logger *slog.Logger
}

func newBase(tool model.Tool, c *canon.Canonicalizer, opts []Option) base {
	b := base{tool: tool, canon: c}
	for _, opt := range opts {
		opt(&b)
	}
	if b.canon == nil {
		b.canon = canon.New()
	}
	if b.logger == nil {
		b.logger = slog.Default()
	}
	return b
}

// Tool returns the analyzer the extractor reads.
func (b base) Tool() model.Tool {
	return b.tool
}

// skip logs a record that could not be read.
func (b base) skip(what string, index int) {
	b.logger.Debug("skipping malformed record",
		"tool", b.tool,
		"record", what,
		"index", index,
	)
}

// collector accumulates findings for one Extract call, dropping repeats of
// the same (category, context) pair.
type collector struct {
	tool     model.Tool
	canon    *canon.Canonicalizer
	seen     map[model.DedupKey]struct{}
	findings []model.RawFinding
}

func (b base) newCollector() *collector {
	return &collector{
		tool:     b.tool,
		canon:    b.canon,
		seen:     make(map[model.DedupKey]struct{}),
		findings: make([]model.RawFinding, 0),
	}
}

func (c *collector) add(message, context string) {
	key := model.DedupKey{Category: c.canon.Canonicalize(message), Context: context}
	if _, dup := c.seen[key]; dup {
		return
	}
	c.seen[key] = struct{}{}
	c.findings = append(c.findings, model.RawFinding{
		Message: message,
		Context: context,
		Tool:    c.tool,
	})
}

// New returns the extractor for tool t, or nil for an unknown tool.
func New(t model.Tool, c *canon.Canonicalizer, opts ...Option) Extractor {
	switch t {
	case model.ToolPa11y:
		return NewPa11y(c, opts...)
	case model.ToolAxe:
		return NewAxe(c, opts...)
	case model.ToolLighthouse:
		return NewLighthouse(c, opts...)
	default:
		return nil
	}
}

// All returns one extractor per tool in priority order.
func All(c *canon.Canonicalizer, opts ...Option) []Extractor {
	tools := model.Tools()
	out := make([]Extractor, 0, len(tools))
	for _, t := range tools {
		out = append(out, New(t, c, opts...))
	}
	return out
}

// EntryURL returns the page URL a result-file entry belongs to, or "" when
// it has none. Lighthouse entries without a url field fall back to the
// final, then the requested URL inside the report.
func EntryURL(t model.Tool, entry json.RawMessage) string {
	r, ok := parseRecord(entry)
	if !ok {
		return ""
	}
	if url := r.str("url"); url != "" {
		return url
	}
	if t != model.ToolLighthouse {
		return ""
	}

	lh := r.object(t.PayloadKey())
	if url := lh.str("finalUrl"); url != "" {
		return url
	}
	return lh.str("requestedUrl")
}
