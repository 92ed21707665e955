package extract

import (
	"encoding/json"

	"github.com/mhdismailalsayad/Accessiblity-analyzer/internal/canon"
	"github.com/mhdismailalsayad/Accessiblity-analyzer/internal/model"
)

// pa11yErrorType is the issue type pa11y uses for failures. Warnings and
// notices are informational and not counted.
const pa11yErrorType = "error"

// Pa11y reads pa11y JSON reporter output:
//
//	{"url": "...", "results": [{"type": "error", "message": "...", "context": "..."}]}
type Pa11y struct {
	base
}

var _ Extractor = (*Pa11y)(nil)

// NewPa11y creates a pa11y extractor.
func NewPa11y(c *canon.Canonicalizer, opts ...Option) *Pa11y {
	return &Pa11y{base: newBase(model.ToolPa11y, c, opts)}
}

// Extract returns the error-type issues of all entries.
func (p *Pa11y) Extract(entries []json.RawMessage) []model.RawFinding {
	out := p.newCollector()

	for i, raw := range entries {
		entry, ok := parseRecord(raw)
		if !ok {
			p.skip("entry", i)
			continue
		}

		for j, rawResult := range entry.list(model.ToolPa11y.PayloadKey()) {
			result, ok := parseRecord(rawResult)
			if !ok {
				p.skip("result", j)
				continue
			}
			if result.str("type") != pa11yErrorType {
				continue
			}
			out.add(result.str("message"), result.str("context"))
		}
	}
	return out.findings
}
