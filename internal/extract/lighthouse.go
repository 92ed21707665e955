package extract

import (
	"encoding/json"

	"github.com/mhdismailalsayad/Accessiblity-analyzer/internal/canon"
	"github.com/mhdismailalsayad/Accessiblity-analyzer/internal/model"
)

// Lighthouse reads Lighthouse JSON reports restricted to the accessibility
// category. An audit failed when its score is a number below 1; audits with
// a null score are not applicable or informative and are ignored.
type Lighthouse struct {
	base
}

var _ Extractor = (*Lighthouse)(nil)

// NewLighthouse creates a Lighthouse extractor.
func NewLighthouse(c *canon.Canonicalizer, opts ...Option) *Lighthouse {
	return &Lighthouse{base: newBase(model.ToolLighthouse, c, opts)}
}

// Extract returns the failed audits of all entries. An audit listing
// failing nodes yields one finding per node; otherwise the audit yields a
// single finding with an empty context.
func (l *Lighthouse) Extract(entries []json.RawMessage) []model.RawFinding {
	out := l.newCollector()

	for i, raw := range entries {
		entry, ok := parseRecord(raw)
		if !ok {
			l.skip("entry", i)
			continue
		}

		// Entries are normally wrapped as {"url", "lighthouse_result"}, but a
		// bare report is accepted too.
		report := entry
		if entry.has(model.ToolLighthouse.PayloadKey()) {
			report = entry.object(model.ToolLighthouse.PayloadKey())
		}

		for j, rawAudit := range report.object("audits").values() {
			audit, ok := parseRecord(rawAudit)
			if !ok {
				l.skip("audit", j)
				continue
			}
			l.audit(audit, out)
		}
	}
	return out.findings
}

func (l *Lighthouse) audit(audit record, out *collector) {
	score, ok := audit.number("score")
	if !ok || score >= 1 {
		return
	}

	title := audit.str("title")
	items := audit.object("details").list("items")
	if len(items) == 0 {
		out.add(title, "")
		return
	}

	for _, rawItem := range items {
		// Items that are not objects read as an empty node.
		item, _ := parseRecord(rawItem)
		node := item.object("node")

		message := node.str("explanation")
		if message == "" {
			message = title
		}
		out.add(message, node.str("snippet"))
	}
}
