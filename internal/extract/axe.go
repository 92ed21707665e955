package extract

import (
	"encoding/json"

	"github.com/mhdismailalsayad/Accessiblity-analyzer/internal/canon"
	"github.com/mhdismailalsayad/Accessiblity-analyzer/internal/model"
)

// Axe reads @axe-core/cli output. The axe_result field holds one result
// object or a list of them; each violation yields one finding per affected
// node.
type Axe struct {
	base
}

var _ Extractor = (*Axe)(nil)

// NewAxe creates an axe-core extractor.
func NewAxe(c *canon.Canonicalizer, opts ...Option) *Axe {
	return &Axe{base: newBase(model.ToolAxe, c, opts)}
}

// Extract returns one finding per violating node of all entries.
func (a *Axe) Extract(entries []json.RawMessage) []model.RawFinding {
	out := a.newCollector()

	for i, raw := range entries {
		entry, ok := parseRecord(raw)
		if !ok {
			a.skip("entry", i)
			continue
		}

		payload, _ := entry.raw(model.ToolAxe.PayloadKey())
		for _, rawResult := range NormalizePayload(payload).Results {
			result, _ := parseRecord(rawResult)
			a.violations(result, out)
		}
	}
	return out.findings
}

func (a *Axe) violations(result record, out *collector) {
	for i, rawViolation := range result.list("violations") {
		violation, ok := parseRecord(rawViolation)
		if !ok {
			a.skip("violation", i)
			continue
		}

		message := violation.str("help")
		if message == "" {
			message = violation.str("description")
		}

		for j, rawNode := range violation.list("nodes") {
			node, ok := parseRecord(rawNode)
			if !ok {
				a.skip("node", j)
				continue
			}
			out.add(message, node.str("html"))
		}
	}
}
