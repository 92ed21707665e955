package model

// PageReport is the combined result for one audited URL.
//
// The per-tool lists hold each analyzer's findings after within-tool
// deduplication. AllFindings merges the three lists in tool priority order,
// keeping the first finding for each (category, context) pair.
// A PageReport is created once by the aggregator and not modified afterwards.
type PageReport struct {
	URL         string    `json:"URL"`
	AllFindings []Finding `json:"All tools"`
	Pa11y       []Finding `json:"pa11y"`
	Axe         []Finding `json:"axe"`
	Lighthouse  []Finding `json:"lighthouse"`
}

// NewPageReport creates an empty report for url.
// Lists are non-nil so that they serialize as [] rather than null.
func NewPageReport(url string) PageReport {
	return PageReport{
		URL:         url,
		AllFindings: []Finding{},
		Pa11y:       []Finding{},
		Axe:         []Finding{},
		Lighthouse:  []Finding{},
	}
}

// ToolFindings returns the findings reported by tool t.
func (r PageReport) ToolFindings(t Tool) []Finding {
	switch t {
	case ToolPa11y:
		return r.Pa11y
	case ToolAxe:
		return r.Axe
	case ToolLighthouse:
		return r.Lighthouse
	default:
		return nil
	}
}

// setToolFindings replaces the list for tool t.
func (r *PageReport) setToolFindings(t Tool, findings []Finding) {
	switch t {
	case ToolPa11y:
		r.Pa11y = findings
	case ToolAxe:
		r.Axe = findings
	case ToolLighthouse:
		r.Lighthouse = findings
	}
}

// WithToolFindings returns a copy of r with the list for tool t replaced.
func (r PageReport) WithToolFindings(t Tool, findings []Finding) PageReport {
	if findings == nil {
		findings = []Finding{}
	}
	r.setToolFindings(t, findings)
	return r
}

// IssueCounts holds the number of findings per tool for one page.
type IssueCounts struct {
	URL        string
	Pa11y      int
	Axe        int
	Lighthouse int
	All        int
}

// Counts returns the number of findings per tool and in the combined list.
func (r PageReport) Counts() IssueCounts {
	return IssueCounts{
		URL:        r.URL,
		Pa11y:      len(r.Pa11y),
		Axe:        len(r.Axe),
		Lighthouse: len(r.Lighthouse),
		All:        len(r.AllFindings),
	}
}

// IsClean reports whether no tool found anything on the page.
func (r PageReport) IsClean() bool {
	return len(r.AllFindings) == 0
}
