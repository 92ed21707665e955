package aggregate

import (
	"encoding/json"
	"log/slog"

	"github.com/mhdismailalsayad/Accessiblity-analyzer/internal/canon"
	"github.com/mhdismailalsayad/Accessiblity-analyzer/internal/extract"
	"github.com/mhdismailalsayad/Accessiblity-analyzer/internal/model"
	"github.com/mhdismailalsayad/Accessiblity-analyzer/internal/results"
	"github.com/mhdismailalsayad/Accessiblity-analyzer/internal/taxonomy"
)

// Inputs holds the raw result-file entries of each analyzer.
type Inputs struct {
	Pa11y      []json.RawMessage
	Axe        []json.RawMessage
	Lighthouse []json.RawMessage
}

// For returns the entries of tool t.
func (in Inputs) For(t model.Tool) []json.RawMessage {
	switch t {
	case model.ToolPa11y:
		return in.Pa11y
	case model.ToolAxe:
		return in.Axe
	case model.ToolLighthouse:
		return in.Lighthouse
	default:
		return nil
	}
}

// Add appends entries for tool t.
func (in *Inputs) Add(t model.Tool, entries ...json.RawMessage) {
	switch t {
	case model.ToolPa11y:
		in.Pa11y = append(in.Pa11y, entries...)
	case model.ToolAxe:
		in.Axe = append(in.Axe, entries...)
	case model.ToolLighthouse:
		in.Lighthouse = append(in.Lighthouse, entries...)
	}
}

// Len returns the total number of entries.
func (in Inputs) Len() int {
	return len(in.Pa11y) + len(in.Axe) + len(in.Lighthouse)
}

// Aggregator groups analyzer entries by page and merges the findings of the
// three analyzers into PageReports.
type Aggregator struct {
	canon      *canon.Canonicalizer
	taxonomy   *taxonomy.Taxonomy
	extractors []extract.Extractor
	logger     *slog.Logger
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithCanonicalizer sets the canonicalizer used for dedup keys.
func WithCanonicalizer(c *canon.Canonicalizer) Option {
	return func(a *Aggregator) {
		a.canon = c
	}
}

// WithTaxonomy sets the taxonomy used for finding labels.
func WithTaxonomy(t *taxonomy.Taxonomy) Option {
	return func(a *Aggregator) {
		a.taxonomy = t
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Aggregator) {
		a.logger = logger
	}
}

// New creates an Aggregator.
func New(opts ...Option) *Aggregator {
	a := &Aggregator{}
	for _, opt := range opts {
		opt(a)
	}

	if a.logger == nil {
		a.logger = slog.Default()
	}
	if a.taxonomy == nil {
		a.taxonomy = taxonomy.Default()
	}
	if a.canon == nil {
		a.canon = canon.New(canon.WithTaxonomy(a.taxonomy))
	}
	a.extractors = extract.All(a.canon, extract.WithLogger(a.logger))
	return a
}

// Combine builds one PageReport per URL.
//
// Entries are grouped by URL; entries without one are skipped. URLs keep
// the order in which they first appear, reading pa11y, then axe, then
// Lighthouse entries. Each tool list holds that tool's findings with the
// analyzer's own messages. The combined list walks the tool lists in
// priority order and keeps the first finding per (category, context) pair,
// with the category as its message.
func (a *Aggregator) Combine(in Inputs) []model.PageReport {
	urls, grouped := a.group(in)

	reports := make([]model.PageReport, 0, len(urls))
	for _, url := range urls {
		report := model.NewPageReport(url)
		for _, ex := range a.extractors {
			raw := ex.Extract(grouped[url][ex.Tool()])
			report = report.WithToolFindings(ex.Tool(), a.canonicalize(raw))
		}
		report.AllFindings = a.merge(report)
		reports = append(reports, report)
	}
	return reports
}

// group splits entries by URL, keeping first-seen URL order.
func (a *Aggregator) group(in Inputs) ([]string, map[string]map[model.Tool][]json.RawMessage) {
	urls := make([]string, 0)
	grouped := make(map[string]map[model.Tool][]json.RawMessage)

	for _, t := range model.Tools() {
		for i, entry := range in.For(t) {
			url := extract.EntryURL(t, entry)
			if url == "" {
				a.logger.Debug("skipping entry without url", "tool", t, "index", i)
				continue
			}
			if _, ok := grouped[url]; !ok {
				grouped[url] = make(map[model.Tool][]json.RawMessage)
				urls = append(urls, url)
			}
			grouped[url][t] = append(grouped[url][t], entry)
		}
	}
	return urls, grouped
}

// canonicalize attaches category and label to raw findings.
func (a *Aggregator) canonicalize(raw []model.RawFinding) []model.Finding {
	out := make([]model.Finding, 0, len(raw))
	for _, r := range raw {
		category := a.canon.Canonicalize(r.Message)
		out = append(out, model.Finding{
			Message:  r.Message,
			Context:  r.Context,
			Category: category,
			Label:    a.taxonomy.Lookup(category).Label,
			Tool:     r.Tool,
		})
	}
	return out
}

// merge builds the cross-tool list of a report.
func (a *Aggregator) merge(report model.PageReport) []model.Finding {
	seen := make(map[model.DedupKey]struct{})
	all := make([]model.Finding, 0)

	for _, t := range model.Tools() {
		for _, f := range report.ToolFindings(t) {
			if _, dup := seen[f.Key()]; dup {
				continue
			}
			seen[f.Key()] = struct{}{}

			merged := f
			merged.Message = f.Category
			all = append(all, merged)
		}
	}
	return all
}

// Load reads the result file of each tool into Inputs. A missing or
// unreadable file contributes no entries.
func (a *Aggregator) Load(paths map[model.Tool]string) Inputs {
	var in Inputs
	for _, t := range model.Tools() {
		path, ok := paths[t]
		if !ok {
			continue
		}
		entries, err := results.ReadEntries(path)
		if err != nil {
			a.logger.Debug("no usable result file", "tool", t, "path", path, "error", err)
			continue
		}
		in.Add(t, entries...)
	}
	return in
}
