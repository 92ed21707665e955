package score

import (
	"math"
	"sort"

	"github.com/mhdismailalsayad/Accessiblity-analyzer/internal/canon"
	"github.com/mhdismailalsayad/Accessiblity-analyzer/internal/model"
	"github.com/mhdismailalsayad/Accessiblity-analyzer/internal/taxonomy"
)

// maxScore is the score of a page without findings.
const maxScore = 100.0

// Scorer computes accessibility scores from combined findings.
// It holds no mutable state and is safe for concurrent use.
type Scorer struct {
	taxonomy *taxonomy.Taxonomy
	canon    *canon.Canonicalizer
}

// Option configures a Scorer.
type Option func(*Scorer)

// WithTaxonomy sets the category weights.
func WithTaxonomy(t *taxonomy.Taxonomy) Option {
	return func(s *Scorer) {
		s.taxonomy = t
	}
}

// WithCanonicalizer sets the canonicalizer applied to finding messages.
func WithCanonicalizer(c *canon.Canonicalizer) Option {
	return func(s *Scorer) {
		s.canon = c
	}
}

// New creates a Scorer. Without options it uses the built-in taxonomy.
func New(opts ...Option) *Scorer {
	s := &Scorer{}
	for _, opt := range opts {
		opt(s)
	}
	if s.taxonomy == nil {
		s.taxonomy = taxonomy.Default()
	}
	if s.canon == nil {
		s.canon = canon.New(canon.WithTaxonomy(s.taxonomy))
	}
	return s
}

// ScoreAll scores the combined findings of all reports as one scope.
func (s *Scorer) ScoreAll(reports []model.PageReport) model.ScoreBreakdown {
	findings := make([]model.Finding, 0)
	for _, r := range reports {
		findings = append(findings, r.AllFindings...)
	}
	return s.Score(findings)
}

// ScorePerURL scores each report on its own, in report order.
func (s *Scorer) ScorePerURL(reports []model.PageReport) []model.URLScore {
	out := make([]model.URLScore, 0, len(reports))
	for _, r := range reports {
		out = append(out, model.URLScore{
			URL:       r.URL,
			Breakdown: s.Score(r.AllFindings),
		})
	}
	return out
}

// Score computes the breakdown of one scope of combined findings.
//
// Each category's deduction is its weight times its share of all findings,
// scaled so that the heaviest category of the taxonomy costs exactly 100
// points when it makes up every finding. Because the shares sum to one,
// the total deduction never exceeds 100 however many findings there are.
// An empty scope scores 100.
func (s *Scorer) Score(findings []model.Finding) model.ScoreBreakdown {
	categories, counts := s.count(findings)

	total := 0
	for _, n := range counts {
		total += n
	}
	if total == 0 {
		return model.PerfectScore()
	}

	maxWeight := s.taxonomy.MaxWeight()
	if maxWeight <= 0 {
		maxWeight = 1
	}
	scaling := maxScore / maxWeight

	items := make([]model.ScoreItem, 0, len(categories))
	deduction := 0.0
	for _, category := range categories {
		freq := counts[category]
		info := s.taxonomy.Lookup(category)
		ratio := float64(freq) / float64(total)
		d := info.Weight() * ratio * scaling
		deduction += d

		items = append(items, model.ScoreItem{
			Label:          info.Label,
			Severity:       info.Severity,
			Frequency:      freq,
			TypeFactor:     info.TypeFactor,
			Deduction:      model.Round1(d),
			Category:       category,
			Ratio:          ratio,
			ExactDeduction: d,
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].ExactDeduction > items[j].ExactDeduction
	})

	return model.ScoreBreakdown{
		TotalDeduction: model.Round1(deduction),
		Score:          model.Round1(math.Max(0, maxScore-deduction)),
		Items:          items,
	}
}

// count tallies findings per category in first-seen order. Findings
// without a message name no category and are not counted.
func (s *Scorer) count(findings []model.Finding) ([]string, map[string]int) {
	order := make([]string, 0)
	counts := make(map[string]int)
	for _, f := range findings {
		category := s.canon.Canonicalize(f.Message)
		if category == "" {
			continue
		}
		if _, ok := counts[category]; !ok {
			order = append(order, category)
		}
		counts[category]++
	}
	return order, counts
}
