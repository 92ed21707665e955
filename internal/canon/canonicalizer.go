package canon

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mhdismailalsayad/Accessiblity-analyzer/internal/taxonomy"
)

// Canonicalizer maps analyzer messages to canonical issue categories.
// It is safe for concurrent use.
type Canonicalizer struct {
	rules []Rule
	known map[string]struct{}
}

// Option configures a Canonicalizer.
type Option func(*Canonicalizer)

// WithRules replaces the rule table.
func WithRules(rules []Rule) Option {
	return func(c *Canonicalizer) {
		c.rules = make([]Rule, len(rules))
		copy(c.rules, rules)
	}
}

// WithTaxonomy treats every category of t as already canonical, including
// categories added through configuration overrides.
func WithTaxonomy(t *taxonomy.Taxonomy) Option {
	return func(c *Canonicalizer) {
		for _, category := range t.Categories() {
			c.known[category] = struct{}{}
		}
	}
}

// New creates a Canonicalizer with the built-in rules.
func New(opts ...Option) *Canonicalizer {
	c := &Canonicalizer{
		rules: DefaultRules(),
		known: make(map[string]struct{}),
	}
	for _, category := range taxonomy.CanonicalCategories() {
		c.known[category] = struct{}{}
	}

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Canonicalize returns the canonical category for msg.
//
// The message is lowercased and tested against the rules in order; the
// first match wins. A message that already is a canonical category is
// returned unchanged, so canonicalizing twice gives the same result. When no
// rule matches, the trimmed lowercased message is its own category.
func (c *Canonicalizer) Canonicalize(msg string) string {
	lowered := cases.Lower(language.Und).String(msg)

	if _, ok := c.known[strings.TrimSpace(lowered)]; ok {
		return strings.TrimSpace(lowered)
	}

	if rule, ok := c.Match(lowered); ok {
		return rule.Category
	}
	return strings.TrimSpace(lowered)
}

// Match returns the first rule matching an already lowercased message.
func (c *Canonicalizer) Match(lowered string) (Rule, bool) {
	for _, rule := range c.rules {
		if rule.Match(lowered) {
			return rule, true
		}
	}
	return Rule{}, false
}

// Rules returns the rule table in evaluation order.
func (c *Canonicalizer) Rules() []Rule {
	rules := make([]Rule, len(c.rules))
	copy(rules, c.rules)
	return rules
}
