package taxonomy

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mhdismailalsayad/Accessiblity-analyzer/internal/model"
)

// CategoryInfo holds the scoring weights and display label of a category.
type CategoryInfo struct {
	// Severity is how harmful the defect class is to a user (1-4).
	Severity model.Severity `yaml:"severity"`

	// TypeFactor scales Severity by how disruptive the class of defect is.
	TypeFactor float64 `yaml:"type_factor"`

	// Label is the display string used in reports.
	Label string `yaml:"label"`
}

// Weight returns Severity multiplied by TypeFactor.
func (c CategoryInfo) Weight() float64 {
	return float64(c.Severity) * c.TypeFactor
}

// Override adjusts a category's weights. Zero fields keep the current value.
// Overriding an unknown category adds it to the table, which lets
// unrecognized messages be scored with explicit weights.
type Override struct {
	Severity   int     `yaml:"severity,omitempty"`
	TypeFactor float64 `yaml:"type_factor,omitempty"`
	Label      string  `yaml:"label,omitempty"`
}

// Taxonomy is the immutable table of issue categories.
// It is built once at startup and shared by reference; no method mutates it.
type Taxonomy struct {
	order     []string
	entries   map[string]CategoryInfo
	maxWeight float64
}

// Option configures a Taxonomy under construction.
type Option func(*builder) error

// builder collects the table before it is frozen into a Taxonomy.
type builder struct {
	order   []string
	entries map[string]CategoryInfo
}

// WithOverrides applies per-category weight and label overrides.
// Overrides are applied in the order of the built-in table first, then
// new categories in lexical order, so the result does not depend on map
// iteration order.
func WithOverrides(overrides map[string]Override) Option {
	return func(b *builder) error {
		// Same folding as the canonicalizer, so keys match its categories.
		lower := cases.Lower(language.Und)
		normalized := make(map[string]Override, len(overrides))
		for category, o := range overrides {
			normalized[strings.TrimSpace(lower.String(category))] = o
		}

		for _, category := range sortedKeys(normalized, b.entries, b.order) {
			if err := b.apply(category, normalized[category]); err != nil {
				return err
			}
		}
		return nil
	}
}

// apply merges one override into the table.
func (b *builder) apply(category string, o Override) error {
	info, exists := b.entries[category]
	if !exists {
		info = CategoryInfo{Severity: DefaultSeverity, TypeFactor: DefaultTypeFactor, Label: category}
		b.order = append(b.order, category)
	}

	if o.Severity != 0 {
		s := model.Severity(o.Severity)
		if !s.Valid() {
			return fmt.Errorf("%w: %q has severity %d", ErrInvalidSeverity, category, o.Severity)
		}
		info.Severity = s
	}
	if o.TypeFactor != 0 {
		if o.TypeFactor < 0 {
			return fmt.Errorf("%w: %q has type factor %v", ErrInvalidTypeFactor, category, o.TypeFactor)
		}
		info.TypeFactor = o.TypeFactor
	}
	if o.Label != "" {
		info.Label = o.Label
	}

	b.entries[category] = info
	return nil
}

// New builds a Taxonomy from the built-in table and the given options.
func New(opts ...Option) (*Taxonomy, error) {
	b := &builder{
		order:   make([]string, 0, len(defaultEntries)),
		entries: make(map[string]CategoryInfo, len(defaultEntries)),
	}
	for _, e := range defaultEntries {
		b.order = append(b.order, e.Category)
		b.entries[e.Category] = e.CategoryInfo
	}

	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, err
		}
	}

	t := &Taxonomy{
		order:   b.order,
		entries: b.entries,
	}
	for _, info := range t.entries {
		if w := info.Weight(); w > t.maxWeight {
			t.maxWeight = w
		}
	}
	if len(t.entries) == 0 {
		t.maxWeight = float64(DefaultSeverity) * DefaultTypeFactor
	}
	return t, nil
}

// Default returns the built-in taxonomy.
func Default() *Taxonomy {
	t, err := New()
	if err != nil {
		// The built-in table has no options to fail on.
		panic(err)
	}
	return t
}

// Lookup returns the weights for category.
// Unknown categories get DefaultSeverity and DefaultTypeFactor, labelled
// with the category text itself.
func (t *Taxonomy) Lookup(category string) CategoryInfo {
	if info, ok := t.entries[category]; ok {
		return info
	}
	return CategoryInfo{
		Severity:   DefaultSeverity,
		TypeFactor: DefaultTypeFactor,
		Label:      category,
	}
}

// Has reports whether category has an explicit entry.
func (t *Taxonomy) Has(category string) bool {
	_, ok := t.entries[category]
	return ok
}

// Categories returns all categories in table order.
func (t *Taxonomy) Categories() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// Entries returns a copy of the table in order.
func (t *Taxonomy) Entries() []Entry {
	out := make([]Entry, len(t.order))
	for i, category := range t.order {
		out[i] = Entry{Category: category, CategoryInfo: t.entries[category]}
	}
	return out
}

// Len returns the number of categories.
func (t *Taxonomy) Len() int {
	return len(t.order)
}

// MaxWeight returns the largest Severity*TypeFactor in the table.
// It anchors the score scale: a page whose findings all fall into the
// heaviest category loses exactly 100 points.
func (t *Taxonomy) MaxWeight() float64 {
	return t.maxWeight
}

// sortedKeys orders override keys: known categories in table order, then
// new categories sorted lexically.
func sortedKeys(overrides map[string]Override, entries map[string]CategoryInfo, order []string) []string {
	keys := make([]string, 0, len(overrides))
	for _, category := range order {
		if _, ok := overrides[category]; ok {
			keys = append(keys, category)
		}
	}

	added := make([]string, 0)
	for category := range overrides {
		if _, known := entries[category]; !known {
			added = append(added, category)
		}
	}
	sort.Strings(added)

	return append(keys, added...)
}
