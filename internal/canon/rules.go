package canon

import (
	"strings"

	"github.com/mhdismailalsayad/Accessiblity-analyzer/internal/taxonomy"
)

// Predicate tests a lowercased analyzer message.
type Predicate func(msg string) bool

// Contains matches messages containing sub.
func Contains(sub string) Predicate {
	return func(msg string) bool {
		return strings.Contains(msg, sub)
	}
}

// AnyOf matches messages containing at least one of subs.
func AnyOf(subs ...string) Predicate {
	return func(msg string) bool {
		for _, sub := range subs {
			if strings.Contains(msg, sub) {
				return true
			}
		}
		return false
	}
}

// AllOf matches messages containing every one of subs.
func AllOf(subs ...string) Predicate {
	return func(msg string) bool {
		for _, sub := range subs {
			if !strings.Contains(msg, sub) {
				return false
			}
		}
		return true
	}
}

// Any matches when at least one predicate matches.
func Any(preds ...Predicate) Predicate {
	return func(msg string) bool {
		for _, p := range preds {
			if p(msg) {
				return true
			}
		}
		return false
	}
}

// All matches when every predicate matches.
func All(preds ...Predicate) Predicate {
	return func(msg string) bool {
		for _, p := range preds {
			if !p(msg) {
				return false
			}
		}
		return true
	}
}

// Rule maps messages matching Match to Category.
type Rule struct {
	// Name identifies the rule in tests and debug logs.
	Name string

	// Match is evaluated against the lowercased message.
	Match Predicate

	// Category is the canonical category returned on a match.
	Category string
}

// defaultRules is the ordered rule table. Rules overlap, so order matters:
// "one main landmark" must be tested before the generic "landmark" rule,
// and the form/label rules before the accessible-name rule.
var defaultRules = []Rule{
	{
		Name:     "image-alt",
		Match:    AnyOf("alt attribute", "alternative text", "missing alt"),
		Category: taxonomy.ImageAltText,
	},
	{
		Name:     "landmark-one-main",
		Match:    Contains("one main landmark"),
		Category: taxonomy.OneMainLandmark,
	},
	{
		Name:     "region",
		Match:    Contains("landmark"),
		Category: taxonomy.ContentInLandmarks,
	},
	{
		Name:     "document-title",
		Match:    AnyOf("page title", "title element"),
		Category: taxonomy.DocumentTitle,
	},
	{
		Name:     "html-has-lang",
		Match:    AnyOf("lang attribute", "document language"),
		Category: taxonomy.DocumentLanguage,
	},
	{
		Name:     "link-name",
		Match:    AnyOf("no link content", "discernible text", "anchor element found with a valid href"),
		Category: taxonomy.LinkDiscernibleText,
	},
	{
		Name:     "label",
		Match:    AllOf("form", "label"),
		Category: taxonomy.FormLabels,
	},
	{
		Name:     "label-implicit-explicit",
		Match:    All(Contains("<label>"), AnyOf("implicit", "explicit")),
		Category: taxonomy.FormLabels,
	},
	{
		Name:     "accessible-name",
		Match:    AnyOf("accessible name", "name available to an accessibility api", "does not have accessible text"),
		Category: taxonomy.AccessibleName,
	},
	{
		Name:     "aria-hidden-focus",
		Match:    Any(AllOf("aria hidden", "focusable"), Contains("focusable content should have tabindex")),
		Category: taxonomy.AriaHiddenFocusable,
	},
	{
		Name:     "tabindex",
		Match:    AllOf("tabindex", "+"),
		Category: taxonomy.PositiveTabindex,
	},
	{
		Name:     "frame-focusable-content",
		Match:    AllOf("frame", "tabindex"),
		Category: taxonomy.FrameFocusableContent,
	},
	{
		Name:     "color-contrast",
		Match:    Contains("color contrast"),
		Category: taxonomy.ColorContrast,
	},
	{
		Name:     "link-in-text-block",
		Match:    AnyOf("link has no styling", "relying on color"),
		Category: taxonomy.LinkInTextBlock,
	},
	{
		Name:     "target-size",
		Match:    AnyOf("insufficient size", "tap target"),
		Category: taxonomy.TargetSize,
	},
	{
		Name:     "fieldset-legend",
		Match:    AllOf("fieldset", "legend"),
		Category: taxonomy.FieldsetLegend,
	},
	{
		Name:     "autocomplete-valid",
		Match:    Contains("invalid autocomplete"),
		Category: taxonomy.AutocompleteValid,
	},
	{
		Name:     "list",
		Match:    AnyOf("list element has direct children", "<ul> and <ol> must only directly contain"),
		Category: taxonomy.ListChildren,
	},
	{
		Name:     "scrollable-region-focusable",
		Match:    AllOf("scrollable", "focusable"),
		Category: taxonomy.ScrollableFocusable,
	},
	{
		Name:     "page-has-heading-one",
		Match:    Contains("level-one heading"),
		Category: taxonomy.PageHasHeadingOne,
	},
	{
		Name:     "aria-valid-attr",
		Match:    AllOf("aria", "attribute", "valid"),
		Category: taxonomy.AriaAttributesValid,
	},
	{
		Name:     "nested-interactive",
		Match:    AllOf("interactive controls", "nested"),
		Category: taxonomy.NestedInteractive,
	},
	{
		Name:     "bypass",
		Match:    AllOf("bypass", "repeated blocks"),
		Category: taxonomy.BypassBlocks,
	},
	{
		Name:     "td-headers",
		Match:    AllOf("data cells", "table headers"),
		Category: taxonomy.TableCellHeaders,
	},
	{
		Name:     "duplicate-id",
		Match:    Contains("duplicate id"),
		Category: taxonomy.DuplicateID,
	},
	{
		Name:     "meta-refresh",
		Match:    AnyOf(`meta http-equiv"refresh`, "timed refresh"),
		Category: taxonomy.MetaRefresh,
	},
	{
		Name:     "meta-viewport",
		Match:    AnyOf(`user-scalable"=`, "maximum-scale"),
		Category: taxonomy.MetaViewportZoom,
	},
	{
		Name:     "aria-allowed-role",
		Match:    All(Contains("aria role"), AnyOf("not allowed", "appropriate", "invalid")),
		Category: taxonomy.InvalidAriaRole,
	},
}

// DefaultRules returns a copy of the built-in rule table in evaluation order.
func DefaultRules() []Rule {
	rules := make([]Rule, len(defaultRules))
	copy(rules, defaultRules)
	return rules
}
