package canon

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhdismailalsayad/Accessiblity-analyzer/internal/taxonomy"
)

func TestCanonicalizeRules(t *testing.T) {
	t.Parallel()

	c := New()

	testCases := []struct {
		msg      string
		rule     string
		category string
	}{
		{"Img element missing an alt attribute.", "image-alt", taxonomy.ImageAltText},
		{"Images must have alternative text", "image-alt", taxonomy.ImageAltText},
		{"Document should have one main landmark", "landmark-one-main", taxonomy.OneMainLandmark},
		{"All page content should be contained by landmarks", "region", taxonomy.ContentInLandmarks},
		{"A title should be provided for the document, using a non-empty title element.", "document-title", taxonomy.DocumentTitle},
		{"<html> element must have a lang attribute", "html-has-lang", taxonomy.DocumentLanguage},
		{"Anchor element found with a valid href attribute, but no link content", "link-name", taxonomy.LinkDiscernibleText},
		{"Links must have discernible text", "link-name", taxonomy.LinkDiscernibleText},
		{"Form elements must have labels", "label", taxonomy.FormLabels},
		{"Use a <label> element, either implicit or explicit", "label-implicit-explicit", taxonomy.FormLabels},
		{"This button element does not have a name available to an accessibility API.", "accessible-name", taxonomy.AccessibleName},
		{"ARIA hidden element must not be focusable or contain focusable elements", "aria-hidden-focus", taxonomy.AriaHiddenFocusable},
		{"Element has a tabindex of +1", "tabindex", taxonomy.PositiveTabindex},
		{"Frames with focusable content must not have tabindex=-1", "frame-focusable-content", taxonomy.FrameFocusableContent},
		{"Element has insufficient color contrast of 2.51", "color-contrast", taxonomy.ColorContrast},
		{"The link has no styling (such as underline) to distinguish it", "link-in-text-block", taxonomy.LinkInTextBlock},
		{"Tap targets are not sized appropriately", "target-size", taxonomy.TargetSize},
		{"Fieldset does not have a legend as its first child", "fieldset-legend", taxonomy.FieldsetLegend},
		{"Element has an invalid autocomplete value", "autocomplete-valid", taxonomy.AutocompleteValid},
		{"List element has direct children that are not allowed: div", "list", taxonomy.ListChildren},
		{"Element should be focusable because it is scrollable", "scrollable-region-focusable", taxonomy.ScrollableFocusable},
		{"Page must contain a level-one heading", "page-has-heading-one", taxonomy.PageHasHeadingOne},
		{"ARIA attributes must conform to valid values", "aria-valid-attr", taxonomy.AriaAttributesValid},
		{"Element has nested interactive controls", "nested-interactive", taxonomy.NestedInteractive},
		{"Page must have means to bypass repeated blocks", "bypass", taxonomy.BypassBlocks},
		{"Data cells in a table must use table headers", "td-headers", taxonomy.TableCellHeaders},
		{"Duplicate id attribute value found on the page", "duplicate-id", taxonomy.DuplicateID},
		{"Timed refresh must not exist", "meta-refresh", taxonomy.MetaRefresh},
		{"Zooming is disabled with maximum-scale=1", "meta-viewport", taxonomy.MetaViewportZoom},
		{"ARIA role should be appropriate for the element", "aria-allowed-role", taxonomy.InvalidAriaRole},
	}

	for _, tc := range testCases {
		t.Run(tc.rule+"/"+tc.msg, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.category, c.Canonicalize(tc.msg))

			rule, ok := c.Match(strings.ToLower(tc.msg))
			require.True(t, ok)
			assert.Equal(t, tc.rule, rule.Name)
		})
	}
}

func TestEveryRuleIsReachable(t *testing.T) {
	t.Parallel()

	// Each rule's category must be a canonical category so the taxonomy
	// can weight it.
	tax := taxonomy.Default()
	for _, rule := range New().Rules() {
		assert.True(t, tax.Has(rule.Category), "rule %s maps to unknown category %q", rule.Name, rule.Category)
	}
	assert.Len(t, DefaultRules(), 28)
}

func TestCanonicalizeOrderMatters(t *testing.T) {
	t.Parallel()

	c := New()

	testCases := []struct {
		name string
		msg  string
		want string
	}{
		{
			name: "one main landmark before generic landmark",
			msg:  "Document should have one main landmark",
			want: taxonomy.OneMainLandmark,
		},
		{
			name: "form label before accessible name",
			msg:  "Form field has no label and no accessible name",
			want: taxonomy.FormLabels,
		},
		{
			name: "alt attribute before landmark",
			msg:  "Image outside any landmark is missing an alt attribute",
			want: taxonomy.ImageAltText,
		},
		{
			name: "positive tabindex before frame tabindex",
			msg:  "Frame uses tabindex=+2",
			want: taxonomy.PositiveTabindex,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, c.Canonicalize(tc.msg))
		})
	}
}

func TestCanonicalizeIsCaseInsensitive(t *testing.T) {
	t.Parallel()

	c := New()
	assert.Equal(t, taxonomy.ImageAltText, c.Canonicalize("IMG ELEMENT MISSING AN ALT ATTRIBUTE"))
	assert.Equal(t, c.Canonicalize("color contrast"), c.Canonicalize("COLOR Contrast"))
}

func TestCanonicalizeIsIdempotent(t *testing.T) {
	t.Parallel()

	c := New()
	for _, category := range taxonomy.CanonicalCategories() {
		assert.Equal(t, category, c.Canonicalize(category))
		assert.Equal(t, category, c.Canonicalize(strings.ToUpper(category)))
		assert.Equal(t, c.Canonicalize(category), c.Canonicalize(c.Canonicalize(category)))
	}

	msg := "Some Totally Unknown Message  "
	assert.Equal(t, c.Canonicalize(msg), c.Canonicalize(c.Canonicalize(msg)))
}

func TestCanonicalizeFallback(t *testing.T) {
	t.Parallel()

	c := New()

	assert.Equal(t, "some brand new message", c.Canonicalize("  Some Brand New Message  "))
	assert.Equal(t, "", c.Canonicalize(""))
	assert.Equal(t, "", c.Canonicalize("   "))
}

func TestWithTaxonomyKnowsOverriddenCategories(t *testing.T) {
	t.Parallel()

	// "landmark" would otherwise be swallowed by the region rule.
	tax, err := taxonomy.New(taxonomy.WithOverrides(map[string]taxonomy.Override{
		"custom landmark check": {Severity: 2},
	}))
	require.NoError(t, err)

	assert.Equal(t, taxonomy.ContentInLandmarks, New().Canonicalize("custom landmark check"))
	assert.Equal(t, "custom landmark check", New(WithTaxonomy(tax)).Canonicalize("Custom Landmark Check"))
}

func TestWithRules(t *testing.T) {
	t.Parallel()

	c := New(WithRules([]Rule{
		{Name: "only", Match: Contains("foo"), Category: "foo category"},
	}))

	assert.Equal(t, "foo category", c.Canonicalize("FOO bar"))
	assert.Equal(t, "landmark", c.Canonicalize("Landmark"))
	assert.Len(t, c.Rules(), 1)
}

func TestPredicates(t *testing.T) {
	t.Parallel()

	assert.True(t, AnyOf("a", "b")("xbx"))
	assert.False(t, AnyOf("a", "b")("xyz"))
	assert.True(t, AllOf("a", "b")("ab"))
	assert.False(t, AllOf("a", "b")("a"))
	assert.True(t, Any(Contains("q"), Contains("x"))("x"))
	assert.False(t, All(Contains("q"), Contains("x"))("x"))
}

func TestOverrideKeysFoldLikeMessages(t *testing.T) {
	t.Parallel()

	// Final sigma lowercases differently under Unicode case folding than
	// under a plain rune mapping.
	const msg = "ΟΔΟΣ ΧΩΡΙΣ ΕΤΙΚΕΤΑ"
	tax, err := taxonomy.New(taxonomy.WithOverrides(map[string]taxonomy.Override{
		msg: {Severity: 3, Label: "Ohne Beschriftung"},
	}))
	require.NoError(t, err)

	category := New(WithTaxonomy(tax)).Canonicalize(msg)
	require.True(t, tax.Has(category), "override not found for %q", category)
	assert.Equal(t, "Ohne Beschriftung", tax.Lookup(category).Label)
}
