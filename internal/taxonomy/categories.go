package taxonomy

import "github.com/mhdismailalsayad/Accessiblity-analyzer/internal/model"

// Canonical issue categories. Every analyzer message is mapped to one of
// these by the canonicalizer, or kept as its own lowercased text when no
// rule matches.
const (
	ImageAltText          = "images must have alternative text"
	OneMainLandmark       = "document should have one main landmark"
	ContentInLandmarks    = "all page content should be contained by landmarks"
	DocumentTitle         = "document must have a title element"
	DocumentLanguage      = "document must have a language attribute"
	LinkDiscernibleText   = "links must have discernible text"
	FormLabels            = "form elements must have labels"
	AccessibleName        = "element requires an accessible name"
	AriaHiddenFocusable   = "aria-hidden element must not be focusable"
	PositiveTabindex      = "avoid positive tabindex values"
	FrameFocusableContent = "frames must not remove focusable content"
	ColorContrast         = "elements must meet minimum color contrast ratio thresholds"
	LinkInTextBlock       = "links must be distinguishable without relying on color"
	TargetSize            = "interactive elements must have sufficient size"
	FieldsetLegend        = "fieldsets must contain a legend element"
	AutocompleteValid     = "autocomplete attribute must be valid"
	ListChildren          = "lists must only contain allowed children"
	ScrollableFocusable   = "scrollable region must be focusable"
	PageHasHeadingOne     = "page should contain a level-one heading"
	AriaAttributesValid   = "aria attributes must be valid"
	NestedInteractive     = "interactive controls must not be nested"
	BypassBlocks          = "page must have a skip link or landmark"
	TableCellHeaders      = "table cells must have headers"
	DuplicateID           = "elements must have unique ids"
	MetaRefresh           = "page must not use timed refresh"
	MetaViewportZoom      = "page must allow zooming"
	InvalidAriaRole       = "element has an invalid aria role"
)

// Default weights for categories without an explicit entry.
const (
	DefaultSeverity   = model.SeverityModerate
	DefaultTypeFactor = 1.0
)

// Entry is one row of the taxonomy table.
type Entry struct {
	Category string
	CategoryInfo
}

// defaultEntries is the built-in table in canonical order.
var defaultEntries = []Entry{
	{ImageAltText, CategoryInfo{Severity: model.SeverityCritical, TypeFactor: 1.0, Label: "Fehlender Alternativtext"}},
	{OneMainLandmark, CategoryInfo{Severity: model.SeverityModerate, TypeFactor: 1.2, Label: "Fehlende Haupt‑Landmarke"}},
	{ContentInLandmarks, CategoryInfo{Severity: model.SeverityModerate, TypeFactor: 1.2, Label: "Inhalt außerhalb von Landmarken"}},
	{DocumentTitle, CategoryInfo{Severity: model.SeverityModerate, TypeFactor: 1.0, Label: "Fehlender Seitentitel"}},
	{DocumentLanguage, CategoryInfo{Severity: model.SeverityMinor, TypeFactor: 0.8, Label: "Fehlendes Sprachattribut"}},
	{LinkDiscernibleText, CategoryInfo{Severity: model.SeverityCritical, TypeFactor: 1.0, Label: "Nicht erkennbare Linktexte"}},
	{FormLabels, CategoryInfo{Severity: model.SeverityCritical, TypeFactor: 1.5, Label: "Unbeschriftetes Formularfeld"}},
	{AccessibleName, CategoryInfo{Severity: model.SeverityCritical, TypeFactor: 1.0, Label: "Fehlender Accessible Name"}},
	{AriaHiddenFocusable, CategoryInfo{Severity: model.SeveritySerious, TypeFactor: 1.2, Label: "ARIA‑hidden ist fokussierbar"}},
	{PositiveTabindex, CategoryInfo{Severity: model.SeverityModerate, TypeFactor: 1.0, Label: "Tabindex positiv gesetzt"}},
	{FrameFocusableContent, CategoryInfo{Severity: model.SeverityCritical, TypeFactor: 1.3, Label: "Frames entfernen fokussierbare Inhalte"}},
	{ColorContrast, CategoryInfo{Severity: model.SeverityModerate, TypeFactor: 1.2, Label: "Geringer Farbkontrast"}},
	{LinkInTextBlock, CategoryInfo{Severity: model.SeveritySerious, TypeFactor: 1.2, Label: "Links nur durch Farbe unterscheidbar"}},
	{TargetSize, CategoryInfo{Severity: model.SeveritySerious, TypeFactor: 1.5, Label: "Kleine interaktive Elemente"}},
	{FieldsetLegend, CategoryInfo{Severity: model.SeverityModerate, TypeFactor: 1.0, Label: "Fieldset ohne Legende"}},
	{AutocompleteValid, CategoryInfo{Severity: model.SeverityMinor, TypeFactor: 1.0, Label: "Ungültiges Autocomplete‑Attribut"}},
	{ListChildren, CategoryInfo{Severity: model.SeverityModerate, TypeFactor: 1.0, Label: "Liste enthält ungültige Kinder"}},
	{ScrollableFocusable, CategoryInfo{Severity: model.SeverityModerate, TypeFactor: 1.2, Label: "Nicht fokussierbarer Scrollbereich"}},
	{PageHasHeadingOne, CategoryInfo{Severity: model.SeverityModerate, TypeFactor: 1.0, Label: "Kein H1‑Element vorhanden"}},
	{AriaAttributesValid, CategoryInfo{Severity: model.SeverityModerate, TypeFactor: 1.1, Label: "Ungültiges ARIA‑Attribut"}},
	{NestedInteractive, CategoryInfo{Severity: model.SeveritySerious, TypeFactor: 1.2, Label: "Verschachtelte interaktive Elemente"}},
	{BypassBlocks, CategoryInfo{Severity: model.SeveritySerious, TypeFactor: 1.0, Label: "Kein Skip‑Link vorhanden"}},
	{TableCellHeaders, CategoryInfo{Severity: model.SeverityCritical, TypeFactor: 1.1, Label: "Tabellenzellen ohne Header"}},
	{DuplicateID, CategoryInfo{Severity: model.SeveritySerious, TypeFactor: 1.2, Label: "Nicht eindeutige IDs"}},
	{MetaRefresh, CategoryInfo{Severity: model.SeveritySerious, TypeFactor: 1.1, Label: "Zeitgesteuertes Refresh"}},
	{MetaViewportZoom, CategoryInfo{Severity: model.SeveritySerious, TypeFactor: 1.0, Label: "Zoom‑Funktion deaktiviert"}},
	{InvalidAriaRole, CategoryInfo{Severity: model.SeverityModerate, TypeFactor: 1.2, Label: "Ungültige ARIA‑Rolle"}},
}

// CanonicalCategories returns the built-in categories in table order.
func CanonicalCategories() []string {
	categories := make([]string, len(defaultEntries))
	for i, e := range defaultEntries {
		categories[i] = e.Category
	}
	return categories
}
