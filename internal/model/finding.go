package model

// RawFinding is one defect as reported by a single analyzer, before
// canonicalization. Message is the analyzer's own wording and Context is
// the offending HTML snippet, or empty when the analyzer gives none.
type RawFinding struct {
	Message string
	Context string
	Tool    Tool
}

// Finding is a defect after canonicalization.
//
// Only Message and Context are serialized. In a tool list Message holds the
// analyzer's original text; in the combined "All tools" list it holds the
// canonical category, matching the bewertung.json layout.
type Finding struct {
	Message string `json:"message"`
	Context string `json:"context"`

	// Category is the canonical category the message resolved to.
	Category string `json:"-"`

	// Label is the display label of Category.
	Label string `json:"-"`

	// Tool is the analyzer that reported the finding.
	Tool Tool `json:"-"`
}

// DedupKey identifies a finding for deduplication within and across tools.
type DedupKey struct {
	Category string
	Context  string
}

// Key returns the dedup identity of the finding.
func (f Finding) Key() DedupKey {
	return DedupKey{Category: f.Category, Context: f.Context}
}
