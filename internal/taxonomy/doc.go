// Package taxonomy holds the table of canonical accessibility issue
// categories and their scoring weights.
//
// Each category has a severity (1-4), a type factor that scales the
// severity by how disruptive the class of defect is, and a German display
// label. Categories missing from the table fall back to DefaultSeverity and
// DefaultTypeFactor. A Taxonomy is immutable once built; configuration
// overrides are applied at construction through WithOverrides.
package taxonomy
