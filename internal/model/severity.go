package model

import (
	"fmt"
	"strings"
)

// Severity is the weight of an issue category, from 1 (minor) to 4 (critical).
// Higher values are more harmful to users. The names follow the axe-core
// impact levels.
type Severity int

const (
	// SeverityMinor marks defects that are an annoyance but rarely block users.
	// Example: a missing language attribute.
	SeverityMinor Severity = iota + 1

	// SeverityModerate marks defects that make content harder to use.
	// Example: low color contrast, a missing page title.
	SeverityModerate

	// SeveritySerious marks defects that block some users from some content.
	// Example: aria-hidden elements that still receive focus.
	SeveritySerious

	// SeverityCritical marks defects that block users from core content.
	// Example: images without alternative text, unlabeled form fields.
	SeverityCritical
)

// String returns a human-readable representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityMinor:
		return "minor"
	case SeverityModerate:
		return "moderate"
	case SeveritySerious:
		return "serious"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// Valid reports whether s is within the 1-4 range.
func (s Severity) Valid() bool {
	return s >= SeverityMinor && s <= SeverityCritical
}

// ParseSeverity parses either a severity name or its numeric value.
func ParseSeverity(value string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "minor", "1":
		return SeverityMinor, nil
	case "moderate", "2":
		return SeverityModerate, nil
	case "serious", "3":
		return SeveritySerious, nil
	case "critical", "4":
		return SeverityCritical, nil
	default:
		return 0, fmt.Errorf("invalid severity %q", value)
	}
}
