package taxonomy

import "errors"

// Errors returned when building a Taxonomy with invalid overrides.
var (
	// ErrInvalidSeverity is returned when an override severity is outside 1-4.
	ErrInvalidSeverity = errors.New("invalid severity: must be between 1 and 4")

	// ErrInvalidTypeFactor is returned when an override type factor is negative.
	ErrInvalidTypeFactor = errors.New("invalid type factor: must be non-negative")
)
