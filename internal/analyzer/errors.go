package analyzer

import "errors"

// Sentinel errors for analyzer runs.
var (
	// ErrInvalidOutput is returned when an analyzer produced no JSON result.
	ErrInvalidOutput = errors.New("analyzer produced invalid output")

	// ErrNodeNotFound is returned when the node executable cannot be run.
	ErrNodeNotFound = errors.New("node.js not found")

	// ErrNodeTooOld is returned when the installed Node.js is older than
	// required by the analyzers.
	ErrNodeTooOld = errors.New("node.js version too old")

	// ErrEmptyURL is returned when Run is called without a URL.
	ErrEmptyURL = errors.New("empty url")
)
