package config

import "errors"

// Configuration validation errors returned by Config.Validate.
var (
	// ErrNoTarget is returned when no URL to audit was given.
	ErrNoTarget = errors.New("no target specified: provide the URL of the site to audit")

	// ErrNoTools is returned when every analyzer was deselected.
	ErrNoTools = errors.New("no analyzers selected: use --tools with pa11y, axe or lighthouse")

	// ErrUnknownTool is returned when the tool list contains an unknown analyzer.
	ErrUnknownTool = errors.New("unknown analyzer: must be pa11y, axe or lighthouse")

	// ErrInvalidTimeout is returned when the analyzer timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidConcurrency is returned when the concurrency is not positive.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be positive")

	// ErrInvalidDepth is returned when the crawl depth is negative.
	ErrInvalidDepth = errors.New("invalid depth: must be non-negative")

	// ErrInvalidMaxPages is returned when a page limit is negative.
	// Use 0 to audit every discovered page.
	ErrInvalidMaxPages = errors.New("invalid max pages: must be non-negative")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrInvalidCrawlDelay is returned when the crawl delay is negative.
	ErrInvalidCrawlDelay = errors.New("invalid crawl delay: must be non-negative")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrConfigNotFound is returned when the configuration file does not exist.
	ErrConfigNotFound = errors.New("configuration file not found")
)
