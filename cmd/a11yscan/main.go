// Package main provides the entry point for the a11yscan CLI.
//
// a11yscan crawls a website, runs pa11y, axe-core and Lighthouse on every
// page it finds, merges their findings and computes a 0-100 accessibility
// score with a prioritized list of problems.
//
// Usage:
//
//	a11yscan audit https://example.com
//	a11yscan score --per-url
//
// See --help for all available options.
package main

func main() {
	Execute()
}
