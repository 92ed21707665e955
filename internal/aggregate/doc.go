// Package aggregate combines the output of the three analyzers into one
// report per page.
//
// Findings are matched across analyzers by their canonical category and
// HTML context, so an image without alt text reported by pa11y, axe-core
// and Lighthouse on the same element counts once.
package aggregate
