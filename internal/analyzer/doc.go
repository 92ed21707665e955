// Package analyzer runs the Node.js accessibility tools through npx.
//
// pa11y prints its JSON report on stdout. axe-core and Lighthouse write
// theirs to a temporary file that is read back and removed. All three exit
// non-zero when a page has issues, so a run fails only when no usable JSON
// comes out of it. Every run is bounded by a timeout.
package analyzer
