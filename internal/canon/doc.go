// Package canon reconciles the issue vocabularies of pa11y, axe-core and
// Lighthouse into one set of canonical categories.
//
// The three analyzers describe the same WCAG failure in different words:
// terse audit titles, imperative rule names, or long explanations. A
// Canonicalizer holds an ordered table of substring rules and maps each
// message to the category of the first rule that matches. Messages no rule
// recognizes become their own category (lowercased and trimmed) and are
// scored with the default weights.
package canon
