// Package pipeline runs the accessibility analyzers on each audited page.
//
// A Pipeline is an ordered list of steps applied to one model.PageAudit;
// the audit pipeline has one AnalyzerStep per enabled tool, in the fixed
// tool order (pa11y, axe, lighthouse). BatchProcessor fans pages out over
// a bounded number of goroutines with errgroup and returns the results in
// input order.
package pipeline
