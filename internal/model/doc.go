// Package model defines the data structures shared by the audit packages.
//
// The main types are:
//   - Tool: one of the three external analyzers (pa11y, axe, lighthouse)
//   - RawFinding: a defect as reported by a single analyzer
//   - Finding: a defect after canonicalization, carrying its category and label
//   - PageReport: the per-URL result of combining all analyzers
//   - ScoreBreakdown: the 0-100 score and its ranked penalty items
//   - PageAudit and Audit: the working state of one page and of one audit run
//
// PageReport and ScoreBreakdown serialize to the bewertung.json and score.json
// layouts consumed by downstream tooling, so their JSON tags are part of the
// external contract.
package model
