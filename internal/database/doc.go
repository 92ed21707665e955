// Package database keeps the history of audits in a SQLite file.
//
// Each finished audit is stored as one row in the audits table, holding
// the full audit as JSON plus the seed URL, timestamps, page count and
// overall score for listing. The page_reports table holds one row per
// audited page so the score of a single URL can be followed over time.
//
// The driver is modernc.org/sqlite, which needs no cgo. The database runs
// in WAL mode with a single open connection.
package database
