// Package results manages the files an audit run leaves in its output
// directory: one JSON list per analyzer, the combined per-page report, the
// score, the discovered URL list and the text summary.
package results
