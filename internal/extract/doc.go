// Package extract reads the raw JSON output of pa11y, axe-core and
// Lighthouse into findings.
//
// Each analyzer has its own Extractor. Input is the list of result-file
// entries for one or more pages, each entry wrapping one analyzer payload
// together with the page URL. Field access is lenient: a missing field or
// one of the wrong type reads as empty, and a record that cannot be read
// at all is skipped without affecting the rest of the file.
package extract
