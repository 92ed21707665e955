// Package score turns combined findings into a 0 to 100 accessibility score
// with a ranked list of penalties.
//
// The score weights categories by their share of the findings rather than
// by raw counts, so pages with very different issue volumes stay
// comparable: a page with a thousand low-contrast warnings is not rated
// worse than a page whose only problem is a missing form label.
package score
