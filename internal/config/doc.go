// Package config holds the options of an audit run and loads the optional
// .a11yscan file with per-site crawl settings and taxonomy overrides.
package config
