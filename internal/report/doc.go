// Package report renders finished audits.
//
// Writers share the Writer interface and can be combined with MultiWriter:
//   - SimpleWriter: text for the terminal, with the prioritized issue list
//   - JSONWriter: the whole audit as JSON
//   - MarkdownWriter: GitHub-flavored Markdown with tables, a mermaid pie
//     chart and an alert for the score band
//   - SummaryWriter: the plain-text summary for screen reader users
package report
