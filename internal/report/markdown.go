package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/mhdismailalsayad/Accessiblity-analyzer/internal/model"
)

// maxContextLen bounds the HTML excerpt shown per finding.
const maxContextLen = 60

// MarkdownWriter outputs audits as GitHub-flavored Markdown.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the audit in Markdown format.
func (w *MarkdownWriter) Write(audit *model.Audit) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, audit)
	w.writeSummary(md, audit)
	w.writePages(md, audit)
	w.writeToolErrors(md, audit)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with audit information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, audit *model.Audit) {
	md.H1("Accessibility Audit Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Site", "`" + audit.SeedURL + "`"},
			{"Audit ID", "`" + audit.ID + "`"},
			{"Audit Date", audit.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Pages Audited", strconv.Itoa(len(audit.Reports))},
			{"Score", fmt.Sprintf("**%.1f**/100", audit.Overall.Score)},
		},
	})
	md.PlainText("")
}

// writeSummary writes the prioritized issue table, chart and alert.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, audit *model.Audit) {
	md.H2("Prioritized Issues")
	md.PlainText("")

	if len(audit.Overall.Items) > 0 {
		md.Table(breakdownTable(audit.Overall))
		md.PlainText("")
		md.PlainTextf("Total deduction: **%.1f**", audit.Overall.TotalDeduction)
		md.PlainText("")
		w.writePieChart(md, audit.Overall)
	} else {
		md.PlainText("No accessibility issues found.")
		md.PlainText("")
	}

	w.writeAlert(md, audit.Overall)
}

// breakdownTable renders score items as a table.
func breakdownTable(b model.ScoreBreakdown) markdown.TableSet {
	rows := make([][]string, len(b.Items))
	for i, item := range b.Items {
		rows[i] = []string{
			item.Label,
			item.Severity.String(),
			strconv.Itoa(item.Frequency),
			strconv.FormatFloat(item.TypeFactor, 'f', 1, 64),
			strconv.FormatFloat(item.Deduction, 'f', 1, 64),
		}
	}
	return markdown.TableSet{
		Header: []string{"Issue", "Severity", "Frequency", "Type Factor", "Deduction"},
		Rows:   rows,
	}
}

// writePieChart writes a mermaid pie chart of issue frequency by category.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, b model.ScoreBreakdown) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Issue Distribution"),
		piechart.WithShowData(true),
	)

	for _, item := range b.Items {
		if item.Frequency > 0 {
			chart.LabelAndIntValue(chartLabel(item.Label), uint64(item.Frequency))
		}
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// chartLabel makes a label safe inside the quoted mermaid pie labels.
// Labels of unknown categories are raw analyzer text and may hold quotes
// or line breaks.
func chartLabel(label string) string {
	return strings.NewReplacer(`"`, "'", "\n", " ", "\r", " ").Replace(label)
}

// writeAlert writes an alert matching the score band.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, b model.ScoreBreakdown) {
	switch Band(b.Score) {
	case "critical":
		md.Cautionf("Score %.1f: severe accessibility barriers. Fix the top issues first.", b.Score)
	case "poor":
		md.Warningf("Score %.1f: many users will hit accessibility barriers.", b.Score)
	case "fair":
		md.Importantf("Score %.1f: some accessibility issues should be addressed.", b.Score)
	default:
		if len(b.Items) > 0 {
			md.Note("Only minor accessibility issues detected.")
		} else {
			md.Tip("No accessibility issues detected by the analyzers.")
		}
	}
	md.PlainText("")
}

// writePages writes one section per audited page.
func (w *MarkdownWriter) writePages(md *markdown.Markdown, audit *model.Audit) {
	md.H2("Pages")
	md.PlainText("")

	if len(audit.Reports) == 0 {
		md.PlainText("No pages audited.")
		md.PlainText("")
		return
	}

	scores := pageScores(audit)
	rows := make([][]string, len(audit.Reports))
	for i, report := range audit.Reports {
		breakdown, ok := scores[report.URL]
		if !ok {
			breakdown = model.PerfectScore()
		}
		c := report.Counts()
		rows[i] = []string{
			report.URL,
			strconv.FormatFloat(breakdown.Score, 'f', 1, 64),
			strconv.Itoa(c.Pa11y),
			strconv.Itoa(c.Axe),
			strconv.Itoa(c.Lighthouse),
			strconv.Itoa(c.All),
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"URL", "Score", "pa11y", "axe", "lighthouse", "All tools"},
		Rows:   rows,
	})
	md.PlainText("")

	for _, report := range audit.Reports {
		if report.IsClean() {
			continue
		}
		md.H3(report.URL)
		md.PlainText("")
		if breakdown, ok := scores[report.URL]; ok && len(breakdown.Items) > 0 {
			md.Table(breakdownTable(breakdown))
			md.PlainText("")
		}
		w.writeFindings(md, report.AllFindings)
	}
}

// writeFindings writes the deduplicated findings of a page.
func (w *MarkdownWriter) writeFindings(md *markdown.Markdown, findings []model.Finding) {
	rows := make([][]string, len(findings))
	for i, f := range findings {
		context := f.Context
		if context == "" {
			context = "-"
		}
		rows[i] = []string{f.Message, "`" + truncateString(context, maxContextLen) + "`"}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Issue", "Element"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeToolErrors lists analyzer runs that produced no result.
func (w *MarkdownWriter) writeToolErrors(md *markdown.Markdown, audit *model.Audit) {
	if len(audit.ToolErrors) == 0 {
		return
	}

	md.H2("Tool Errors")
	md.PlainText("")
	for _, e := range audit.ToolErrors {
		md.Details(string(e.Tool)+": "+e.URL, e.Message)
	}
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [a11yscan](https://github.com/mhdismailalsayad/Accessiblity-analyzer)*")
}

// truncateString shortens s to maxLen runes with an ellipsis.
func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
