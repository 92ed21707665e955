package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mhdismailalsayad/Accessiblity-analyzer/internal/model"
)

// SimpleWriter outputs human-readable text reports for the terminal.
type SimpleWriter struct {
	baseWriter

	// verbose adds the issue breakdown of every page.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables verbose output with per-page breakdowns.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the audit in human-readable format.
func (w *SimpleWriter) Write(audit *model.Audit) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, audit)
	w.writePrioritized(&sb, audit)
	w.writePages(&sb, audit)
	w.writeToolErrors(&sb, audit)
	w.writeFooter(&sb)

	return io.WriteString(w.output, sb.String())
}

// writeHeader writes the report header with audit information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, audit *model.Audit) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                    ACCESSIBILITY AUDIT REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	fmt.Fprintf(sb, "Site:           %s\n", audit.SeedURL)
	fmt.Fprintf(sb, "Audit ID:       %s\n", audit.ID)
	fmt.Fprintf(sb, "Audit Date:     %s\n", audit.StartedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(sb, "Pages Audited:  %d\n", len(audit.Reports))
	if d := audit.Duration(); d > 0 {
		fmt.Fprintf(sb, "Duration:       %s\n", d.Round(time.Second))
	}
	fmt.Fprintf(sb, "Score:          %.1f/100 (%s)\n", audit.Overall.Score, Band(audit.Overall.Score))
	sb.WriteString("\n")
}

// writePrioritized writes the overall issue ranking.
func (w *SimpleWriter) writePrioritized(sb *strings.Builder, audit *model.Audit) {
	section(sb, "PRIORITIZED ISSUES")
	sb.WriteString(FormatBreakdown(audit.Overall))
	sb.WriteString("\n")
}

// writePages writes per-page scores and issue counts.
func (w *SimpleWriter) writePages(sb *strings.Builder, audit *model.Audit) {
	section(sb, "PAGES")

	if len(audit.Reports) == 0 {
		sb.WriteString("  No pages audited\n\n")
		return
	}

	scores := pageScores(audit)
	for _, report := range audit.Reports {
		breakdown, ok := scores[report.URL]
		if !ok {
			breakdown = model.PerfectScore()
		}
		c := report.Counts()
		fmt.Fprintf(sb, "  [%5.1f] %s\n", breakdown.Score, report.URL)
		fmt.Fprintf(sb, "          pa11y=%d, axe=%d, lighthouse=%d, all=%d\n", c.Pa11y, c.Axe, c.Lighthouse, c.All)

		if w.verbose && len(breakdown.Items) > 0 {
			for _, line := range strings.Split(strings.TrimRight(FormatBreakdown(breakdown), "\n"), "\n") {
				sb.WriteString("          " + line + "\n")
			}
		}
	}
	sb.WriteString("\n")
}

// writeToolErrors lists analyzer runs that produced no result.
func (w *SimpleWriter) writeToolErrors(sb *strings.Builder, audit *model.Audit) {
	if len(audit.ToolErrors) == 0 {
		return
	}

	section(sb, "TOOL ERRORS")
	for _, e := range audit.ToolErrors {
		fmt.Fprintf(sb, "  [%s] %s\n", e.Tool, e.URL)
		fmt.Fprintf(sb, "    %s\n", e.Message)
	}
	sb.WriteString("\n")
}

// writeFooter writes the report footer.
func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("Report generated by a11yscan\n")
	sb.WriteString("https://github.com/mhdismailalsayad/Accessiblity-analyzer\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}

// section writes a section title between rules.
func section(sb *strings.Builder, title string) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")
}

// FormatBreakdown renders a score breakdown as the prioritized issue list,
// one "label: severity S, frequency F, type factor T = D" line per
// category, followed by the total deduction and the score.
func FormatBreakdown(b model.ScoreBreakdown) string {
	var sb strings.Builder
	if len(b.Items) == 0 {
		sb.WriteString("No issues found.\n")
	}
	for _, item := range b.Items {
		fmt.Fprintf(&sb, "%s: severity %d, frequency %d, type factor %.1f = %.1f\n",
			item.Label,
			int(item.Severity),
			item.Frequency,
			item.TypeFactor,
			item.Deduction,
		)
	}
	fmt.Fprintf(&sb, "Total deduction: %.1f\n", b.TotalDeduction)
	fmt.Fprintf(&sb, "Score: %.1f/100\n", b.Score)
	return sb.String()
}
