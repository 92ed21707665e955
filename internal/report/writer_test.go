package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/mhdismailalsayad/Accessiblity-analyzer/internal/model"
)

// createTestAudit creates an audit with sample data for testing.
func createTestAudit() *model.Audit {
	audit := model.NewAudit("https://example.com/")
	audit.StartedAt = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	audit.FinishedAt = audit.StartedAt.Add(90 * time.Second)
	audit.Pages = []string{"https://example.com/", "https://example.com/clean"}

	home := model.NewPageReport("https://example.com/")
	home.Pa11y = []model.Finding{
		{Message: "Img element missing an alt attribute.", Context: `<img src="logo.png">`},
		{Message: "This element has insufficient contrast.", Context: `<p class="muted">`},
	}
	home.Axe = []model.Finding{
		{Message: "Images must have alternative text", Context: `<img src="logo.png">`},
	}
	home.AllFindings = []model.Finding{
		{Message: "image-alt", Context: `<img src="logo.png">`},
		{Message: "color-contrast", Context: `<p class="muted">`},
	}
	clean := model.NewPageReport("https://example.com/clean")
	audit.Reports = []model.PageReport{home, clean}

	breakdown := model.ScoreBreakdown{
		TotalDeduction: 53.3,
		Score:          46.7,
		Items: []model.ScoreItem{
			{Label: "Bilder ohne Alternativtext", Severity: model.SeveritySerious, Frequency: 1, TypeFactor: 1.0, Deduction: 33.3},
			{Label: "Unzureichender Farbkontrast", Severity: model.SeverityModerate, Frequency: 1, TypeFactor: 1.2, Deduction: 20.0},
		},
	}
	audit.Overall = breakdown
	audit.PerURL = []model.URLScore{
		{URL: "https://example.com/", Breakdown: breakdown},
		{URL: "https://example.com/clean", Breakdown: model.PerfectScore()},
	}
	audit.ToolErrors = []model.ToolError{
		{URL: "https://example.com/clean", Tool: model.ToolLighthouse, Message: "chrome not found"},
	}
	return audit
}

// TestSimpleWriter tests the human-readable report writer.
func TestSimpleWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes header and prioritized issues", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		n, err := NewSimpleWriter(&buf).Write(createTestAudit())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n != buf.Len() {
			t.Errorf("reported %d bytes, wrote %d", n, buf.Len())
		}

		output := buf.String()
		for _, want := range []string{
			"ACCESSIBILITY AUDIT REPORT",
			"Site:           https://example.com/",
			"Pages Audited:  2",
			"Duration:       1m30s",
			"Score:          46.7/100 (critical)",
			"Bilder ohne Alternativtext: severity 3, frequency 1, type factor 1.0 = 33.3",
			"Unzureichender Farbkontrast: severity 2, frequency 1, type factor 1.2 = 20.0",
			"Total deduction: 53.3",
			"pa11y=2, axe=1, lighthouse=0, all=2",
			"[100.0] https://example.com/clean",
			"[lighthouse] https://example.com/clean",
			"chrome not found",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q\n%s", want, output)
			}
		}
	})

	t.Run("verbose adds page breakdowns", func(t *testing.T) {
		t.Parallel()

		var quiet, verbose bytes.Buffer
		audit := createTestAudit()
		if _, err := NewSimpleWriter(&quiet).Write(audit); err != nil {
			t.Fatal(err)
		}
		if _, err := NewSimpleWriter(&verbose, WithVerbose(true)).Write(audit); err != nil {
			t.Fatal(err)
		}

		if got := strings.Count(verbose.String(), "Bilder ohne Alternativtext:"); got != 2 {
			t.Errorf("expected overall and page breakdown, got %d occurrences", got)
		}
		if got := strings.Count(quiet.String(), "Bilder ohne Alternativtext:"); got != 1 {
			t.Errorf("expected only overall breakdown, got %d occurrences", got)
		}
	})

	t.Run("empty audit", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).Write(model.NewAudit("https://example.com/")); err != nil {
			t.Fatal(err)
		}
		output := buf.String()
		if !strings.Contains(output, "No issues found.") || !strings.Contains(output, "No pages audited") {
			t.Errorf("unexpected output:\n%s", output)
		}
		if strings.Contains(output, "TOOL ERRORS") {
			t.Error("tool error section should be omitted")
		}
	})
}

// TestFormatBreakdown tests the prioritized issue list.
func TestFormatBreakdown(t *testing.T) {
	t.Parallel()

	got := FormatBreakdown(model.ScoreBreakdown{
		TotalDeduction: 66.7,
		Score:          33.3,
		Items: []model.ScoreItem{
			{Label: "Formularfelder ohne Beschriftung", Severity: model.SeveritySerious, Frequency: 2, TypeFactor: 1.5, Deduction: 66.7},
		},
	})
	want := "Formularfelder ohne Beschriftung: severity 3, frequency 2, type factor 1.5 = 66.7\n" +
		"Total deduction: 66.7\n" +
		"Score: 33.3/100\n"
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}

	if got := FormatBreakdown(model.PerfectScore()); !strings.HasPrefix(got, "No issues found.") {
		t.Errorf("unexpected perfect score output: %q", got)
	}
}

// TestJSONWriter tests the JSON report writer.
func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes audit without escaping HTML", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).Write(createTestAudit()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, `<img src=\"logo.png\">`) {
			t.Errorf("HTML should not be escaped: %s", output)
		}
		if strings.Contains(output, "\n  ") {
			t.Error("compact output should not be indented")
		}

		var decoded model.Audit
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if decoded.Overall.Score != 46.7 || len(decoded.Reports) != 2 {
			t.Errorf("unexpected decoded audit: %+v", decoded)
		}
	})

	t.Run("pretty print and version", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewJSONWriter(&buf, WithPrettyPrint(), WithVersion("v1.2.3"))
		if _, err := w.Write(createTestAudit()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var decoded JSONReport
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if decoded.Version != "v1.2.3" || decoded.Audit == nil {
			t.Errorf("unexpected wrapper: %+v", decoded)
		}
		if !strings.Contains(buf.String(), "\n  \"version\"") {
			t.Error("expected indented output")
		}
	})
}

// TestMarkdownWriter tests the Markdown report writer.
func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes tables, chart and alert", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(createTestAudit()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		for _, want := range []string{
			"# Accessibility Audit Report",
			"## Prioritized Issues",
			"Bilder ohne Alternativtext",
			"```mermaid",
			"pie",
			"[!CAUTION]",
			"## Pages",
			"### https://example.com/",
			"## Tool Errors",
			"a11yscan",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q", want)
			}
		}
		if strings.Contains(output, "### https://example.com/clean") {
			t.Error("clean pages should not get a findings section")
		}
	})

	t.Run("quotes in labels do not break the chart", func(t *testing.T) {
		t.Parallel()

		audit := createTestAudit()
		audit.Overall.Items = append(audit.Overall.Items, model.ScoreItem{
			Label: `<html> element must have a "lang" attribute`, Severity: model.SeverityModerate, Frequency: 2, TypeFactor: 1.0, Deduction: 5.0,
		})

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(audit); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		chart := buf.String()
		chart = chart[strings.Index(chart, "```mermaid"):]
		chart = chart[:strings.Index(chart[3:], "```")+3]
		if strings.Contains(chart, `"lang"`) {
			t.Errorf("unescaped quotes in chart:\n%s", chart)
		}
		if !strings.Contains(chart, "'lang'") {
			t.Errorf("expected label in chart:\n%s", chart)
		}
	})

	t.Run("perfect score gets a tip", func(t *testing.T) {
		t.Parallel()

		audit := model.NewAudit("https://example.com/")
		audit.Reports = []model.PageReport{model.NewPageReport("https://example.com/")}

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(audit); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		output := buf.String()
		if !strings.Contains(output, "[!TIP]") {
			t.Errorf("expected tip alert:\n%s", output)
		}
		if strings.Contains(output, "```mermaid") {
			t.Error("no chart expected without issues")
		}
	})
}

// TestBand tests score band boundaries.
func TestBand(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		score float64
		want  string
	}{
		{100, "good"},
		{90, "good"},
		{89.9, "fair"},
		{75, "fair"},
		{74.9, "poor"},
		{50, "poor"},
		{49.9, "critical"},
		{0, "critical"},
	}
	for _, tc := range testCases {
		if got := Band(tc.score); got != tc.want {
			t.Errorf("Band(%v) = %q, want %q", tc.score, got, tc.want)
		}
	}
}

// TestSummarize tests the screen reader summary.
func TestSummarize(t *testing.T) {
	t.Parallel()

	a := model.NewPageReport("https://example.com/a")
	a.Pa11y = []model.Finding{{Message: "first"}, {Message: "second"}}
	a.Axe = []model.Finding{{Message: "second"}, {Message: ""}}
	a.AllFindings = []model.Finding{{Message: "x"}}
	b := model.NewPageReport("https://example.com/b")
	b.Lighthouse = []model.Finding{{Message: "third"}, {Message: "first"}}

	s := Summarize([]model.PageReport{a, b}, DefaultTopIssues)

	want := "Issues per tool and page:\n" +
		"https://example.com/a: pa11y=2, axe=2, lighthouse=0, all=1\n" +
		"https://example.com/b: pa11y=0, axe=0, lighthouse=2, all=0\n" +
		"\nMost common issues:\n" +
		"2x first\n" +
		"2x second\n" +
		"1x third\n"
	if got := s.String(); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}

	if limited := Summarize([]model.PageReport{a, b}, 1); len(limited.TopIssues) != 1 || limited.TopIssues[0].Message != "first" {
		t.Errorf("unexpected top issues: %+v", limited.TopIssues)
	}
}

// TestSummaryWriter tests writing the summary of an audit.
func TestSummaryWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if _, err := NewSummaryWriter(&buf).Write(createTestAudit()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "https://example.com/clean: pa11y=0, axe=0, lighthouse=0, all=0") {
		t.Errorf("unexpected summary:\n%s", buf.String())
	}
}

// failingWriter is a Writer that always fails.
type failingWriter struct{}

func (failingWriter) Write(*model.Audit) (int, error) {
	return 0, errors.New("write failed")
}

// TestMultiWriter tests writing to several writers.
func TestMultiWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes to all writers", func(t *testing.T) {
		t.Parallel()

		var text, js bytes.Buffer
		mw := NewMultiWriter(NewSimpleWriter(&text), NewJSONWriter(&js))
		n, err := mw.Write(createTestAudit())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n != text.Len()+js.Len() {
			t.Errorf("reported %d bytes, wrote %d", n, text.Len()+js.Len())
		}
	})

	t.Run("stops at first error", func(t *testing.T) {
		t.Parallel()

		var after bytes.Buffer
		mw := NewMultiWriter(failingWriter{}, NewSimpleWriter(&after))
		if _, err := mw.Write(createTestAudit()); err == nil {
			t.Error("expected error")
		}
		if after.Len() != 0 {
			t.Error("writers after the failing one should not run")
		}
	})
}

// TestTruncateString tests rune-aware truncation.
func TestTruncateString(t *testing.T) {
	t.Parallel()

	if got := truncateString("short", 10); got != "short" {
		t.Errorf("got %q", got)
	}
	if got := truncateString("Überschrift fehlt", 8); got != "Übers..." {
		t.Errorf("got %q", got)
	}
	if got := truncateString("abcdef", 2); got != "ab" {
		t.Errorf("got %q", got)
	}
}

func TestChartLabel(t *testing.T) {
	t.Parallel()

	if got := chartLabel("a \"b\"\nc"); got != "a 'b' c" {
		t.Errorf("chartLabel() = %q", got)
	}
}
