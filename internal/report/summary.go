package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/mhdismailalsayad/Accessiblity-analyzer/internal/model"
)

// DefaultTopIssues is how many common messages the summary lists.
const DefaultTopIssues = 10

// MessageCount is how often a tool message occurred.
type MessageCount struct {
	Message string
	Count   int
}

// Summary is the plain-text overview written for screen reader users.
type Summary struct {
	Pages     []model.IssueCounts
	TopIssues []MessageCount
}

// Summarize counts issues per page and the most common tool messages.
// Messages are counted over the per-tool lists, not the merged one, and
// ties keep the order in which messages were first seen.
func Summarize(reports []model.PageReport, top int) Summary {
	s := Summary{
		Pages:     make([]model.IssueCounts, 0, len(reports)),
		TopIssues: make([]MessageCount, 0),
	}

	index := make(map[string]int)
	for _, report := range reports {
		s.Pages = append(s.Pages, report.Counts())
		for _, tool := range model.Tools() {
			for _, f := range report.ToolFindings(tool) {
				if f.Message == "" {
					continue
				}
				if i, ok := index[f.Message]; ok {
					s.TopIssues[i].Count++
					continue
				}
				index[f.Message] = len(s.TopIssues)
				s.TopIssues = append(s.TopIssues, MessageCount{Message: f.Message, Count: 1})
			}
		}
	}

	sort.SliceStable(s.TopIssues, func(i, j int) bool {
		return s.TopIssues[i].Count > s.TopIssues[j].Count
	})
	if top >= 0 && len(s.TopIssues) > top {
		s.TopIssues = s.TopIssues[:top]
	}
	return s
}

// String renders the summary in the visualization_summary.txt layout.
func (s Summary) String() string {
	var sb strings.Builder
	sb.WriteString("Issues per tool and page:\n")
	for _, c := range s.Pages {
		fmt.Fprintf(&sb, "%s: pa11y=%d, axe=%d, lighthouse=%d, all=%d\n", c.URL, c.Pa11y, c.Axe, c.Lighthouse, c.All)
	}
	sb.WriteString("\nMost common issues:\n")
	for _, m := range s.TopIssues {
		fmt.Fprintf(&sb, "%dx %s\n", m.Count, m.Message)
	}
	return sb.String()
}

// SummaryWriter writes the screen reader summary of an audit.
type SummaryWriter struct {
	baseWriter
	top int
}

// NewSummaryWriter creates a SummaryWriter listing the DefaultTopIssues
// most common messages.
func NewSummaryWriter(output io.Writer) *SummaryWriter {
	return &SummaryWriter{
		baseWriter: newBaseWriter(output),
		top:        DefaultTopIssues,
	}
}

// Write outputs the summary of the audit's page reports.
func (w *SummaryWriter) Write(audit *model.Audit) (int, error) {
	return io.WriteString(w.output, Summarize(audit.Reports, w.top).String())
}
