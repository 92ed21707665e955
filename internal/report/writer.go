package report

import (
	"io"

	"github.com/mhdismailalsayad/Accessiblity-analyzer/internal/model"
)

// Writer defines the interface for report output.
type Writer interface {
	// Write outputs the audit to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(audit *model.Audit) (int, error)
}

// MultiWriter writes to multiple Writers in turn.
// It stops at the first error.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the audit to all configured Writers.
// Returns the total bytes written across all writers.
func (m *MultiWriter) Write(audit *model.Audit) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(audit)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// pageScores indexes per-URL scores by URL.
func pageScores(audit *model.Audit) map[string]model.ScoreBreakdown {
	scores := make(map[string]model.ScoreBreakdown, len(audit.PerURL))
	for _, s := range audit.PerURL {
		scores[s.URL] = s.Breakdown
	}
	return scores
}

// Band names the rating of a score: good, fair, poor or critical.
func Band(score float64) string {
	switch {
	case score >= 90:
		return "good"
	case score >= 75:
		return "fair"
	case score >= 50:
		return "poor"
	default:
		return "critical"
	}
}
