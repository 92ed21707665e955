package model

import "math"

// ScoreItem is the penalty attributed to one canonical category.
type ScoreItem struct {
	Label      string   `json:"label"`
	Severity   Severity `json:"severity"`
	Frequency  int      `json:"frequency"`
	TypeFactor float64  `json:"type_factor"`

	// Deduction is rounded to one decimal.
	Deduction float64 `json:"deduction"`

	// Category is the canonical category the item was computed for.
	Category string `json:"-"`

	// Ratio is the share of this category in all observed findings.
	Ratio float64 `json:"-"`

	// ExactDeduction is the unrounded deduction used for ranking.
	ExactDeduction float64 `json:"-"`
}

// ScoreBreakdown is a 0-100 accessibility score with its ranked penalties.
// Items are sorted by deduction, largest first.
type ScoreBreakdown struct {
	TotalDeduction float64     `json:"total_deduction"`
	Score          float64     `json:"score"`
	Items          []ScoreItem `json:"issues"`
}

// PerfectScore returns the breakdown for a scope with no findings.
func PerfectScore() ScoreBreakdown {
	return ScoreBreakdown{
		TotalDeduction: 0,
		Score:          100,
		Items:          []ScoreItem{},
	}
}

// URLScore pairs a URL with its score breakdown.
type URLScore struct {
	URL       string         `json:"URL"`
	Breakdown ScoreBreakdown `json:"breakdown"`
}

// Round1 rounds v to one decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
