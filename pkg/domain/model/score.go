package model

import (
	"math"

	"github.com/secmon-lab/assessor/pkg/domain/types"
)

// CategoryScore is the weighted total of one category
type CategoryScore struct {
	CategoryID types.CategoryID
	Score      float64
	MaxScore   float64
	Percentage float64 // Score/MaxScore*100, 0 when MaxScore is 0
}

// Score is the weighted total of a response set. Values keep full
// precision; rounding happens at the presentation boundary.
type Score struct {
	TotalScore float64
	MaxScore   float64
	Percentage float64
	Categories []CategoryScore // catalog declaration order
}

// Category returns the score of the given category
func (s Score) Category(id types.CategoryID) (CategoryScore, bool) {
	for _, cs := range s.Categories {
		if cs.CategoryID == id {
			return cs, true
		}
	}
	return CategoryScore{}, false
}

// Percent returns part/whole*100, or 0 when whole is 0
func Percent(part, whole float64) float64 {
	if whole <= 0 {
		return 0
	}
	return part / whole * 100
}

// Round rounds v to two decimals for display
func Round(v float64) float64 {
	return math.Round(v*100) / 100
}
