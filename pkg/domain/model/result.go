package model

import (
	"time"

	"github.com/secmon-lab/assessor/pkg/domain/types"
)

// RiskAssessment is the outcome of the risk classification
type RiskAssessment struct {
	Level    types.RiskLevel
	Priority types.Priority
}

// Recommendation is a remediation item raised for an inadequate answer
type Recommendation struct {
	CategoryID types.CategoryID
	QuestionID types.QuestionID
	Question   string // question text in the display locale
	Standard   []string
	Severity   types.Severity
}

// Answer is a resolved response: the chosen option of one question and the
// weighted points it earned
type Answer struct {
	CategoryID types.CategoryID
	QuestionID types.QuestionID
	Question   string // question text in the display locale
	Value      types.OptionValue
	Label      string // option label in the display locale
	Points     float64
	MaxPoints  float64
}

// AssessmentResult is the final, immutable outcome of one submission
type AssessmentResult struct {
	ID              string
	CreatedAt       time.Time
	Locale          types.Locale
	CatalogVersion  string
	Score           Score
	Risk            RiskAssessment
	Recommendations []Recommendation // severity descending, then catalog order
	Answers         []Answer         // catalog order
	AppInfo         AppInfo
}

// Progress describes a partial submission
type Progress struct {
	Answered   int
	Total      int
	Completion float64 // Answered/Total*100
	Score      Score
}

// Complete reports whether every question has been answered
func (p Progress) Complete() bool {
	return p.Answered == p.Total
}
