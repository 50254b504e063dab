package scoring

import (
	"github.com/secmon-lab/assessor/pkg/domain/model"
	"github.com/secmon-lab/assessor/pkg/domain/types"
)

// Classify maps an overall percentage to a risk level and audit priority.
// Each band is closed on its lower bound, so the bands partition [0,100].
func Classify(p model.Policy, percentage float64) model.RiskAssessment {
	var level types.RiskLevel
	switch {
	case percentage >= p.LowMin:
		level = types.RiskLevelLow
	case percentage >= p.MediumMin:
		level = types.RiskLevelMedium
	case percentage >= p.HighMin:
		level = types.RiskLevelHigh
	default:
		level = types.RiskLevelCritical
	}

	return model.RiskAssessment{
		Level:    level,
		Priority: level.Priority(),
	}
}
