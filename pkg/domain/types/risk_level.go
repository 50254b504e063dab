package types

import "fmt"

// RiskLevel is the overall risk band of an assessment. Lower percentages
// map to higher risk.
type RiskLevel string

const (
	RiskLevelLow      RiskLevel = "LOW"
	RiskLevelMedium   RiskLevel = "MEDIUM"
	RiskLevelHigh     RiskLevel = "HIGH"
	RiskLevelCritical RiskLevel = "CRITICAL"
)

// AllRiskLevels returns all risk levels ordered from least to most severe
func AllRiskLevels() []RiskLevel {
	return []RiskLevel{
		RiskLevelLow,
		RiskLevelMedium,
		RiskLevelHigh,
		RiskLevelCritical,
	}
}

// IsValid checks if the risk level is valid
func (r RiskLevel) IsValid() bool {
	switch r {
	case RiskLevelLow,
		RiskLevelMedium,
		RiskLevelHigh,
		RiskLevelCritical:
		return true
	default:
		return false
	}
}

// String returns the string representation of the risk level
func (r RiskLevel) String() string {
	return string(r)
}

// Text returns the display text of the risk level
func (r RiskLevel) Text() Localized {
	switch r {
	case RiskLevelLow:
		return Localized{FR: "Risque Faible", EN: "Low Risk"}
	case RiskLevelMedium:
		return Localized{FR: "Risque Modéré", EN: "Medium Risk"}
	case RiskLevelHigh:
		return Localized{FR: "Risque Élevé", EN: "High Risk"}
	case RiskLevelCritical:
		return Localized{FR: "Risque Critique", EN: "Critical Risk"}
	default:
		return Localized{}
	}
}

// Color returns the display color of the risk level as a #rrggbb string
func (r RiskLevel) Color() string {
	switch r {
	case RiskLevelLow:
		return "#10b981"
	case RiskLevelMedium:
		return "#f59e0b"
	case RiskLevelHigh:
		return "#ef4444"
	case RiskLevelCritical:
		return "#dc2626"
	default:
		return ""
	}
}

// Priority returns the audit priority implied by the risk level
func (r RiskLevel) Priority() Priority {
	switch r {
	case RiskLevelCritical, RiskLevelHigh:
		return PriorityHigh
	case RiskLevelMedium:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

// ParseRiskLevel parses a string into a RiskLevel
func ParseRiskLevel(s string) (RiskLevel, error) {
	level := RiskLevel(s)
	if !level.IsValid() {
		return "", fmt.Errorf("invalid risk level: %s", s)
	}
	return level, nil
}

// Priority is the urgency of the follow-up audit
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

// IsValid checks if the priority is valid
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow,
		PriorityMedium,
		PriorityHigh:
		return true
	default:
		return false
	}
}

// String returns the string representation of the priority
func (p Priority) String() string {
	return string(p)
}

// Recommendation returns the audit recommendation code of the priority
func (p Priority) Recommendation() string {
	switch p {
	case PriorityHigh:
		return "FULL_AUDIT_REQUIRED"
	case PriorityMedium:
		return "TARGETED_AUDIT_RECOMMENDED"
	default:
		return "LIGHT_REVIEW"
	}
}

// Text returns the display text of the audit recommendation
func (p Priority) Text() Localized {
	switch p {
	case PriorityHigh:
		return Localized{FR: "Audit Complet Requis", EN: "Full Audit Required"}
	case PriorityMedium:
		return Localized{FR: "Audit Ciblé Recommandé", EN: "Targeted Audit Recommended"}
	default:
		return Localized{FR: "Revue Légère Suffisante", EN: "Light Review Sufficient"}
	}
}

// Severity is the severity of a single remediation recommendation
type Severity string

const (
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Rank orders severities; a higher rank is more severe
func (s Severity) Rank() int {
	switch s {
	case SeverityHigh:
		return 2
	case SeverityMedium:
		return 1
	default:
		return 0
	}
}

// String returns the string representation of the severity
func (s Severity) String() string {
	return string(s)
}
