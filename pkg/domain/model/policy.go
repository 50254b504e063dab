package model

import (
	"math"

	"github.com/m-mizutani/goerr/v2"
)

// Policy holds the configurable cut-points of the scoring rubric.
//
// Risk bands are closed on their lower bound:
//
//	percentage >= LowMin    -> LOW
//	percentage >= MediumMin -> MEDIUM
//	percentage >= HighMin   -> HIGH
//	otherwise               -> CRITICAL
//
// A chosen option is inadequate when its weight is below the question maximum
// and either at or below min + AdequacyRatio*(max-min) or flagged weak. Its
// severity is high when the weight is at or below min + HighSeverityRatio*(max-min).
type Policy struct {
	LowMin            float64
	MediumMin         float64
	HighMin           float64
	AdequacyRatio     float64
	HighSeverityRatio float64
}

// DefaultPolicy returns the rubric used when the catalog does not override it
func DefaultPolicy() Policy {
	return Policy{
		LowMin:            80,
		MediumMin:         60,
		HighMin:           40,
		AdequacyRatio:     0.5,
		HighSeverityRatio: 0,
	}
}

// Validate checks that the bands are ordered within [0,100] and ratios within [0,1]
func (p Policy) Validate() error {
	for _, v := range []float64{p.LowMin, p.MediumMin, p.HighMin, p.AdequacyRatio, p.HighSeverityRatio} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return goerr.Wrap(ErrInvalidPolicy, "policy values must be finite")
		}
	}
	if !(0 <= p.HighMin && p.HighMin <= p.MediumMin && p.MediumMin <= p.LowMin && p.LowMin <= 100) {
		return goerr.Wrap(ErrInvalidPolicy, "risk bands must satisfy 0 <= high_min <= medium_min <= low_min <= 100",
			goerr.V("low_min", p.LowMin),
			goerr.V("medium_min", p.MediumMin),
			goerr.V("high_min", p.HighMin))
	}
	if p.AdequacyRatio < 0 || p.AdequacyRatio > 1 {
		return goerr.Wrap(ErrInvalidPolicy, "adequacy ratio must be within [0,1]", goerr.V("adequacy_ratio", p.AdequacyRatio))
	}
	if p.HighSeverityRatio < 0 || p.HighSeverityRatio > p.AdequacyRatio {
		return goerr.Wrap(ErrInvalidPolicy, "high severity ratio must be within [0,adequacy_ratio]",
			goerr.V("high_severity_ratio", p.HighSeverityRatio),
			goerr.V("adequacy_ratio", p.AdequacyRatio))
	}
	return nil
}
