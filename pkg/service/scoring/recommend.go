package scoring

import (
	"sort"

	"github.com/secmon-lab/assessor/pkg/domain/model"
	"github.com/secmon-lab/assessor/pkg/domain/types"
)

// Recommend returns a recommendation for every answered question whose
// chosen option is inadequate under the catalog policy. Items are ordered by
// severity, high first, then by catalog declaration order. Question text is
// resolved in lang, falling back to fallback when lang has no text.
func Recommend(c *model.Catalog, rs model.ResponseSet, lang, fallback types.Locale) []model.Recommendation {
	policy := c.Policy()
	var result []model.Recommendation

	for _, cat := range c.Categories() {
		for i := range cat.Questions {
			q := &cat.Questions[i]
			value, answered := rs[q.ID]
			if !answered {
				continue
			}
			opt, ok := q.Option(value)
			if !ok {
				continue
			}

			severity, inadequate := assess(policy, q, opt)
			if !inadequate {
				continue
			}

			result = append(result, model.Recommendation{
				CategoryID: cat.ID,
				QuestionID: q.ID,
				Question:   q.Text.Get(lang, fallback),
				Standard:   append([]string{}, q.Standard...),
				Severity:   severity,
			})
		}
	}

	// Stable sort keeps catalog order within a severity
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Severity.Rank() > result[j].Severity.Rank()
	})

	return result
}

// assess decides whether the chosen option is inadequate and how severe it is
func assess(p model.Policy, q *model.Question, opt model.Option) (types.Severity, bool) {
	lowest, highest := q.MinWeight(), q.MaxWeight()
	if opt.Weight >= highest {
		return "", false
	}

	span := highest - lowest
	if opt.Weight > lowest+p.AdequacyRatio*span && !opt.Weak {
		return "", false
	}

	if opt.Weight <= lowest+p.HighSeverityRatio*span {
		return types.SeverityHigh, true
	}
	return types.SeverityMedium, true
}
