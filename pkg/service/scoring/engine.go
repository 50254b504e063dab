// Package scoring implements the pure scoring rubric: weighted totals, risk
// classification, remediation recommendations and result assembly. Every
// function is deterministic and holds no state, so it is safe to call
// concurrently with a shared catalog.
package scoring

import "github.com/secmon-lab/assessor/pkg/domain/model"

// Score computes per-category and overall weighted totals. Unanswered
// questions add nothing to the score but their best answer still counts
// toward the maximum. Responses that do not match the catalog are ignored;
// callers validate them beforehand.
func Score(c *model.Catalog, rs model.ResponseSet) model.Score {
	var result model.Score

	for _, cat := range c.Categories() {
		cs := model.CategoryScore{CategoryID: cat.ID}
		for i := range cat.Questions {
			q := &cat.Questions[i]
			cs.MaxScore += q.MaxPoints()

			value, answered := rs[q.ID]
			if !answered {
				continue
			}
			if opt, ok := q.Option(value); ok {
				cs.Score += q.Points(opt)
			}
		}
		cs.Percentage = model.Percent(cs.Score, cs.MaxScore)

		result.TotalScore += cs.Score
		result.MaxScore += cs.MaxScore
		result.Categories = append(result.Categories, cs)
	}

	result.Percentage = model.Percent(result.TotalScore, result.MaxScore)
	return result
}
