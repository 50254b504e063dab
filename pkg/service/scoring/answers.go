package scoring

import (
	"github.com/secmon-lab/assessor/pkg/domain/model"
	"github.com/secmon-lab/assessor/pkg/domain/types"
)

// Answers resolves every answered question to its chosen option in catalog
// order. Text is resolved in lang with fallback. Unanswered questions and
// values that match no option are skipped.
func Answers(c *model.Catalog, rs model.ResponseSet, lang, fallback types.Locale) []model.Answer {
	var result []model.Answer

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

			result = append(result, model.Answer{
				CategoryID: cat.ID,
				QuestionID: q.ID,
				Question:   q.Text.Get(lang, fallback),
				Value:      opt.Value,
				Label:      opt.Label.Get(lang, fallback),
				Points:     q.Points(opt),
				MaxPoints:  q.MaxPoints(),
			})
		}
	}

	return result
}
