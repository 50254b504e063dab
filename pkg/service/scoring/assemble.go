package scoring

import (
	"time"

	"github.com/secmon-lab/assessor/pkg/domain/model"
	"github.com/secmon-lab/assessor/pkg/domain/types"
)

// Assembly holds the already computed parts of a final result
type Assembly struct {
	ID              string
	CreatedAt       time.Time
	Locale          types.Locale
	Score           model.Score
	Recommendations []model.Recommendation
	Answers         []model.Answer
	AppInfo         model.AppInfo
}

// Assemble composes a final AssessmentResult. It fails with
// *model.IncompleteSubmissionError when any catalog question is unanswered.
func Assemble(c *model.Catalog, rs model.ResponseSet, in Assembly) (*model.AssessmentResult, error) {
	v := model.NewResponseValidator(c)
	if missing := v.Missing(rs); len(missing) > 0 {
		progress := Progress(c, rs, in.Score)
		return nil, &model.IncompleteSubmissionError{
			Answered:   progress.Answered,
			Total:      progress.Total,
			Completion: progress.Completion,
			Missing:    missing,
			Progress:   in.Score,
		}
	}

	recommendations := in.Recommendations
	if recommendations == nil {
		recommendations = []model.Recommendation{}
	}

	answers := in.Answers
	if answers == nil {
		answers = []model.Answer{}
	}

	return &model.AssessmentResult{
		ID:              in.ID,
		CreatedAt:       in.CreatedAt,
		Locale:          in.Locale,
		CatalogVersion:  c.Version(),
		Score:           in.Score,
		Risk:            Classify(c.Policy(), in.Score.Percentage),
		Recommendations: recommendations,
		Answers:         answers,
		AppInfo:         in.AppInfo,
	}, nil
}

// Progress reports how much of the catalog a partial response set covers
func Progress(c *model.Catalog, rs model.ResponseSet, score model.Score) model.Progress {
	answered, total := model.NewResponseValidator(c).Progress(rs)
	return model.Progress{
		Answered:   answered,
		Total:      total,
		Completion: model.Percent(float64(answered), float64(total)),
		Score:      score,
	}
}
