package http

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/secmon-lab/assessor/pkg/domain/model"
	"github.com/secmon-lab/assessor/pkg/domain/types"
	"github.com/secmon-lab/assessor/pkg/usecase"
)

// Requests

type appInfoRequest struct {
	Name        string `json:"name" validate:"max=256"`
	Owner       string `json:"owner" validate:"max=256"`
	Contact     string `json:"contact" validate:"max=320"`
	Environment string `json:"environment" validate:"max=64"`
	Description string `json:"description" validate:"max=4096"`
}

type submitRequest struct {
	Responses map[types.QuestionID]types.OptionValue `json:"responses" validate:"required"`
	AppInfo   appInfoRequest                         `json:"app_info"`
	Lang      string                                 `json:"lang" validate:"max=16"`
}

type progressRequest struct {
	Responses map[types.QuestionID]types.OptionValue `json:"responses" validate:"required"`
}

func (x *submitRequest) toInput() usecase.SubmitInput {
	return usecase.SubmitInput{
		Responses: model.ResponseSet(x.Responses),
		AppInfo: model.AppInfo{
			Name:        x.AppInfo.Name,
			Owner:       x.AppInfo.Owner,
			Contact:     x.AppInfo.Contact,
			Environment: x.AppInfo.Environment,
			Description: x.AppInfo.Description,
		},
		Locale: parseLocale(x.Lang),
	}
}

// parseLocale returns the locale or "" when unsupported so that the caller
// falls back to the default
func parseLocale(s string) types.Locale {
	l, err := types.ParseLocale(s)
	if err != nil {
		return ""
	}
	return l
}

// Catalog view

type optionView struct {
	Value  types.OptionValue `json:"value"`
	Label  types.Localized   `json:"label"`
	Weight float64           `json:"weight"`
}

type questionView struct {
	ID       types.QuestionID `json:"id"`
	Text     types.Localized  `json:"text"`
	Standard []string         `json:"standard"`
	Weight   float64          `json:"weight"`
	Options  []optionView     `json:"options"`
}

type categoryView struct {
	ID        types.CategoryID `json:"id"`
	Name      types.Localized  `json:"name"`
	Weight    float64          `json:"weight"`
	Questions []questionView   `json:"questions"`
}

type catalogView struct {
	Version    string         `json:"version"`
	Lang       types.Locale   `json:"lang"`
	Categories []categoryView `json:"categories"`
}

func newCategoryView(cat *model.Category) categoryView {
	view := categoryView{
		ID:        cat.ID,
		Name:      cat.Name,
		Weight:    cat.Weight,
		Questions: make([]questionView, len(cat.Questions)),
	}
	for i, q := range cat.Questions {
		qv := questionView{
			ID:       q.ID,
			Text:     q.Text,
			Standard: append([]string{}, q.Standard...),
			Weight:   q.Weight,
			Options:  make([]optionView, len(q.Options)),
		}
		for j, opt := range q.Options {
			qv.Options[j] = optionView{Value: opt.Value, Label: opt.Label, Weight: opt.Weight}
		}
		view.Questions[i] = qv
	}
	return view
}

func newCatalogView(c *model.Catalog, lang types.Locale) catalogView {
	categories := c.Categories()
	view := catalogView{
		Version:    c.Version(),
		Lang:       lang,
		Categories: make([]categoryView, len(categories)),
	}
	for i := range categories {
		view.Categories[i] = newCategoryView(&categories[i])
	}
	return view
}

// Results

type categoryScoreView struct {
	Score      float64 `json:"score"`
	MaxScore   float64 `json:"max_score"`
	Percentage float64 `json:"percentage"`
}

// categoryScores is a JSON object keyed by category ID that keeps catalog order
type categoryScores []model.CategoryScore

func (x categoryScores) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, cs := range x {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(cs.CategoryID.String())
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(categoryScoreView{
			Score:      model.Round(cs.Score),
			MaxScore:   model.Round(cs.MaxScore),
			Percentage: model.Round(cs.Percentage),
		})
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

type riskLevelView struct {
	Level types.RiskLevel `json:"level"`
	FR    string          `json:"fr"`
	EN    string          `json:"en"`
	Color string          `json:"color"`
}

type auditView struct {
	Priority       types.Priority `json:"priority"`
	Recommendation string         `json:"recommendation"`
	FR             string         `json:"fr"`
	EN             string         `json:"en"`
}

type scoreView struct {
	Percentage          float64        `json:"percentage"`
	TotalScore          float64        `json:"total_score"`
	MaxScore            float64        `json:"max_score"`
	RiskLevel           *riskLevelView `json:"risk_level,omitempty"`
	AuditRecommendation *auditView     `json:"audit_recommendation,omitempty"`
	CategoryScores      categoryScores `json:"category_scores"`
}

type recommendationView struct {
	QuestionID types.QuestionID `json:"question_id"`
	Category   types.CategoryID `json:"category"`
	Question   string           `json:"question"`
	Standard   []string         `json:"standard"`
	Severity   types.Severity   `json:"severity"`
}

type answerView struct {
	QuestionID types.QuestionID  `json:"question_id"`
	Category   types.CategoryID  `json:"category"`
	Question   string            `json:"question"`
	Value      types.OptionValue `json:"value"`
	Answer     string            `json:"answer"`
	Score      float64           `json:"score"`
	MaxScore   float64           `json:"max_score"`
}

type appInfoView struct {
	Name        string `json:"name"`
	Owner       string `json:"owner"`
	Contact     string `json:"contact"`
	Environment string `json:"environment"`
	Description string `json:"description"`
}

type resultView struct {
	ID              string               `json:"id"`
	Timestamp       string               `json:"timestamp"`
	Lang            types.Locale         `json:"lang"`
	CatalogVersion  string               `json:"catalog_version"`
	Score           scoreView            `json:"score"`
	Recommendations []recommendationView `json:"recommendations"`
	Answers         []answerView         `json:"answers"`
	AppInfo         appInfoView          `json:"app_info"`
}

type progressView struct {
	Answered   int       `json:"answered"`
	Total      int       `json:"total"`
	Completion float64   `json:"completion"`
	Score      scoreView `json:"score"`
}

type incompleteView struct {
	Answered   int                `json:"answered"`
	Total      int                `json:"total"`
	Completion float64            `json:"completion"`
	Missing    []types.QuestionID `json:"missing"`
	Score      scoreView          `json:"score"`
}

func newScoreView(s model.Score) scoreView {
	return scoreView{
		Percentage:     model.Round(s.Percentage),
		TotalScore:     model.Round(s.TotalScore),
		MaxScore:       model.Round(s.MaxScore),
		CategoryScores: categoryScores(s.Categories),
	}
}

func newResultView(r *model.AssessmentResult) resultView {
	score := newScoreView(r.Score)

	levelText := r.Risk.Level.Text()
	score.RiskLevel = &riskLevelView{Level: r.Risk.Level, FR: levelText.FR, EN: levelText.EN, Color: r.Risk.Level.Color()}

	auditText := r.Risk.Priority.Text()
	score.AuditRecommendation = &auditView{
		Priority:       r.Risk.Priority,
		Recommendation: r.Risk.Priority.Recommendation(),
		FR:             auditText.FR,
		EN:             auditText.EN,
	}

	recommendations := make([]recommendationView, len(r.Recommendations))
	for i, rec := range r.Recommendations {
		recommendations[i] = recommendationView{
			QuestionID: rec.QuestionID,
			Category:   rec.CategoryID,
			Question:   rec.Question,
			Standard:   append([]string{}, rec.Standard...),
			Severity:   rec.Severity,
		}
	}

	answers := make([]answerView, len(r.Answers))
	for i, a := range r.Answers {
		answers[i] = answerView{
			QuestionID: a.QuestionID,
			Category:   a.CategoryID,
			Question:   a.Question,
			Value:      a.Value,
			Answer:     a.Label,
			Score:      model.Round(a.Points),
			MaxScore:   model.Round(a.MaxPoints),
		}
	}

	return resultView{
		ID:              r.ID,
		Timestamp:       r.CreatedAt.Format(time.RFC3339),
		Lang:            r.Locale,
		CatalogVersion:  r.CatalogVersion,
		Score:           score,
		Recommendations: recommendations,
		Answers:         answers,
		AppInfo: appInfoView{
			Name:        r.AppInfo.Name,
			Owner:       r.AppInfo.Owner,
			Contact:     r.AppInfo.Contact,
			Environment: r.AppInfo.Environment,
			Description: r.AppInfo.Description,
		},
	}
}

func newProgressView(p *model.Progress) progressView {
	return progressView{
		Answered:   p.Answered,
		Total:      p.Total,
		Completion: model.Round(p.Completion),
		Score:      newScoreView(p.Score),
	}
}

func newIncompleteView(e *model.IncompleteSubmissionError) incompleteView {
	missing := e.Missing
	if missing == nil {
		missing = []types.QuestionID{}
	}
	return incompleteView{
		Answered:   e.Answered,
		Total:      e.Total,
		Completion: model.Round(e.Completion),
		Missing:    missing,
		Score:      newScoreView(e.Progress),
	}
}

// Stats

type categoryStatsView struct {
	ID             types.CategoryID `json:"id"`
	Name           types.Localized  `json:"name"`
	QuestionsCount int              `json:"questions_count"`
	Weight         float64          `json:"weight"`
}

type statsView struct {
	TotalQuestions  int                 `json:"total_questions"`
	CategoriesCount int                 `json:"categories_count"`
	Categories      []categoryStatsView `json:"categories"`
}

func newStatsView(s usecase.CatalogStats) statsView {
	view := statsView{
		TotalQuestions:  s.TotalQuestions,
		CategoriesCount: s.CategoriesCount,
		Categories:      make([]categoryStatsView, len(s.Categories)),
	}
	for i, cat := range s.Categories {
		view.Categories[i] = categoryStatsView{
			ID:             cat.ID,
			Name:           cat.Name,
			QuestionsCount: cat.QuestionsCount,
			Weight:         cat.Weight,
		}
	}
	return view
}

// MarshalResult encodes a result in the same shape as the submit endpoint
func MarshalResult(r *model.AssessmentResult) ([]byte, error) {
	return json.MarshalIndent(newResultView(r), "", "  ")
}

// MarshalProgress encodes progress in the same shape as the progress endpoint
func MarshalProgress(p *model.Progress) ([]byte, error) {
	return json.MarshalIndent(newProgressView(p), "", "  ")
}
