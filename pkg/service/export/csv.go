// Package export renders questionnaire templates and assessment results as
// downloadable documents.
package export

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/assessor/pkg/domain/model"
	"github.com/secmon-lab/assessor/pkg/domain/types"
)

// CSV renders documents as comma separated values. Text is resolved in the
// requested locale and falls back to the fallback locale.
type CSV struct {
	fallback types.Locale
}

// NewCSV creates a new CSV exporter
func NewCSV(fallback types.Locale) *CSV {
	return &CSV{fallback: fallback}
}

func (x *CSV) ContentType() string   { return "text/csv; charset=utf-8" }
func (x *CSV) FileExtension() string { return "csv" }

// Template writes one row per question with an empty answer column
func (x *CSV) Template(ctx context.Context, w io.Writer, catalog *model.Catalog, lang types.Locale) error {
	lang = lang.Or(x.fallback)
	cw := csv.NewWriter(w)

	rows := [][]string{{"category_id", "category", "question_id", "question", "standard", "options", "answer"}}
	for _, cat := range catalog.Categories() {
		for _, q := range cat.Questions {
			options := make([]string, len(q.Options))
			for i, opt := range q.Options {
				options[i] = opt.Value.String() + "=" + opt.Label.Get(lang, x.fallback)
			}
			rows = append(rows, []string{
				cat.ID.String(),
				cat.Name.Get(lang, x.fallback),
				q.ID.String(),
				q.Text.Get(lang, x.fallback),
				strings.Join(q.Standard, ", "),
				strings.Join(options, " | "),
				"",
			})
		}
	}

	if err := cw.WriteAll(sanitizeRows(rows)); err != nil {
		return goerr.Wrap(err, "failed to write template")
	}
	return nil
}

// Results writes the summary, the category scores, the detailed answers and
// the recommendations of a finished assessment as consecutive sections
func (x *CSV) Results(ctx context.Context, w io.Writer, catalog *model.Catalog, result *model.AssessmentResult) error {
	lang := result.Locale.Or(x.fallback)
	cw := csv.NewWriter(w)

	rows := [][]string{
		{"field", "value"},
		{"id", result.ID},
		{"created_at", result.CreatedAt.Format(time.RFC3339)},
		{"catalog_version", result.CatalogVersion},
		{"application", result.AppInfo.Name},
		{"owner", result.AppInfo.Owner},
		{"environment", result.AppInfo.Environment},
		{"percentage", formatFloat(result.Score.Percentage)},
		{"total_score", formatFloat(result.Score.TotalScore)},
		{"max_score", formatFloat(result.Score.MaxScore)},
		{"risk_level", result.Risk.Level.Text().Get(lang, x.fallback)},
		{"audit_recommendation", result.Risk.Priority.Text().Get(lang, x.fallback)},
		{},
		{"category_id", "category", "score", "max_score", "percentage"},
	}

	for _, cs := range result.Score.Categories {
		rows = append(rows, []string{
			cs.CategoryID.String(),
			categoryName(catalog, cs.CategoryID, lang, x.fallback),
			formatFloat(cs.Score),
			formatFloat(cs.MaxScore),
			formatFloat(cs.Percentage),
		})
	}

	rows = append(rows, []string{}, []string{"category_id", "category", "question_id", "question", "answer", "score", "max_score"})
	for _, a := range result.Answers {
		rows = append(rows, []string{
			a.CategoryID.String(),
			categoryName(catalog, a.CategoryID, lang, x.fallback),
			a.QuestionID.String(),
			a.Question,
			a.Label,
			formatFloat(a.Points),
			formatFloat(a.MaxPoints),
		})
	}

	rows = append(rows, []string{}, []string{"severity", "category_id", "question_id", "question", "standard"})
	for _, rec := range result.Recommendations {
		rows = append(rows, []string{
			rec.Severity.String(),
			rec.CategoryID.String(),
			rec.QuestionID.String(),
			rec.Question,
			strings.Join(rec.Standard, ", "),
		})
	}

	if err := cw.WriteAll(sanitizeRows(rows)); err != nil {
		return goerr.Wrap(err, "failed to write results")
	}
	return nil
}

func categoryName(catalog *model.Catalog, id types.CategoryID, lang, fallback types.Locale) string {
	if cat, err := catalog.Category(id); err == nil {
		return cat.Name.Get(lang, fallback)
	}
	return id.String()
}

// sanitizeCell quotes values a spreadsheet would evaluate as a formula
func sanitizeCell(s string) string {
	if s != "" && strings.ContainsRune("=+-@\t\r", rune(s[0])) {
		return "'" + s
	}
	return s
}

func sanitizeRows(rows [][]string) [][]string {
	for _, row := range rows {
		for i := range row {
			row[i] = sanitizeCell(row[i])
		}
	}
	return rows
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(model.Round(v), 'f', -1, 64)
}
