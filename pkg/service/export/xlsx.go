package export

import (
	"context"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/assessor/pkg/domain/model"
	"github.com/secmon-lab/assessor/pkg/domain/types"
	"github.com/xuri/excelize/v2"
)

const (
	colorHeader   = "1F4E78"
	colorCategory = "D9E1F2"
	colorWhite    = "FFFFFF"
	colorHigh     = "EF4444"
	colorMedium   = "F59E0B"
)

// Sheet names and labels of the workbooks
var (
	sheetInformation     = types.Localized{FR: "Informations", EN: "Information"}
	sheetQuestionnaire   = types.Localized{FR: "Questionnaire", EN: "Questionnaire"}
	sheetSummary         = types.Localized{FR: "Résumé", EN: "Summary"}
	sheetDetailed        = types.Localized{FR: "Résultats Détaillés", EN: "Detailed Results"}
	sheetRecommendations = types.Localized{FR: "Recommandations", EN: "Recommendations"}

	labelTemplateTitle = types.Localized{FR: "Questionnaire de Sécurité", EN: "Security Questionnaire"}
	labelResultsTitle  = types.Localized{FR: "Résultats de l'Évaluation de Sécurité", EN: "Security Assessment Results"}
	labelRecsTitle     = types.Localized{FR: "Recommandations d'Amélioration", EN: "Improvement Recommendations"}
	labelAppName       = types.Localized{FR: "Nom de l'application", EN: "Application name"}
	labelDate          = types.Localized{FR: "Date", EN: "Date"}
	labelOwner         = types.Localized{FR: "Responsable", EN: "Owner"}
	labelContact       = types.Localized{FR: "Contact", EN: "Contact"}
	labelEnvironment   = types.Localized{FR: "Environnement", EN: "Environment"}
	labelDescription   = types.Localized{FR: "Description", EN: "Description"}
	labelCatalog       = types.Localized{FR: "Version du catalogue", EN: "Catalog version"}
	labelOverall       = types.Localized{FR: "Score Global", EN: "Overall Score"}
	labelRiskLevel     = types.Localized{FR: "Niveau de Risque", EN: "Risk Level"}
	labelAudit         = types.Localized{FR: "Recommandation", EN: "Recommendation"}
	labelBreakdown     = types.Localized{FR: "Détail par Catégorie", EN: "Category Breakdown"}
	labelCategory      = types.Localized{FR: "Catégorie", EN: "Category"}
	labelQuestion      = types.Localized{FR: "Question", EN: "Question"}
	labelAnswer        = types.Localized{FR: "Réponse", EN: "Answer"}
	labelSelected      = types.Localized{FR: "Réponse Sélectionnée", EN: "Selected Answer"}
	labelOptions       = types.Localized{FR: "Options", EN: "Options"}
	labelScore         = types.Localized{FR: "Score", EN: "Score"}
	labelPercentage    = types.Localized{FR: "Pourcentage", EN: "Percentage"}
	labelSeverity      = types.Localized{FR: "Sévérité", EN: "Severity"}
	labelStandards     = types.Localized{FR: "Standards", EN: "Standards"}
	labelNoRecs        = types.Localized{FR: "Aucune recommandation", EN: "No recommendation"}

	severityText = map[types.Severity]types.Localized{
		types.SeverityHigh:   {FR: "Élevée", EN: "High"},
		types.SeverityMedium: {FR: "Moyenne", EN: "Medium"},
	}
)

// XLSX renders documents as Excel workbooks. Text is resolved in the
// requested locale and falls back to the fallback locale. Cell values are
// always written as literals, never as formulas.
type XLSX struct {
	fallback types.Locale
}

// NewXLSX creates a new Excel exporter
func NewXLSX(fallback types.Locale) *XLSX {
	return &XLSX{fallback: fallback}
}

func (x *XLSX) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}
func (x *XLSX) FileExtension() string { return "xlsx" }

// Template writes an information sheet to fill in and a questionnaire sheet
// with one row per question, grouped by category
func (x *XLSX) Template(ctx context.Context, w io.Writer, catalog *model.Catalog, lang types.Locale) error {
	lang = lang.Or(x.fallback)
	t := func(l types.Localized) string { return l.Get(lang, x.fallback) }

	b, err := newWorkbook(t(sheetInformation), t(sheetQuestionnaire))
	if err != nil {
		return err
	}
	defer b.close()

	info := b.sheet(t(sheetInformation))
	info.row(b.styles.title, t(labelTemplateTitle))
	info.skip()
	for _, label := range []types.Localized{labelAppName, labelDate, labelOwner, labelContact, labelEnvironment, labelDescription} {
		info.row(b.styles.bold, t(label), "")
	}
	info.width("A", 28)
	info.width("B", 60)

	q := b.sheet(t(sheetQuestionnaire))
	q.row(b.styles.header, "ID", t(labelQuestion), t(labelOptions), t(labelAnswer), t(labelStandards))
	for _, cat := range catalog.Categories() {
		q.band(b.styles.category, "E", t(cat.Name))
		for _, question := range cat.Questions {
			options := make([]string, len(question.Options))
			for i, opt := range question.Options {
				options[i] = opt.Value.String() + " = " + opt.Label.Get(lang, x.fallback)
			}
			q.row(0,
				question.ID.String(),
				question.Text.Get(lang, x.fallback),
				strings.Join(options, "\n"),
				"",
				strings.Join(question.Standard, ", "),
			)
		}
	}
	q.width("A", 12)
	q.width("B", 60)
	q.width("C", 40)
	q.width("D", 20)
	q.width("E", 30)

	if err := b.write(w); err != nil {
		return goerr.Wrap(err, "failed to write template workbook")
	}
	return nil
}

// Results writes the summary, the detailed answers and the recommendations
// of a finished assessment on three sheets
func (x *XLSX) Results(ctx context.Context, w io.Writer, catalog *model.Catalog, result *model.AssessmentResult) error {
	lang := result.Locale.Or(x.fallback)
	t := func(l types.Localized) string { return l.Get(lang, x.fallback) }

	b, err := newWorkbook(t(sheetSummary), t(sheetDetailed), t(sheetRecommendations))
	if err != nil {
		return err
	}
	defer b.close()

	riskStyle, err := b.fontStyle(strings.ToUpper(strings.TrimPrefix(result.Risk.Level.Color(), "#")))
	if err != nil {
		return err
	}

	summary := b.sheet(t(sheetSummary))
	summary.row(b.styles.title, t(labelResultsTitle))
	summary.skip()
	summary.row(b.styles.bold, t(labelAppName), result.AppInfo.Name)
	summary.row(b.styles.bold, t(labelOwner), result.AppInfo.Owner)
	summary.row(b.styles.bold, t(labelEnvironment), result.AppInfo.Environment)
	summary.row(b.styles.bold, t(labelDate), result.CreatedAt.Format(time.RFC3339))
	summary.row(b.styles.bold, t(labelCatalog), result.CatalogVersion)
	summary.skip()
	summary.row(b.styles.bold, t(labelOverall), formatFloat(result.Score.Percentage)+"%")
	summary.row(b.styles.bold, t(labelScore), ratio(result.Score.TotalScore, result.Score.MaxScore))
	summary.row(b.styles.bold, t(labelRiskLevel), t(result.Risk.Level.Text()))
	summary.style("B", riskStyle)
	summary.row(b.styles.bold, t(labelAudit), t(result.Risk.Priority.Text()))
	summary.skip()
	summary.row(b.styles.title, t(labelBreakdown))
	summary.row(b.styles.header, t(labelCategory), t(labelScore), t(labelPercentage))
	for _, cs := range result.Score.Categories {
		summary.row(0,
			categoryName(catalog, cs.CategoryID, lang, x.fallback),
			ratio(cs.Score, cs.MaxScore),
			model.Round(cs.Percentage),
		)
	}
	summary.width("A", 30)
	summary.width("B", 40)
	summary.width("C", 15)

	detailed := b.sheet(t(sheetDetailed))
	detailed.row(b.styles.header, t(labelCategory), t(labelQuestion), t(labelSelected), t(labelScore))
	for _, a := range result.Answers {
		detailed.row(0,
			categoryName(catalog, a.CategoryID, lang, x.fallback),
			a.Question,
			a.Label,
			ratio(a.Points, a.MaxPoints),
		)
	}
	detailed.width("A", 25)
	detailed.width("B", 60)
	detailed.width("C", 30)
	detailed.width("D", 12)

	highStyle, err := b.fontStyle(colorHigh)
	if err != nil {
		return err
	}
	mediumStyle, err := b.fontStyle(colorMedium)
	if err != nil {
		return err
	}

	recs := b.sheet(t(sheetRecommendations))
	recs.row(b.styles.title, t(labelRecsTitle))
	recs.skip()
	recs.row(b.styles.header, t(labelSeverity), t(labelCategory), t(labelQuestion), t(labelStandards))
	if len(result.Recommendations) == 0 {
		recs.row(0, t(labelNoRecs))
	}
	for _, rec := range result.Recommendations {
		severity := rec.Severity.String()
		if text, ok := severityText[rec.Severity]; ok {
			severity = t(text)
		}
		recs.row(0,
			severity,
			categoryName(catalog, rec.CategoryID, lang, x.fallback),
			rec.Question,
			strings.Join(rec.Standard, ", "),
		)
		if rec.Severity == types.SeverityHigh {
			recs.style("A", highStyle)
		} else {
			recs.style("A", mediumStyle)
		}
	}
	recs.width("A", 12)
	recs.width("B", 25)
	recs.width("C", 60)
	recs.width("D", 30)

	if err := b.write(w); err != nil {
		return goerr.Wrap(err, "failed to write results workbook", goerr.V("result_id", result.ID))
	}
	return nil
}

func ratio(score, total float64) string {
	return formatFloat(score) + "/" + formatFloat(total)
}

type workbookStyles struct {
	title    int
	header   int
	bold     int
	category int
}

// workbook keeps the first error of a sequence of cell writes
type workbook struct {
	f      *excelize.File
	styles workbookStyles
	err    error
}

// newWorkbook creates a workbook holding the given sheets in order
func newWorkbook(sheets ...string) (*workbook, error) {
	f := excelize.NewFile()
	b := &workbook{f: f}

	if err := f.SetSheetName(f.GetSheetName(0), sheets[0]); err != nil {
		_ = f.Close()
		return nil, goerr.Wrap(err, "failed to name sheet", goerr.V("sheet", sheets[0]))
	}
	for _, name := range sheets[1:] {
		if _, err := f.NewSheet(name); err != nil {
			_ = f.Close()
			return nil, goerr.Wrap(err, "failed to add sheet", goerr.V("sheet", name))
		}
	}
	f.SetActiveSheet(0)

	styles := []struct {
		dst   *int
		style *excelize.Style
	}{
		{&b.styles.title, &excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}}},
		{&b.styles.header, &excelize.Style{
			Font: &excelize.Font{Bold: true, Color: colorWhite},
			Fill: excelize.Fill{Type: "pattern", Color: []string{colorHeader}, Pattern: 1},
		}},
		{&b.styles.bold, &excelize.Style{Font: &excelize.Font{Bold: true}}},
		{&b.styles.category, &excelize.Style{
			Font: &excelize.Font{Bold: true},
			Fill: excelize.Fill{Type: "pattern", Color: []string{colorCategory}, Pattern: 1},
		}},
	}
	for _, s := range styles {
		id, err := f.NewStyle(s.style)
		if err != nil {
			_ = f.Close()
			return nil, goerr.Wrap(err, "failed to create style")
		}
		*s.dst = id
	}

	return b, nil
}

// fontStyle returns a bold style with the given RGB font color
func (b *workbook) fontStyle(color string) (int, error) {
	font := &excelize.Font{Bold: true}
	if color != "" {
		font.Color = color
	}
	id, err := b.f.NewStyle(&excelize.Style{Font: font})
	if err != nil {
		return 0, goerr.Wrap(err, "failed to create style", goerr.V("color", color))
	}
	return id, nil
}

func (b *workbook) sheet(name string) *sheetWriter {
	return &sheetWriter{book: b, name: name}
}

func (b *workbook) write(w io.Writer) error {
	if b.err != nil {
		return b.err
	}
	return b.f.Write(w)
}

func (b *workbook) close() {
	_ = b.f.Close()
}

// sheetWriter appends rows to one sheet. Errors are kept on the workbook.
type sheetWriter struct {
	book *workbook
	name string
	last int
}

func (s *sheetWriter) fail(err error, msg string) {
	if err != nil && s.book.err == nil {
		s.book.err = goerr.Wrap(err, msg, goerr.V("sheet", s.name), goerr.V("row", s.last))
	}
}

// row writes values from column A of the next row and applies style to the
// written cells when style is not zero
func (s *sheetWriter) row(style int, values ...any) {
	s.last++
	axis := "A" + strconv.Itoa(s.last)
	s.fail(s.book.f.SetSheetRow(s.name, axis, &values), "failed to write row")

	if style == 0 || len(values) == 0 {
		return
	}
	end, err := excelize.CoordinatesToCellName(len(values), s.last)
	if err != nil {
		s.fail(err, "failed to resolve cell")
		return
	}
	s.fail(s.book.f.SetCellStyle(s.name, axis, end, style), "failed to style row")
}

// band writes a label merged from column A to lastCol on its own row
func (s *sheetWriter) band(style int, lastCol, label string) {
	s.row(style, label)
	end := lastCol + strconv.Itoa(s.last)
	s.fail(s.book.f.MergeCell(s.name, "A"+strconv.Itoa(s.last), end), "failed to merge cells")
	s.fail(s.book.f.SetCellStyle(s.name, "A"+strconv.Itoa(s.last), end, style), "failed to style row")
}

// style overrides the style of one cell of the last written row
func (s *sheetWriter) style(col string, style int) {
	axis := col + strconv.Itoa(s.last)
	s.fail(s.book.f.SetCellStyle(s.name, axis, axis, style), "failed to style cell")
}

func (s *sheetWriter) skip() {
	s.last++
}

func (s *sheetWriter) width(col string, width float64) {
	s.fail(s.book.f.SetColWidth(s.name, col, col, width), "failed to set column width")
}
