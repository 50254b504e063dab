package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aquasecurity/table"
	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/secmon-lab/assessor/pkg/domain/model"
	"github.com/secmon-lab/assessor/pkg/domain/types"
)

// reportWriter renders results as human readable tables
type reportWriter struct {
	w        io.Writer
	lang     types.Locale
	fallback types.Locale
	colored  bool
}

func newReportWriter(w io.Writer, lang, fallback types.Locale) *reportWriter {
	return &reportWriter{
		w:        w,
		lang:     lang,
		fallback: fallback,
		colored:  isTerminal(w),
	}
}

// isTerminal reports whether w is a file attached to a TTY
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

var riskColors = map[types.RiskLevel]color.Attribute{
	types.RiskLevelLow:      color.FgGreen,
	types.RiskLevelMedium:   color.FgYellow,
	types.RiskLevelHigh:     color.FgHiRed,
	types.RiskLevelCritical: color.FgRed,
}

var severityColors = map[types.Severity]color.Attribute{
	types.SeverityMedium: color.FgYellow,
	types.SeverityHigh:   color.FgRed,
}

func (x *reportWriter) paint(attr color.Attribute, s string) string {
	c := color.New(attr)
	if x.colored {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c.Sprint(s)
}

func (x *reportWriter) newTable() *table.Table {
	tw := table.New(x.w)
	if x.colored {
		tw.SetHeaderStyle(table.StyleBold)
		tw.SetLineStyle(table.StyleDim)
	}
	tw.SetBorders(true)
	tw.SetRowLines(false)
	return tw
}

func (x *reportWriter) heading(title string) {
	if x.colored {
		title = color.New(color.Bold, color.Underline).Sprint(title)
		fmt.Fprintf(x.w, "\n%s\n\n", title)
		return
	}
	fmt.Fprintf(x.w, "\n%s\n%s\n", title, strings.Repeat("=", len(title)))
}

// Result writes the summary, category breakdown and recommendations
func (x *reportWriter) Result(catalog *model.Catalog, result *model.AssessmentResult) {
	level := result.Risk.Level
	fmt.Fprintf(x.w, "Assessment %s (catalog %s)\n", result.ID, result.CatalogVersion)
	if result.AppInfo.Name != "" {
		fmt.Fprintf(x.w, "Application: %s\n", result.AppInfo.Name)
	}
	fmt.Fprintf(x.w, "Score: %.2f%% (%s / %s)\n",
		model.Round(result.Score.Percentage),
		formatPoints(result.Score.TotalScore),
		formatPoints(result.Score.MaxScore),
	)
	fmt.Fprintf(x.w, "Risk: %s\n", x.paint(riskColors[level], level.Text().Get(x.lang, x.fallback)))
	fmt.Fprintf(x.w, "Audit: %s\n", result.Risk.Priority.Text().Get(x.lang, x.fallback))

	x.categories(catalog, result.Score)

	x.heading(fmt.Sprintf("Recommendations (Total: %d)", len(result.Recommendations)))
	if len(result.Recommendations) == 0 {
		fmt.Fprintln(x.w, "None")
		return
	}
	tw := x.newTable()
	tw.SetHeaders("Severity", "Category", "Question", "Standard")
	for _, rec := range result.Recommendations {
		tw.AddRow(
			x.paint(severityColors[rec.Severity], strings.ToUpper(rec.Severity.String())),
			rec.CategoryID.String(),
			rec.Question,
			strings.Join(rec.Standard, "\n"),
		)
	}
	tw.Render()
}

// Progress writes the completion and the running score
func (x *reportWriter) Progress(catalog *model.Catalog, progress *model.Progress) {
	fmt.Fprintf(x.w, "Progress: %d / %d questions (%.2f%%)\n",
		progress.Answered, progress.Total, model.Round(progress.Completion))
	fmt.Fprintf(x.w, "Score: %.2f%% (%s / %s)\n",
		model.Round(progress.Score.Percentage),
		formatPoints(progress.Score.TotalScore),
		formatPoints(progress.Score.MaxScore),
	)
	x.categories(catalog, progress.Score)
}

func (x *reportWriter) categories(catalog *model.Catalog, score model.Score) {
	x.heading("Categories")
	tw := x.newTable()
	tw.SetHeaders("ID", "Category", "Score", "Max", "Percentage")
	tw.SetAlignment(table.AlignLeft, table.AlignLeft, table.AlignRight, table.AlignRight, table.AlignRight)
	for _, cat := range catalog.Categories() {
		cs, _ := score.Category(cat.ID)
		tw.AddRow(
			cat.ID.String(),
			cat.Name.Get(x.lang, x.fallback),
			formatPoints(cs.Score),
			formatPoints(cs.MaxScore),
			fmt.Sprintf("%.2f%%", model.Round(cs.Percentage)),
		)
	}
	tw.Render()
}

func formatPoints(v float64) string {
	return fmt.Sprintf("%g", model.Round(v))
}

// categoryMax returns the highest score reachable in a category
func categoryMax(questions []model.Question) float64 {
	var total float64
	for i := range questions {
		total += questions[i].MaxPoints()
	}
	return total
}
