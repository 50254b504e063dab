package export_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/assessor/pkg/domain/model"
	"github.com/secmon-lab/assessor/pkg/domain/types"
	"github.com/secmon-lab/assessor/pkg/service/export"
	"github.com/xuri/excelize/v2"
)

func openWorkbook(t *testing.T, buf *bytes.Buffer) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(buf)
	gt.NoError(t, err).Required()
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func cellValue(t *testing.T, f *excelize.File, sheet, cell string) string {
	t.Helper()
	v, err := f.GetCellValue(sheet, cell)
	gt.NoError(t, err).Required()
	return v
}

func TestXLSX_Template(t *testing.T) {
	c := newCatalog(t)
	x := export.NewXLSX(types.LocaleFR)
	gt.String(t, x.ContentType()).Contains("spreadsheetml")
	gt.Value(t, x.FileExtension()).Equal("xlsx")

	t.Run("english", func(t *testing.T) {
		var buf bytes.Buffer
		gt.NoError(t, x.Template(context.Background(), &buf, c, types.LocaleEN)).Required()
		f := openWorkbook(t, &buf)

		gt.Value(t, f.GetSheetList()).Equal([]string{"Information", "Questionnaire"})
		gt.Value(t, cellValue(t, f, "Information", "A1")).Equal("Security Questionnaire")
		gt.Value(t, cellValue(t, f, "Information", "A3")).Equal("Application name")
		gt.Value(t, cellValue(t, f, "Information", "A8")).Equal("Description")

		gt.Value(t, cellValue(t, f, "Questionnaire", "A1")).Equal("ID")
		gt.Value(t, cellValue(t, f, "Questionnaire", "D1")).Equal("Answer")
		gt.Value(t, cellValue(t, f, "Questionnaire", "A2")).Equal("Identity")
		gt.Value(t, cellValue(t, f, "Questionnaire", "A3")).Equal("iam-001")
		gt.Value(t, cellValue(t, f, "Questionnaire", "B3")).Equal("Is MFA enabled?")
		gt.Value(t, cellValue(t, f, "Questionnaire", "C3")).Equal("no = No\nyes = Yes")
		gt.Value(t, cellValue(t, f, "Questionnaire", "D3")).Equal("")
		gt.Value(t, cellValue(t, f, "Questionnaire", "E3")).Equal("ISO27001 A.9.4, ANSSI R12")
		gt.Value(t, cellValue(t, f, "Questionnaire", "A4")).Equal("iam-002")

		merged, err := f.GetMergeCells("Questionnaire")
		gt.NoError(t, err).Required()
		gt.Array(t, merged).Length(1).Required()
		gt.Value(t, merged[0].GetStartAxis()).Equal("A2")
		gt.Value(t, merged[0].GetEndAxis()).Equal("E2")
	})

	t.Run("french", func(t *testing.T) {
		var buf bytes.Buffer
		gt.NoError(t, x.Template(context.Background(), &buf, c, types.LocaleFR)).Required()
		f := openWorkbook(t, &buf)

		gt.Value(t, f.GetSheetList()).Equal([]string{"Informations", "Questionnaire"})
		gt.Value(t, cellValue(t, f, "Questionnaire", "D1")).Equal("Réponse")
		gt.Value(t, cellValue(t, f, "Questionnaire", "B3")).Equal("MFA activé ?")
	})

	t.Run("unknown locale falls back", func(t *testing.T) {
		var buf bytes.Buffer
		gt.NoError(t, x.Template(context.Background(), &buf, c, types.Locale("de"))).Required()
		f := openWorkbook(t, &buf)
		gt.Value(t, f.GetSheetList()[0]).Equal("Informations")
	})
}

func TestXLSX_Results(t *testing.T) {
	c := newCatalog(t)
	x := export.NewXLSX(types.LocaleFR)
	result := newResult(t, c, model.AppInfo{Name: "billing", Owner: "payments", Contact: "owner@example.com"})

	var buf bytes.Buffer
	gt.NoError(t, x.Results(context.Background(), &buf, c, result)).Required()
	f := openWorkbook(t, &buf)

	gt.Value(t, f.GetSheetList()).Equal([]string{"Summary", "Detailed Results", "Recommendations"})

	t.Run("summary", func(t *testing.T) {
		gt.Value(t, cellValue(t, f, "Summary", "A1")).Equal("Security Assessment Results")
		gt.Value(t, cellValue(t, f, "Summary", "B3")).Equal("billing")
		gt.Value(t, cellValue(t, f, "Summary", "B4")).Equal("payments")
		gt.Value(t, cellValue(t, f, "Summary", "B6")).Equal("2025-03-01T10:00:00Z")
		gt.Value(t, cellValue(t, f, "Summary", "B7")).Equal("2025.1")
		gt.Value(t, cellValue(t, f, "Summary", "B9")).Equal("50%")
		gt.Value(t, cellValue(t, f, "Summary", "B10")).Equal("10/20")
		gt.Value(t, cellValue(t, f, "Summary", "A11")).Equal("Risk Level")
		gt.Value(t, cellValue(t, f, "Summary", "B11")).Equal("High Risk")
		gt.Value(t, cellValue(t, f, "Summary", "A14")).Equal("Category Breakdown")
		gt.Value(t, cellValue(t, f, "Summary", "A16")).Equal("Identity")
		gt.Value(t, cellValue(t, f, "Summary", "B16")).Equal("10/20")
		gt.Value(t, cellValue(t, f, "Summary", "C16")).Equal("50")

		rows, err := f.GetRows("Summary")
		gt.NoError(t, err).Required()
		for _, row := range rows {
			for _, cell := range row {
				gt.String(t, cell).NotContains("owner@example.com")
			}
		}
	})

	t.Run("risk level is colored", func(t *testing.T) {
		id, err := f.GetCellStyle("Summary", "B11")
		gt.NoError(t, err).Required()
		style, err := f.GetStyle(id)
		gt.NoError(t, err).Required()
		if style.Font == nil {
			t.Fatal("risk level cell has no font")
		}
		gt.String(t, style.Font.Color).Contains("EF4444")
	})

	t.Run("detailed results", func(t *testing.T) {
		gt.Value(t, cellValue(t, f, "Detailed Results", "C1")).Equal("Selected Answer")
		gt.Value(t, cellValue(t, f, "Detailed Results", "A2")).Equal("Identity")
		gt.Value(t, cellValue(t, f, "Detailed Results", "B2")).Equal("Is MFA enabled?")
		gt.Value(t, cellValue(t, f, "Detailed Results", "C2")).Equal("Yes")
		gt.Value(t, cellValue(t, f, "Detailed Results", "D2")).Equal("10/10")
		gt.Value(t, cellValue(t, f, "Detailed Results", "C3")).Equal("No")
		gt.Value(t, cellValue(t, f, "Detailed Results", "D3")).Equal("0/10")
	})

	t.Run("recommendations", func(t *testing.T) {
		gt.Value(t, cellValue(t, f, "Recommendations", "A1")).Equal("Improvement Recommendations")
		gt.Value(t, cellValue(t, f, "Recommendations", "A3")).Equal("Severity")
		gt.Value(t, cellValue(t, f, "Recommendations", "A4")).Equal("High")
		gt.Value(t, cellValue(t, f, "Recommendations", "B4")).Equal("Identity")
		gt.Value(t, cellValue(t, f, "Recommendations", "C4")).Equal("Access review?")
	})

	t.Run("french", func(t *testing.T) {
		fr := *result
		fr.Locale = types.LocaleFR

		var buf bytes.Buffer
		gt.NoError(t, x.Results(context.Background(), &buf, c, &fr)).Required()
		f := openWorkbook(t, &buf)

		gt.Value(t, f.GetSheetList()).Equal([]string{"Résumé", "Résultats Détaillés", "Recommandations"})
		gt.Value(t, cellValue(t, f, "Résumé", "A9")).Equal("Score Global")
		gt.Value(t, cellValue(t, f, "Résumé", "B11")).Equal("Risque Élevé")
		gt.Value(t, cellValue(t, f, "Résultats Détaillés", "C1")).Equal("Réponse Sélectionnée")
		gt.Value(t, cellValue(t, f, "Recommandations", "A4")).Equal("Élevée")
	})

	t.Run("no recommendation", func(t *testing.T) {
		best := *result
		best.Recommendations = []model.Recommendation{}

		var buf bytes.Buffer
		gt.NoError(t, x.Results(context.Background(), &buf, c, &best)).Required()
		f := openWorkbook(t, &buf)
		gt.Value(t, cellValue(t, f, "Recommendations", "A4")).Equal("No recommendation")
	})
}

func TestXLSX_FormulaCells(t *testing.T) {
	c := newCatalog(t)
	x := export.NewXLSX(types.LocaleFR)
	result := newResult(t, c, model.AppInfo{Name: "=1+1", Owner: "@SUM(A1)"})

	var buf bytes.Buffer
	gt.NoError(t, x.Results(context.Background(), &buf, c, result)).Required()
	f := openWorkbook(t, &buf)

	for cell, want := range map[string]string{"B3": "=1+1", "B4": "@SUM(A1)"} {
		gt.Value(t, cellValue(t, f, "Summary", cell)).Equal(want)
		formula, err := f.GetCellFormula("Summary", cell)
		gt.NoError(t, err).Required()
		gt.Value(t, formula).Equal("")
	}
}

func TestFormat(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want export.Format
		ext  string
	}{
		{in: "xlsx", want: export.FormatXLSX, ext: "xlsx"},
		{in: "CSV", want: export.FormatCSV, ext: "csv"},
	} {
		t.Run(tc.in, func(t *testing.T) {
			format, err := export.ParseFormat(tc.in)
			gt.NoError(t, err).Required()
			gt.Value(t, format).Equal(tc.want)

			exporter, err := export.New(format, types.LocaleFR)
			gt.NoError(t, err).Required()
			gt.Value(t, exporter.FileExtension()).Equal(tc.ext)
		})
	}

	_, err := export.ParseFormat("pdf")
	gt.Error(t, err).Is(export.ErrUnsupportedFormat)
	_, err = export.New("pdf", types.LocaleFR)
	gt.Error(t, err).Is(export.ErrUnsupportedFormat)
}
