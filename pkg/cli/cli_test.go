package cli_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/assessor/pkg/cli"
	"github.com/xuri/excelize/v2"
)

const testCatalog = `
version = "test-1"

[[category]]
id = "iam"
name = { fr = "Identités", en = "Identity" }

  [[category.question]]
  id = "iam-001"
  weight = 1.5
  standard = ["ISO27001 A.9.4.2"]
  text = { fr = "MFA ?", en = "MFA?" }

    [[category.question.option]]
    value = "0"
    weight = 0
    weak = true
    label = { fr = "Non", en = "No" }

    [[category.question.option]]
    value = "10"
    weight = 10
    label = { fr = "Oui", en = "Yes" }

  [[category.question]]
  id = "iam-002"
  text = { fr = "Revue des accès ?", en = "Access review?" }

    [[category.question.option]]
    value = "0"
    weight = 0
    label = { fr = "Non", en = "No" }

    [[category.question.option]]
    value = "10"
    weight = 10
    label = { fr = "Oui", en = "Yes" }
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	gt.NoError(t, os.WriteFile(path, []byte(content), 0o600)).Required()
	return path
}

func run(args ...string) error {
	return cli.Run(context.Background(), append([]string{"assessor", "--log-level", "error"}, args...), "test")
}

func TestRun_ValidateCommand(t *testing.T) {
	t.Run("embedded catalog", func(t *testing.T) {
		gt.NoError(t, run("validate"))
	})

	t.Run("catalog file", func(t *testing.T) {
		path := writeFile(t, "catalog.toml", testCatalog)
		gt.NoError(t, run("validate", "--catalog", path))
	})

	t.Run("invalid catalog", func(t *testing.T) {
		path := writeFile(t, "catalog.toml", `
version = "broken"

[[category]]
id = "iam"
name = { fr = "Identités" }
`)
		gt.Value(t, run("validate", "--catalog", path)).NotNil()
	})

	t.Run("missing catalog", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nonexistent.toml")
		gt.Value(t, run("validate", "--catalog", path)).NotNil()
	})

	t.Run("invalid default locale", func(t *testing.T) {
		gt.Value(t, run("validate", "--default-locale", "de")).NotNil()
	})
}

func TestRun_InvalidLogLevel(t *testing.T) {
	err := cli.Run(context.Background(), []string{"assessor", "--log-level", "verbose", "validate"}, "test")
	gt.Value(t, err).NotNil()
}

func TestRun_ScoreCommand_JSON(t *testing.T) {
	catalogPath := writeFile(t, "catalog.toml", testCatalog)
	input := writeFile(t, "responses.json", `{
		"responses": {"iam-001": 0, "iam-002": "10"},
		"app_info": {"name": "billing"},
		"lang": "en"
	}`)
	output := filepath.Join(t.TempDir(), "result.json")

	gt.NoError(t, run("score", "--catalog", catalogPath, "-i", input, "-o", output, "-f", "json")).Required()

	data, err := os.ReadFile(output)
	gt.NoError(t, err).Required()

	var result struct {
		Lang  string `json:"lang"`
		Score struct {
			Percentage float64 `json:"percentage"`
			RiskLevel  struct {
				Level string `json:"level"`
			} `json:"risk_level"`
		} `json:"score"`
		Recommendations []struct {
			QuestionID string `json:"question_id"`
			Question   string `json:"question"`
			Severity   string `json:"severity"`
		} `json:"recommendations"`
		AppInfo struct {
			Name string `json:"name"`
		} `json:"app_info"`
	}
	gt.NoError(t, json.Unmarshal(data, &result)).Required()

	// 10 of 25 points
	gt.Value(t, result.Lang).Equal("en")
	gt.Value(t, result.Score.Percentage).Equal(40.0)
	gt.Value(t, result.Score.RiskLevel.Level).Equal("HIGH")
	gt.Array(t, result.Recommendations).Length(1).Required()
	gt.Value(t, result.Recommendations[0].QuestionID).Equal("iam-001")
	gt.Value(t, result.Recommendations[0].Question).Equal("MFA?")
	gt.Value(t, result.Recommendations[0].Severity).Equal("high")
	gt.Value(t, result.AppInfo.Name).Equal("billing")
}

func TestRun_ScoreCommand_Table(t *testing.T) {
	catalogPath := writeFile(t, "catalog.toml", testCatalog)
	input := writeFile(t, "responses.yaml", `
responses:
  iam-001: "10"
  iam-002: "10"
app_info:
  name: billing
`)
	output := filepath.Join(t.TempDir(), "result.txt")

	gt.NoError(t, run("score", "--catalog", catalogPath, "-i", input, "-o", output, "--lang", "en")).Required()

	data, err := os.ReadFile(output)
	gt.NoError(t, err).Required()
	gt.String(t, string(data)).Contains("Score: 100.00%")
	gt.String(t, string(data)).Contains("Low Risk")
	gt.String(t, string(data)).Contains("Identity")
	gt.String(t, string(data)).Contains("Recommendations (Total: 0)")
}

func TestRun_ScoreCommand_CSV(t *testing.T) {
	catalogPath := writeFile(t, "catalog.toml", testCatalog)
	input := writeFile(t, "responses.json", `{"responses": {"iam-001": "10", "iam-002": "0"}}`)
	output := filepath.Join(t.TempDir(), "result.csv")

	gt.NoError(t, run("score", "--catalog", catalogPath, "-i", input, "-o", output, "-f", "csv")).Required()

	data, err := os.ReadFile(output)
	gt.NoError(t, err).Required()
	gt.String(t, string(data)).Contains("Risque Modéré")
	gt.String(t, string(data)).Contains("iam-002")
}

func TestRun_ScoreCommand_XLSX(t *testing.T) {
	catalogPath := writeFile(t, "catalog.toml", testCatalog)
	input := writeFile(t, "responses.json", `{"responses": {"iam-001": "10", "iam-002": "0"}, "app_info": {"name": "=1+1"}}`)
	output := filepath.Join(t.TempDir(), "result.xlsx")

	gt.NoError(t, run("score", "--catalog", catalogPath, "-i", input, "-o", output, "-f", "xlsx")).Required()

	f, err := excelize.OpenFile(output)
	gt.NoError(t, err).Required()
	defer func() { _ = f.Close() }()

	gt.Value(t, f.GetSheetList()).Equal([]string{"Résumé", "Résultats Détaillés", "Recommandations"})

	name, err := f.GetCellValue("Résumé", "B3")
	gt.NoError(t, err).Required()
	gt.Value(t, name).Equal("=1+1")
	formula, err := f.GetCellFormula("Résumé", "B3")
	gt.NoError(t, err).Required()
	gt.Value(t, formula).Equal("")
}

func TestRun_ScoreCommand_Progress(t *testing.T) {
	catalogPath := writeFile(t, "catalog.toml", testCatalog)
	input := writeFile(t, "responses.json", `{"responses": {"iam-001": "10"}}`)
	output := filepath.Join(t.TempDir(), "progress.txt")

	gt.NoError(t, run("score", "--catalog", catalogPath, "-i", input, "-o", output, "--progress")).Required()

	data, err := os.ReadFile(output)
	gt.NoError(t, err).Required()
	gt.String(t, string(data)).Contains("Progress: 1 / 2 questions (50.00%)")
	gt.String(t, string(data)).Contains("Score: 60.00%")
}

func TestRun_ScoreCommand_Errors(t *testing.T) {
	catalogPath := writeFile(t, "catalog.toml", testCatalog)

	t.Run("incomplete submission", func(t *testing.T) {
		input := writeFile(t, "responses.json", `{"responses": {"iam-001": "10"}}`)
		gt.Value(t, run("score", "--catalog", catalogPath, "-i", input)).NotNil()
	})

	t.Run("invalid option", func(t *testing.T) {
		input := writeFile(t, "responses.json", `{"responses": {"iam-001": "5", "iam-002": "0"}}`)
		gt.Value(t, run("score", "--catalog", catalogPath, "-i", input)).NotNil()
	})

	t.Run("missing responses", func(t *testing.T) {
		input := writeFile(t, "responses.json", `{"lang": "en"}`)
		gt.Value(t, run("score", "--catalog", catalogPath, "-i", input)).NotNil()
	})

	t.Run("unknown format", func(t *testing.T) {
		input := writeFile(t, "responses.json", `{"responses": {"iam-001": "10", "iam-002": "10"}}`)
		gt.Value(t, run("score", "--catalog", catalogPath, "-i", input, "-f", "xml")).NotNil()
	})

	t.Run("xlsx to stdout", func(t *testing.T) {
		input := writeFile(t, "responses.json", `{"responses": {"iam-001": "10", "iam-002": "10"}}`)
		gt.Value(t, run("score", "--catalog", catalogPath, "-i", input, "-f", "xlsx")).NotNil()
	})

	t.Run("csv with progress", func(t *testing.T) {
		input := writeFile(t, "responses.json", `{"responses": {"iam-001": "10"}}`)
		gt.Value(t, run("score", "--catalog", catalogPath, "-i", input, "-f", "csv", "--progress")).NotNil()
	})
}
