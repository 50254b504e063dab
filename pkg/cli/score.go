package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/secmon-lab/assessor/pkg/cli/config"
	httpctrl "github.com/secmon-lab/assessor/pkg/controller/http"
	"github.com/secmon-lab/assessor/pkg/domain/model"
	"github.com/secmon-lab/assessor/pkg/domain/types"
	"github.com/secmon-lab/assessor/pkg/service/export"
	"github.com/secmon-lab/assessor/pkg/usecase"
	"github.com/secmon-lab/assessor/pkg/utils/logging"
	"github.com/secmon-lab/assessor/pkg/utils/safe"
)

const maxResponseFileSize = 1 << 20

var (
	errInvalidInput  = goerr.New("invalid response file")
	errInvalidFormat = goerr.New("invalid output format")
)

// responseFile is the document read by the score command. It has the same
// shape as the submit request body.
type responseFile struct {
	Responses map[types.QuestionID]types.OptionValue `json:"responses" yaml:"responses"`
	AppInfo   model.AppInfo                          `json:"app_info" yaml:"app_info"`
	Lang      string                                 `json:"lang" yaml:"lang"`
}

func readResponseFile(path string) (*responseFile, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = safe.ReadAll(os.Stdin, maxResponseFileSize)
	} else {
		// #nosec G304 - path is expected to be provided by CLI argument
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read response file", goerr.V("path", path))
	}

	var file responseFile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &file)
	default:
		err = json.Unmarshal(data, &file)
	}
	if err != nil {
		return nil, goerr.Wrap(errInvalidInput, err.Error(), goerr.V("path", path))
	}
	if file.Responses == nil {
		return nil, goerr.Wrap(errInvalidInput, "responses are required", goerr.V("path", path))
	}
	return &file, nil
}

func cmdScore() *cli.Command {
	var input string
	var output string
	var format string
	var lang string
	var progressOnly bool
	var catalogCfg config.Catalog

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "input",
			Aliases:     []string{"i"},
			Usage:       "Response file (JSON or YAML), '-' for stdin",
			Required:    true,
			Destination: &input,
		},
		&cli.StringFlag{
			Name:        "output",
			Aliases:     []string{"o"},
			Usage:       "Output file, '-' for stdout",
			Value:       "-",
			Destination: &output,
		},
		&cli.StringFlag{
			Name:        "format",
			Aliases:     []string{"f"},
			Usage:       "Output format (table, json, csv, xlsx)",
			Value:       "table",
			Destination: &format,
		},
		&cli.StringFlag{
			Name:        "lang",
			Usage:       "Display language; overrides the lang of the response file",
			Destination: &lang,
		},
		&cli.BoolFlag{
			Name:        "progress",
			Usage:       "Report progress of a partial response set instead of a final assessment",
			Destination: &progressOnly,
		},
	}
	flags = append(flags, catalogCfg.Flags()...)

	return &cli.Command{
		Name:  "score",
		Usage: "Score a response file against the catalog",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			exportFormat := export.FormatCSV
			switch format {
			case "table", "json":
			case "csv", "xlsx":
				if progressOnly {
					return goerr.Wrap(errInvalidFormat, format+" is not available with --progress")
				}
				if format == "xlsx" && output == "-" {
					return goerr.Wrap(errInvalidFormat, "xlsx requires an output file")
				}
				exportFormat = export.Format(format)
			default:
				return goerr.Wrap(errInvalidFormat, "format must be table, json, csv or xlsx", goerr.V("format", format))
			}

			catalog, err := catalogCfg.Load(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to load catalog")
			}
			defaultLocale, err := catalogCfg.DefaultLocale()
			if err != nil {
				return err
			}

			file, err := readResponseFile(input)
			if err != nil {
				return err
			}
			if lang == "" {
				lang = file.Lang
			}
			locale := types.Locale(strings.ToLower(lang)).Or(defaultLocale)

			exporter, err := export.New(exportFormat, defaultLocale)
			if err != nil {
				return err
			}
			uc := usecase.New(catalog,
				usecase.WithDefaultLocale(defaultLocale),
				usecase.WithExporter(exporter),
			)

			var buf bytes.Buffer
			report := newReportWriter(&buf, locale, defaultLocale)
			if output == "-" {
				report.colored = isTerminal(os.Stdout)
			}

			if progressOnly {
				progress, err := uc.Assessment.Progress(ctx, model.ResponseSet(file.Responses))
				if err != nil {
					return err
				}
				if format == "json" {
					data, err := httpctrl.MarshalProgress(progress)
					if err != nil {
						return goerr.Wrap(err, "failed to encode progress")
					}
					buf.Write(append(data, '\n'))
				} else {
					report.Progress(catalog, progress)
				}
				return writeOutput(ctx, output, buf.Bytes())
			}

			in := usecase.SubmitInput{
				Responses: model.ResponseSet(file.Responses),
				AppInfo:   file.AppInfo,
				Locale:    locale,
			}

			var result *model.AssessmentResult
			switch format {
			case "csv", "xlsx":
				result, err = uc.Export.Results(ctx, &buf, in)
			default:
				result, err = uc.Assessment.Submit(ctx, in)
			}
			if err != nil {
				var incomplete *model.IncompleteSubmissionError
				if errors.As(err, &incomplete) {
					logging.From(ctx).Warn("Unanswered questions", "missing", incomplete.Missing)
				}
				return err
			}

			switch format {
			case "json":
				data, err := httpctrl.MarshalResult(result)
				if err != nil {
					return goerr.Wrap(err, "failed to encode result")
				}
				buf.Write(append(data, '\n'))
			case "table":
				report.Result(catalog, result)
			}

			return writeOutput(ctx, output, buf.Bytes())
		},
	}
}

func writeOutput(ctx context.Context, path string, data []byte) error {
	if path == "-" {
		safe.Write(ctx, os.Stdout, data)
		return nil
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return goerr.Wrap(err, "failed to write output", goerr.V("path", path))
	}
	return nil
}
