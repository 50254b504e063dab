package usecase

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/assessor/pkg/domain/interfaces"
	"github.com/secmon-lab/assessor/pkg/domain/model"
	"github.com/secmon-lab/assessor/pkg/domain/types"
)

type ExportUseCase struct {
	exporter   interfaces.Exporter
	assessment *AssessmentUseCase
	now        func() time.Time
}

func NewExportUseCase(exporter interfaces.Exporter, assessment *AssessmentUseCase, now func() time.Time) *ExportUseCase {
	return &ExportUseCase{
		exporter:   exporter,
		assessment: assessment,
		now:        now,
	}
}

// ContentType returns the MIME type of exported documents
func (uc *ExportUseCase) ContentType() string {
	return uc.exporter.ContentType()
}

// TemplateFileName returns the download name of a blank questionnaire
func (uc *ExportUseCase) TemplateFileName(lang types.Locale) string {
	lang = lang.Or(uc.assessment.defaultLocale)
	return fmt.Sprintf("security_questionnaire_template_%s_%s.%s", lang, uc.now().Format("20060102"), uc.exporter.FileExtension())
}

// ResultsFileName returns the download name of an assessment report
func (uc *ExportUseCase) ResultsFileName(result *model.AssessmentResult) string {
	return fmt.Sprintf("security_assessment_results_%s_%s.%s", result.Locale, result.CreatedAt.Format("20060102"), uc.exporter.FileExtension())
}

// Template writes a blank questionnaire
func (uc *ExportUseCase) Template(ctx context.Context, w io.Writer, lang types.Locale) error {
	lang = lang.Or(uc.assessment.defaultLocale)
	if err := uc.exporter.Template(ctx, w, uc.assessment.catalog, lang); err != nil {
		return goerr.Wrap(err, "failed to export template", goerr.V(LocaleKey, lang))
	}
	return nil
}

// Results computes the assessment of the submission and writes it
func (uc *ExportUseCase) Results(ctx context.Context, w io.Writer, in SubmitInput) (*model.AssessmentResult, error) {
	if len(in.Responses) == 0 {
		return nil, goerr.Wrap(ErrEmptySubmission, "cannot export an empty submission")
	}

	result, err := uc.assessment.Submit(ctx, in)
	if err != nil {
		return nil, err
	}

	if err := uc.exporter.Results(ctx, w, uc.assessment.catalog, result); err != nil {
		return nil, goerr.Wrap(err, "failed to export results", goerr.V(ResultIDKey, result.ID))
	}
	return result, nil
}
