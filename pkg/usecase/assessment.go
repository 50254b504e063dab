package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/assessor/pkg/domain/model"
	"github.com/secmon-lab/assessor/pkg/domain/types"
	"github.com/secmon-lab/assessor/pkg/service/scoring"
	"github.com/secmon-lab/assessor/pkg/utils/logging"
	"golang.org/x/sync/errgroup"
)

// SubmitInput is a submission for a final assessment
type SubmitInput struct {
	Responses model.ResponseSet
	AppInfo   model.AppInfo
	Locale    types.Locale
}

type AssessmentUseCase struct {
	catalog       *model.Catalog
	validator     *model.ResponseValidator
	defaultLocale types.Locale
	metrics       *Metrics
	now           func() time.Time
	newID         func() string
}

func NewAssessmentUseCase(catalog *model.Catalog, defaultLocale types.Locale, metrics *Metrics, now func() time.Time, newID func() string) *AssessmentUseCase {
	return &AssessmentUseCase{
		catalog:       catalog,
		validator:     model.NewResponseValidator(catalog),
		defaultLocale: defaultLocale,
		metrics:       metrics,
		now:           now,
		newID:         newID,
	}
}

// Submit validates a complete response set and returns the final result.
// Invalid responses fail with model.ErrUnknownQuestion or
// model.ErrInvalidOption. Unanswered questions fail with
// *model.IncompleteSubmissionError.
func (uc *AssessmentUseCase) Submit(ctx context.Context, in SubmitInput) (*model.AssessmentResult, error) {
	logger := logging.From(ctx)
	lang := in.Locale.Or(uc.defaultLocale)

	if err := uc.validator.Validate(in.Responses); err != nil {
		uc.metrics.rejected.WithLabelValues(reasonValidation).Inc()
		return nil, goerr.Wrap(err, "invalid responses")
	}

	var (
		score           model.Score
		recommendations []model.Recommendation
		answers         []model.Answer
	)
	eg, _ := errgroup.WithContext(ctx)
	eg.Go(func() error {
		score = scoring.Score(uc.catalog, in.Responses)
		return nil
	})
	eg.Go(func() error {
		recommendations = scoring.Recommend(uc.catalog, in.Responses, lang, uc.defaultLocale)
		return nil
	})
	eg.Go(func() error {
		answers = scoring.Answers(uc.catalog, in.Responses, lang, uc.defaultLocale)
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, goerr.Wrap(err, "failed to compute assessment")
	}

	result, err := scoring.Assemble(uc.catalog, in.Responses, scoring.Assembly{
		ID:              uc.newID(),
		CreatedAt:       uc.now(),
		Locale:          lang,
		Score:           score,
		Recommendations: recommendations,
		Answers:         answers,
		AppInfo:         in.AppInfo,
	})
	if err != nil {
		if errors.Is(err, model.ErrIncompleteSubmission) {
			uc.metrics.rejected.WithLabelValues(reasonIncomplete).Inc()
		}
		return nil, err
	}

	uc.metrics.assessments.WithLabelValues(result.Risk.Level.String()).Inc()
	uc.metrics.percentage.Observe(result.Score.Percentage)

	logger.Info("assessment completed",
		slog.String(ResultIDKey, result.ID),
		slog.Float64("percentage", model.Round(result.Score.Percentage)),
		slog.String("risk_level", result.Risk.Level.String()),
		slog.Int("recommendations", len(result.Recommendations)),
		slog.Any("app_info", result.AppInfo),
	)

	return result, nil
}

// Progress scores a partial response set. Only the responses given are
// validated; unanswered questions are allowed.
func (uc *AssessmentUseCase) Progress(ctx context.Context, responses model.ResponseSet) (*model.Progress, error) {
	if err := uc.validator.Validate(responses); err != nil {
		uc.metrics.rejected.WithLabelValues(reasonValidation).Inc()
		return nil, goerr.Wrap(err, "invalid responses")
	}

	uc.metrics.progress.Inc()
	progress := scoring.Progress(uc.catalog, responses, scoring.Score(uc.catalog, responses))

	logging.From(ctx).Debug("progress computed",
		slog.Int("answered", progress.Answered),
		slog.Int("total", progress.Total),
	)
	return &progress, nil
}
