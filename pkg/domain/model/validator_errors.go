package model

import (
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/assessor/pkg/domain/types"
)

// Catalog errors. Every specific error wraps ErrInvalidCatalog so callers
// can test for either.
var (
	ErrInvalidCatalog = goerr.New("invalid catalog")
	ErrDuplicateID    = goerr.Wrap(ErrInvalidCatalog, "duplicate ID")
	ErrMissingLocale  = goerr.Wrap(ErrInvalidCatalog, "missing locale text")
	ErrTooFewOptions  = goerr.Wrap(ErrInvalidCatalog, "question requires at least two options")
	ErrEmptyCategory  = goerr.Wrap(ErrInvalidCatalog, "category requires at least one question")
	ErrInvalidWeight  = goerr.Wrap(ErrInvalidCatalog, "invalid weight")
	ErrInvalidPolicy  = goerr.Wrap(ErrInvalidCatalog, "invalid scoring policy")
)

// Submission errors
var (
	ErrUnknownQuestion      = goerr.New("unknown question")
	ErrInvalidOption        = goerr.New("invalid option for question")
	ErrIncompleteSubmission = goerr.New("submission is incomplete")
	ErrCategoryNotFound     = goerr.New("category not found")
)

// Context keys for error values
const (
	CategoryIDKey  = "category_id"
	QuestionIDKey  = "question_id"
	OptionValueKey = "option_value"
	LocaleKey      = "locale"
	WeightKey      = "weight"
	VersionKey     = "catalog_version"
)

// IncompleteSubmissionError is returned when a final assessment is requested
// while some questions are unanswered. It carries the current progress so
// the caller can still display it.
type IncompleteSubmissionError struct {
	Answered   int
	Total      int
	Completion float64 // answered / total * 100
	Missing    []types.QuestionID
	Progress   Score
}

func (e *IncompleteSubmissionError) Error() string {
	return fmt.Sprintf("submission is incomplete: %d of %d questions answered", e.Answered, e.Total)
}

// Is makes errors.Is(err, ErrIncompleteSubmission) match
func (e *IncompleteSubmissionError) Is(target error) bool {
	return target == ErrIncompleteSubmission
}
