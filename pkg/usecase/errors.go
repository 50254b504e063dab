package usecase

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for use case layer
var (
	ErrEmptySubmission = goerr.New("no responses provided")
)

// Context keys for error values
const (
	ResultIDKey = "result_id"
	LocaleKey   = "locale"
)
