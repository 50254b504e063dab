package usecase_test

import (
	"errors"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/assessor/pkg/usecase"
)

func TestErrors_SentinelIdentification(t *testing.T) {
	err := goerr.Wrap(usecase.ErrEmptySubmission, "export failed", goerr.V(usecase.LocaleKey, "fr"))
	gt.Bool(t, errors.Is(err, usecase.ErrEmptySubmission)).True()
}
