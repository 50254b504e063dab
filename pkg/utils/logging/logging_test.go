package logging_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/assessor/pkg/utils/logging"
)

func TestFrom(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	t.Run("falls back to default", func(t *testing.T) {
		gt.Value(t, logging.From(context.Background())).Equal(logging.Default())
	})

	t.Run("returns logger in context", func(t *testing.T) {
		ctx := logging.With(context.Background(), logger)
		logging.From(ctx).Info("hello", "key", "value")
		gt.String(t, buf.String()).Contains(`"msg":"hello"`)
		gt.String(t, buf.String()).Contains(`"key":"value"`)
	})
}

func TestSetDefault(t *testing.T) {
	orig := logging.Default()
	t.Cleanup(func() { logging.SetDefault(orig) })

	var buf bytes.Buffer
	logging.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	logging.Default().Warn("replaced")
	gt.String(t, buf.String()).Contains("replaced")
}
