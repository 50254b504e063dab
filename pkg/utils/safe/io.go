package safe

import (
	"context"
	"io"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/assessor/pkg/utils/logging"
)

// ErrTooLarge is returned by ReadAll when the input exceeds the limit
var ErrTooLarge = goerr.New("input exceeds size limit")

// Close closes closer and logs the error, if any. A nil closer is ignored.
func Close(ctx context.Context, closer io.Closer) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logging.From(ctx).Error("Failed to close", slog.Any("error", err))
	}
}

// Write writes data to w and logs the error, if any. A nil writer is ignored.
func Write(ctx context.Context, w io.Writer, data []byte) {
	if w == nil {
		return
	}
	if _, err := w.Write(data); err != nil {
		logging.From(ctx).Error("Failed to write", slog.Any("error", err), slog.Int("size", len(data)))
	}
}

// ReadAll reads r until EOF. It fails with ErrTooLarge instead of buffering
// more than limit bytes.
func ReadAll(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read")
	}
	if int64(len(data)) > limit {
		return nil, goerr.Wrap(ErrTooLarge, "input is too large", goerr.V("limit", limit))
	}
	return data, nil
}
