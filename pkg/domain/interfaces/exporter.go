package interfaces

import (
	"context"
	"io"

	"github.com/secmon-lab/assessor/pkg/domain/model"
	"github.com/secmon-lab/assessor/pkg/domain/types"
)

// Exporter renders documents for download. The format is opaque to the
// caller; ContentType and FileExtension describe it.
type Exporter interface {
	// ContentType returns the MIME type of the rendered documents
	ContentType() string

	// FileExtension returns the file extension without the leading dot
	FileExtension() string

	// Template writes a blank questionnaire in the given locale
	Template(ctx context.Context, w io.Writer, catalog *model.Catalog, lang types.Locale) error

	// Results writes a finished assessment
	Results(ctx context.Context, w io.Writer, catalog *model.Catalog, result *model.AssessmentResult) error
}
