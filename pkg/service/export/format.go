package export

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/assessor/pkg/domain/interfaces"
	"github.com/secmon-lab/assessor/pkg/domain/types"
)

// Format is the document type of an exporter
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

var ErrUnsupportedFormat = goerr.New("unsupported export format")

// ParseFormat accepts a format name in any case
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatXLSX, FormatCSV:
		return f, nil
	default:
		return "", goerr.Wrap(ErrUnsupportedFormat, "export format must be xlsx or csv", goerr.V("format", s))
	}
}

// New returns the exporter of the given format
func New(format Format, fallback types.Locale) (interfaces.Exporter, error) {
	switch format {
	case FormatXLSX:
		return NewXLSX(fallback), nil
	case FormatCSV:
		return NewCSV(fallback), nil
	default:
		return nil, goerr.Wrap(ErrUnsupportedFormat, "unknown export format", goerr.V("format", format))
	}
}
