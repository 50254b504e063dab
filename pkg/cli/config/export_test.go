package config

import (
	"context"

	"github.com/secmon-lab/assessor/pkg/domain/interfaces"
)

// NewCatalogForTest creates a Catalog config reading remote objects from reader
func NewCatalogForTest(source, defaultLocale string, reader interfaces.ObjectReader) *Catalog {
	return &Catalog{
		source:        source,
		defaultLocale: defaultLocale,
		newObjectReader: func(ctx context.Context) (interfaces.ObjectReader, func(), error) {
			return reader, func() {}, nil
		},
	}
}

// NewLoggerForTest creates a Logger config for testing purposes
func NewLoggerForTest(level, format, output string) *Logger {
	return &Logger{
		level:  level,
		format: format,
		output: output,
	}
}
