package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/secmon-lab/assessor/pkg/domain/interfaces"
	"github.com/secmon-lab/assessor/pkg/domain/model"
	"github.com/secmon-lab/assessor/pkg/domain/types"
)

type UseCases struct {
	catalog       *model.Catalog
	defaultLocale types.Locale
	exporter      interfaces.Exporter
	registerer    prometheus.Registerer
	now           func() time.Time
	newID         func() string

	Assessment *AssessmentUseCase
	Catalog    *CatalogUseCase
	Export     *ExportUseCase // nil when no exporter is configured
}

type Option func(*UseCases)

// WithDefaultLocale sets the locale used when a request has no supported one
func WithDefaultLocale(locale types.Locale) Option {
	return func(uc *UseCases) {
		uc.defaultLocale = locale
	}
}

// WithExporter enables document export
func WithExporter(exporter interfaces.Exporter) Option {
	return func(uc *UseCases) {
		uc.exporter = exporter
	}
}

// WithRegisterer registers the use case metrics. Metrics are collected but
// not registered when omitted.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(uc *UseCases) {
		uc.registerer = reg
	}
}

// WithClock replaces the time source of result timestamps
func WithClock(now func() time.Time) Option {
	return func(uc *UseCases) {
		uc.now = now
	}
}

// WithIDGenerator replaces the generator of result IDs
func WithIDGenerator(newID func() string) Option {
	return func(uc *UseCases) {
		uc.newID = newID
	}
}

func New(catalog *model.Catalog, opts ...Option) *UseCases {
	uc := &UseCases{
		catalog:       catalog,
		defaultLocale: types.LocaleFR,
		now:           time.Now,
		newID:         func() string { return uuid.NewString() },
	}

	for _, opt := range opts {
		opt(uc)
	}

	metrics := NewMetrics(uc.registerer)
	uc.Assessment = NewAssessmentUseCase(catalog, uc.defaultLocale, metrics, uc.now, uc.newID)
	uc.Catalog = NewCatalogUseCase(catalog, uc.defaultLocale)
	if uc.exporter != nil {
		uc.Export = NewExportUseCase(uc.exporter, uc.Assessment, uc.now)
	}

	return uc
}

// DefaultLocale returns the fallback locale
func (uc *UseCases) DefaultLocale() types.Locale {
	return uc.defaultLocale
}
