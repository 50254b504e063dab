package config

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/assessor/catalog"
	"github.com/secmon-lab/assessor/pkg/domain/interfaces"
	"github.com/secmon-lab/assessor/pkg/domain/model"
	"github.com/secmon-lab/assessor/pkg/domain/types"
	"github.com/secmon-lab/assessor/pkg/service/storage"
	"github.com/secmon-lab/assessor/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// Catalog holds CLI flags for the question catalog source
type Catalog struct {
	source        string
	defaultLocale string

	// newObjectReader is replaced in tests
	newObjectReader func(ctx context.Context) (interfaces.ObjectReader, func(), error)
}

// Flags returns CLI flags for catalog configuration
func (c *Catalog) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "catalog",
			Aliases:     []string{"c"},
			Usage:       "Catalog file (.toml, .json, .yaml) or gs://bucket/object. The embedded catalog is used when empty",
			Category:    "Catalog",
			Sources:     cli.EnvVars("ASSESSOR_CATALOG"),
			Destination: &c.source,
		},
		&cli.StringFlag{
			Name:        "default-locale",
			Usage:       "Locale used when a request has none or an unsupported one (fr, en)",
			Category:    "Catalog",
			Value:       types.LocaleFR.String(),
			Sources:     cli.EnvVars("ASSESSOR_DEFAULT_LOCALE"),
			Destination: &c.defaultLocale,
		},
	}
}

func (c Catalog) LogValue() slog.Value {
	source := c.source
	if source == "" {
		source = "(embedded)"
	}
	return slog.GroupValue(
		slog.String("source", source),
		slog.String("default_locale", c.defaultLocale),
	)
}

// Source returns the configured catalog location
func (c *Catalog) Source() string {
	return c.source
}

// DefaultLocale returns the validated default locale
func (c *Catalog) DefaultLocale() (types.Locale, error) {
	if c.defaultLocale == "" {
		return types.LocaleFR, nil
	}
	locale, err := types.ParseLocale(c.defaultLocale)
	if err != nil {
		return "", goerr.Wrap(ErrInvalidLocale, err.Error(), goerr.V("default_locale", c.defaultLocale))
	}
	return locale, nil
}

// Load reads and validates the catalog from the configured source
func (c *Catalog) Load(ctx context.Context) (*model.Catalog, error) {
	logger := logging.From(ctx)

	switch {
	case c.source == "":
		logger.Info("Using embedded catalog")
		return LoadCatalog(catalog.Default, FormatTOML)

	case strings.HasPrefix(c.source, "gs://"):
		bucket, object, err := storage.ParseURL(c.source)
		if err != nil {
			return nil, goerr.Wrap(err, "invalid catalog URL", goerr.V(SourceKey, c.source))
		}
		format, err := FormatFromPath(object)
		if err != nil {
			return nil, err
		}

		newReader := c.newObjectReader
		if newReader == nil {
			newReader = newStorageReader
		}
		reader, closer, err := newReader(ctx)
		if err != nil {
			return nil, err
		}
		defer closer()

		data, err := reader.Read(ctx, bucket, object)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to read catalog from Cloud Storage", goerr.V(SourceKey, c.source))
		}
		logger.Info("Using catalog from Cloud Storage", "bucket", bucket, "object", object)
		return loadWithSource(data, format, c.source)

	default:
		format, err := FormatFromPath(c.source)
		if err != nil {
			return nil, err
		}
		// #nosec G304 - path is expected to be provided by CLI argument
		data, err := os.ReadFile(c.source)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, goerr.Wrap(ErrConfigNotFound, "catalog file not found", goerr.V(ConfigPathKey, c.source))
			}
			return nil, goerr.Wrap(err, "failed to read catalog file", goerr.V(ConfigPathKey, c.source))
		}
		logger.Info("Using catalog file", "path", c.source)
		return loadWithSource(data, format, c.source)
	}
}

func loadWithSource(data []byte, format Format, source string) (*model.Catalog, error) {
	loaded, err := LoadCatalog(data, format)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load catalog", goerr.V(SourceKey, source))
	}
	return loaded, nil
}

func newStorageReader(ctx context.Context) (interfaces.ObjectReader, func(), error) {
	client, err := storage.New(ctx)
	if err != nil {
		return nil, nil, err
	}
	return client, func() {
		if err := client.Close(); err != nil {
			logging.From(ctx).Warn("failed to close Cloud Storage client", "error", err)
		}
	}, nil
}
