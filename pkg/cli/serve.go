package cli

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v3"

	"github.com/secmon-lab/assessor/pkg/cli/config"
	httpctrl "github.com/secmon-lab/assessor/pkg/controller/http"
	"github.com/secmon-lab/assessor/pkg/service/export"
	"github.com/secmon-lab/assessor/pkg/usecase"
	"github.com/secmon-lab/assessor/pkg/utils/logging"
)

func cmdServe(version string) *cli.Command {
	var addr string
	var enableMetrics bool
	var enableExport bool
	var exportFormat string
	var maxBodySize int64
	var catalogCfg config.Catalog

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("ASSESSOR_ADDR"),
			Destination: &addr,
		},
		&cli.BoolFlag{
			Name:        "metrics",
			Usage:       "Expose Prometheus metrics at /metrics",
			Value:       true,
			Sources:     cli.EnvVars("ASSESSOR_METRICS"),
			Destination: &enableMetrics,
		},
		&cli.BoolFlag{
			Name:        "export",
			Usage:       "Enable export endpoints",
			Value:       true,
			Sources:     cli.EnvVars("ASSESSOR_EXPORT"),
			Destination: &enableExport,
		},
		&cli.StringFlag{
			Name:        "export-format",
			Usage:       "Document format of the export endpoints (xlsx, csv)",
			Value:       string(export.FormatXLSX),
			Sources:     cli.EnvVars("ASSESSOR_EXPORT_FORMAT"),
			Destination: &exportFormat,
		},
		&cli.Int64Flag{
			Name:        "max-body-size",
			Usage:       "Maximum request body size in bytes",
			Value:       httpctrl.DefaultMaxBodySize,
			Sources:     cli.EnvVars("ASSESSOR_MAX_BODY_SIZE"),
			Destination: &maxBodySize,
		},
	}
	flags = append(flags, catalogCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.From(ctx)

			catalog, err := catalogCfg.Load(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to load catalog")
			}
			defaultLocale, err := catalogCfg.DefaultLocale()
			if err != nil {
				return err
			}

			reg := prometheus.NewRegistry()
			reg.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)

			ucOpts := []usecase.Option{
				usecase.WithDefaultLocale(defaultLocale),
				usecase.WithRegisterer(reg),
			}
			if enableExport {
				format, err := export.ParseFormat(exportFormat)
				if err != nil {
					return err
				}
				exporter, err := export.New(format, defaultLocale)
				if err != nil {
					return err
				}
				ucOpts = append(ucOpts, usecase.WithExporter(exporter))
			}
			uc := usecase.New(catalog, ucOpts...)

			httpOpts := []httpctrl.Options{
				httpctrl.WithVersion(version),
				httpctrl.WithMaxBodySize(maxBodySize),
			}
			if enableMetrics {
				httpOpts = append(httpOpts, httpctrl.WithMetrics(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
			}

			server := &http.Server{
				Addr:              addr,
				Handler:           httpctrl.New(uc, httpOpts...),
				ReadHeaderTimeout: 30 * time.Second,
				BaseContext: func(_ net.Listener) context.Context {
					return ctx
				},
			}

			// Setup signal handling for graceful shutdown
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(sigCh)

			errCh := make(chan error, 1)
			go func() {
				logger.Info("Starting HTTP server",
					"addr", addr,
					"catalog", catalogCfg,
					"catalog_version", catalog.Version(),
					"metrics", enableMetrics,
					"export", enableExport,
					"export_format", exportFormat,
				)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
				logger.Info("Context canceled, shutting down")
			case sig := <-sigCh:
				logger.Info("Received shutdown signal", "signal", sig)
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shutdown server gracefully")
			}

			logger.Info("Server shutdown completed")
			return nil
		},
	}
}
