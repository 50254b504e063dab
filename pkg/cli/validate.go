package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/assessor/pkg/cli/config"
	"github.com/secmon-lab/assessor/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdValidate() *cli.Command {
	var catalogCfg config.Catalog

	return &cli.Command{
		Name:    "validate",
		Aliases: []string{"v"},
		Usage:   "Validate a questionnaire catalog",
		Flags:   catalogCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.From(ctx)

			if _, err := catalogCfg.DefaultLocale(); err != nil {
				return err
			}

			catalog, err := catalogCfg.Load(ctx)
			if err != nil {
				return goerr.Wrap(err, "catalog validation failed")
			}

			policy := catalog.Policy()
			logger.Info("Catalog validation passed",
				"version", catalog.Version(),
				"category_count", len(catalog.Categories()),
				"question_count", catalog.QuestionCount(),
				"low_min", policy.LowMin,
				"medium_min", policy.MediumMin,
				"high_min", policy.HighMin,
			)
			for _, cat := range catalog.Categories() {
				logger.Info("Category validated",
					"id", cat.ID,
					"name", cat.Name.EN,
					"question_count", len(cat.Questions),
					"max_score", categoryMax(cat.Questions),
				)
			}
			return nil
		},
	}
}
