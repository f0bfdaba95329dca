// cmd/api/commands.go
// This file defines the command-line surface: serving the API and the
// explicit, destructive schema reset.
package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/aoideee/bookstore/internal/config"
	"github.com/aoideee/bookstore/internal/logger"
)

// newRootCommand returns the "bookstore" command. Run on its own it serves
// the API; with --reset-schema it first drops and recreates both tables.
func newRootCommand() *cobra.Command {
	var resetFirst bool

	root := &cobra.Command{
		Use:           "bookstore",
		Short:         "Books and customers HTTP API",
		Version:       appVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, closeStore, err := bootstrap()
			if err != nil {
				return err
			}
			defer closeStore()

			if resetFirst {
				if err := app.resetSchema(cmd.Context()); err != nil {
					return err
				}
			}

			return app.serve(cmd.Context())
		},
	}
	root.Flags().BoolVar(&resetFirst, "reset-schema", false, "drop and recreate the books and customers tables before serving (destroys all rows)")

	root.AddCommand(&cobra.Command{
		Use:   "reset-schema",
		Short: "Drop and recreate the books and customers tables, then exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, closeStore, err := bootstrap()
			if err != nil {
				return err
			}
			defer closeStore()

			return app.resetSchema(cmd.Context())
		},
	})

	return root
}

// bootstrap loads the configuration, builds the logger and opens the store.
func bootstrap() (*applicationDependencies, func() error, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	log := logger.New(os.Stdout, cfg.Logging, cfg.Env)

	models, closeStore, err := openStore(cfg.Database)
	if err != nil {
		log.Error().Err(err).Str("driver", cfg.Database.Driver).Msg("could not open store")
		return nil, nil, err
	}
	log.Info().Str("driver", cfg.Database.Driver).Msg("store ready")

	return &applicationDependencies{
		config: *cfg,
		logger: log,
		models: models,
	}, closeStore, nil
}

// resetSchema drops and recreates both tables. Every row is lost.
func (app *applicationDependencies) resetSchema(ctx context.Context) error {
	if err := app.models.ResetSchema(ctx); err != nil {
		app.logger.Error().Err(err).Msg("schema reset failed")
		return err
	}
	app.logger.Warn().Msg("schema reset: books and customers tables recreated")
	return nil
}
