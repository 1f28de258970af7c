package main

import (
	"fmt"

	"github.com/prohmpiriya/lensdesk/internal/di"
	"github.com/prohmpiriya/lensdesk/internal/repository"
	"github.com/prohmpiriya/lensdesk/pkg/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func migrateCmd(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*envFile)
			if err != nil {
				return err
			}
			if cfg.Storage.Driver != config.StorageDriverPostgres {
				return fmt.Errorf("migrate needs STORAGE_DRIVER=postgres, got %q", cfg.Storage.Driver)
			}
			log, err := initLogger(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			ctx := cmd.Context()
			db, err := di.OpenPostgres(ctx, cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			applied, err := repository.Migrate(ctx, db.Pool())
			if err != nil {
				return err
			}
			log.Info("Migrations complete", zap.Strings("applied", applied))
			fmt.Fprintf(cmd.OutOrStdout(), "applied %d migration(s)\n", len(applied))
			return nil
		},
	}
}
