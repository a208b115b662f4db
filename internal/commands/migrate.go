package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Maverick2506/Fintrack-backend/internal/cli"
	"github.com/Maverick2506/Fintrack-backend/internal/storage"
)

func newMigrateCommand(cfgPath func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cli.LoadConfig(cfgPath())
			if err != nil {
				return err
			}
			logger := cli.SetupLogger(cfg)

			var dialect storage.Dialect
			var dsn string
			switch cfg.DataBackend {
			case "sqlite":
				dialect, dsn = storage.SQLite, storage.SQLiteDSN(cfg.SQLiteDBPath)
			case "postgres":
				dialect, dsn = storage.Postgres, cfg.DatabaseURL
			default:
				return fmt.Errorf("backend %q has no migrations", cfg.DataBackend)
			}

			if err := storage.RunMigrations(dialect, dsn); err != nil {
				return err
			}
			logger.Info("Migrations applied", "backend", cfg.DataBackend)
			fmt.Fprintf(cmd.OutOrStdout(), "migrations applied (%s)\n", cfg.DataBackend)
			return nil
		},
	}
}
