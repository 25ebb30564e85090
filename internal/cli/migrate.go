package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dtroode/levelkeeper/database"
	"github.com/dtroode/levelkeeper/internal/config"
	"github.com/dtroode/levelkeeper/internal/repository/sqlite"
)

func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			switch a.cfg.Database.Driver {
			case config.DriverSQLite:
				db, err := sqlite.Open(ctx, a.cfg.SQLite.Path)
				if err != nil {
					return err
				}
				if err := db.Close(); err != nil {
					return fmt.Errorf("failed to close database: %w", err)
				}
			default:
				if err := database.Migrate(ctx, a.cfg.Database.DSN); err != nil {
					return err
				}
			}

			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	}
}
