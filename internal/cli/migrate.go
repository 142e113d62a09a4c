package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/attendance-scan-go/internal/pkg/database"
	"github.com/spf13/cobra"
)

// NewMigrateCommand creates the migrate command.
func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	var list bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			if list {
				return listMigrations(cmd)
			}

			cfg, err := loadConfig(rootOpts)
			if err != nil {
				return err
			}

			db, err := database.NewPostgreSQLDB(cmd.Context(), cfg.DatabaseURL())
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer db.Close()

			return applyMigrations(cmd.Context(), db)
		},
	}

	cmd.Flags().BoolVar(&list, "list", false, "print embedded migrations without applying them")

	return cmd
}

func listMigrations(cmd *cobra.Command) error {
	migrations, err := database.Migrations()
	if err != nil {
		return fmt.Errorf("failed to read migrations: %w", err)
	}
	for _, m := range migrations {
		fmt.Fprintln(cmd.OutOrStdout(), m.Version)
	}
	return nil
}

func applyMigrations(ctx context.Context, db *database.DB) error {
	applied, err := db.Migrate(ctx)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	if len(applied) == 0 {
		slog.Info("database schema up to date")
		return nil
	}
	slog.Info("migrations applied", "count", len(applied), "names", applied)
	return nil
}
