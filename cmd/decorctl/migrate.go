// AngelaMos | 2026
// migrate.go

package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/carterperez-dev/decorbook/internal/core"
)

func NewMigrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or inspect database migrations",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply every pending migration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withDatabase(cmd, func(ctx context.Context, db *core.Database) error {
					if err := core.Migrate(ctx, db.DB.DB); err != nil {
						return err
					}
					cmd.Println("migrations applied")
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Print applied and pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withDatabase(cmd, func(ctx context.Context, db *core.Database) error {
					return core.MigrationStatus(ctx, db.DB.DB)
				})
			},
		},
	)

	return cmd
}
