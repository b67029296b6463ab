// AngelaMos | 2026
// root.go

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/carterperez-dev/decorbook/internal/config"
	"github.com/carterperez-dev/decorbook/internal/core"
)

func RootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "decorctl",
		Short:         "Operator tooling for the decorbook API",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.PersistentFlags().StringP("config", "c", "config.yaml", "path to config file")

	root.AddCommand(
		NewMigrateCommand(),
		NewKeysCommand(),
		NewTokenCommand(),
		NewUsersCommand(),
	)

	return root
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	return config.Load(path)
}

// withDatabase opens the configured database for the duration of fn.
func withDatabase(
	cmd *cobra.Command,
	fn func(ctx context.Context, db *core.Database) error,
) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close() //nolint:errcheck // best-effort on exit

	return fn(ctx, db)
}
