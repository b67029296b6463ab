// AngelaMos | 2026
// users.go

package main

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/carterperez-dev/decorbook/internal/core"
	"github.com/carterperez-dev/decorbook/internal/user"
)

// NewUsersCommand covers the one thing the API cannot do for itself:
// promoting the first admin.
func NewUsersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Inspect and change stored user roles",
	}

	setRole := &cobra.Command{
		Use:   "set-role EMAIL ROLE",
		Short: "Change a user's role (user, decorator, admin)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(cmd, func(ctx context.Context, db *core.Database) error {
				svc := user.NewService(user.NewRepository(db.DB), slog.Default())
				u, err := svc.UpdateRole(ctx, args[0], args[1])
				if err != nil {
					return err
				}
				cmd.Printf("%s is now %s\n", u.Email, u.Role)
				return nil
			})
		},
	}

	cmd.AddCommand(setRole)
	return cmd
}
