// AngelaMos | 2026
// keys.go

package main

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/carterperez-dev/decorbook/internal/auth"
)

const defaultTokenTTL = time.Hour

func NewKeysCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Manage local identity signing keys",
	}

	generate := &cobra.Command{
		Use:   "generate",
		Short: "Write a new ES256 key pair as PEM files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir, _ := cmd.Flags().GetString("dir")
			if err := os.MkdirAll(dir, 0o700); err != nil {
				return err
			}

			privatePath := filepath.Join(dir, "private.pem")
			publicPath := filepath.Join(dir, "public.pem")
			if err := auth.GenerateKeyPair(privatePath, publicPath); err != nil {
				return err
			}

			cmd.Printf("wrote %s and %s\n", privatePath, publicPath)
			return nil
		},
	}
	generate.Flags().String("dir", "keys", "directory to write the key pair into")

	cmd.AddCommand(generate)
	return cmd
}

// NewTokenCommand signs development tokens that the API verifies with the
// matching public key.
func NewTokenCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue development identity tokens",
	}

	issue := &cobra.Command{
		Use:   "issue",
		Short: "Sign an identity token for an email",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			keyPath, _ := cmd.Flags().GetString("key")
			email, _ := cmd.Flags().GetString("email")
			name, _ := cmd.Flags().GetString("name")
			issuer, _ := cmd.Flags().GetString("issuer")
			audience, _ := cmd.Flags().GetString("audience")
			ttl, _ := cmd.Flags().GetDuration("ttl")

			iss, err := auth.NewIssuer(keyPath, issuer, audience)
			if err != nil {
				return err
			}

			token, err := iss.Issue(auth.IdentityClaims{Email: email, Name: name}, ttl)
			if err != nil {
				return err
			}

			cmd.Println(token)
			return nil
		},
	}
	issue.Flags().String("key", "keys/private.pem", "PEM private key to sign with")
	issue.Flags().String("email", "", "email claim of the token")
	issue.Flags().String("name", "", "display name claim")
	issue.Flags().String("issuer", "decorbook-dev", "iss claim")
	issue.Flags().String("audience", "decorbook", "aud claim")
	issue.Flags().Duration("ttl", defaultTokenTTL, "token lifetime")
	_ = issue.MarkFlagRequired("email")

	cmd.AddCommand(issue)
	return cmd
}
