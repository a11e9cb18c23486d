package main

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"planetgen/internal/auth"
	"planetgen/internal/shared/utils"
)

type tokenOptions struct {
	subject string
	role    string
	ttl     time.Duration
	secret  string
}

func newTokenCmd() *cobra.Command {
	opts := tokenOptions{}

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Sign a bearer token for the admin endpoints",
		Long: `Sign an HS256 bearer token with the server's JWT_SECRET.

The secret is read from the environment or a .env file unless --secret is given.

Examples:
  planetctl token --subject ops
  planetctl token --role viewer --ttl 1h`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runToken(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.subject, "subject", "admin", "token subject")
	cmd.Flags().StringVar(&opts.role, "role", auth.RoleAdmin, "role claim")
	cmd.Flags().DurationVar(&opts.ttl, "ttl", 24*time.Hour, "token lifetime")
	cmd.Flags().StringVar(&opts.secret, "secret", "", "signing secret (defaults to JWT_SECRET)")
	return cmd
}

func runToken(cmd *cobra.Command, opts tokenOptions) error {
	secret := opts.secret
	if secret == "" {
		_ = godotenv.Load()
		secret = utils.GetEnv("JWT_SECRET", "")
	}

	tokens, err := auth.NewTokenService(secret, opts.ttl)
	if err != nil {
		return err
	}

	signed, err := tokens.GenerateJWT(opts.subject, opts.role)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), signed)
	return err
}
