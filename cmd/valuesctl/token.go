package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/reflectionapp/reflection/api/internal/service"
)

func newTokenCmd(c *cli) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "token <email>",
		Short: "Issue a bearer token for the HTTP API",
		Long: `Issue a bearer token for the HTTP API, signed with the configured JWT secret.

Examples:
  valuesctl token someone@example.com
  curl -H "Authorization: Bearer $(valuesctl token someone@example.com -o yaml | awk '/token:/ {print $2}')" ...`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := service.NewAuthService(c.cfg).IssueToken(args[0], name)
			if err != nil {
				return err
			}
			return c.print(cmd.OutOrStdout(), map[string]any{
				"token":     token,
				"expiresAt": time.Now().Add(c.cfg.JWT.Expiry).UTC().Format(time.RFC3339),
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name claim")
	return cmd
}
