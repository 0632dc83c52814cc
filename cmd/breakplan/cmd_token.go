package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spec-kit/break-planner/internal/auth"
	"github.com/spec-kit/break-planner/internal/config"
	"github.com/spec-kit/break-planner/internal/domain"
)

func newTokenCmd() *cobra.Command {
	var (
		subject string
		role    string
	)
	cmd := &cobra.Command{
		Use:     "token",
		Short:   "Issue an API bearer token signed with AUTH_JWT_SECRET",
		Example: `  AUTH_JWT_SECRET=... breakplan token --subject store-042 --role manager`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if cfg.Auth.JWTSecret == "" {
				return errors.New("AUTH_JWT_SECRET is not set")
			}
			tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
			token, expiresAt, err := tokens.GenerateToken(subject, domain.OperatorRole(role))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			fmt.Fprintf(cmd.ErrOrStderr(), "expires %s\n", expiresAt.UTC().Format("2006-01-02T15:04:05Z"))
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "", "Operator or store identifier")
	cmd.Flags().StringVar(&role, "role", string(domain.OperatorRoleViewer), "Operator role: manager or viewer")
	_ = cmd.MarkFlagRequired("subject")
	return cmd
}
