package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/phrazzld/postpone/internal/service/auth"
	"github.com/spf13/cobra"
)

func newTokenCommand(root *rootOptions) *cobra.Command {
	var user string

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a development bearer token for a user",
		Long: "token signs a JWT for the given user with the configured secret so the API\n" +
			"can be used locally without the identity provider.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			userID, err := parseUserFlag(user)
			if err != nil {
				return err
			}

			cfg, _, err := root.loadConfig(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			jwtService, err := auth.NewJWTService(cfg.Auth)
			if err != nil {
				return err
			}

			token, err := jwtService.GenerateToken(cmd.Context(), userID)
			if err != nil {
				return fmt.Errorf("failed to generate token: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&user, "user", "", "user ID (UUID) the token is issued for")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func parseUserFlag(value string) (uuid.UUID, error) {
	userID, err := uuid.Parse(value)
	if err != nil || userID == uuid.Nil {
		return uuid.Nil, fmt.Errorf("--user must be a non-nil UUID, got %q", value)
	}
	return userID, nil
}
