package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"studypack-backend/internal/middleware"
)

func newTokenCmd() *cobra.Command {
	var (
		user   string
		secret string
		ttl    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a development access token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				return errors.New("signing secret is required (--secret or JWT_SECRET)")
			}

			userID := uuid.New()
			if user != "" {
				parsed, err := uuid.Parse(user)
				if err != nil {
					return fmt.Errorf("--user must be a uuid: %w", err)
				}
				userID = parsed
			}

			token, err := middleware.NewJWTAuth(secret).GenerateAccessToken(userID, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "user id (random when empty)")
	cmd.Flags().StringVar(&secret, "secret", envOr("JWT_SECRET", ""), "HMAC signing secret")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	return cmd
}
