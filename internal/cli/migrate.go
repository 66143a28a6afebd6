package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"studypack-backend/internal/database"
)

func newMigrateCmd() *cobra.Command {
	var databaseURL, dir string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			if databaseURL == "" {
				return errors.New("database url is required (--database-url or DATABASE_URL)")
			}

			pool, err := database.NewPostgresPool(databaseURL)
			if err != nil {
				return err
			}
			defer pool.Close()

			applied, err := database.RunMigrations(cmd.Context(), pool, dir)
			if err != nil {
				return err
			}
			if len(applied) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "✅ Schema is up to date")
				return nil
			}
			for _, v := range applied {
				fmt.Fprintf(cmd.OutOrStdout(), "✅ Applied migration %03d\n", v)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&databaseURL, "database-url", envOr("DATABASE_URL", ""), "Postgres connection string")
	cmd.Flags().StringVar(&dir, "dir", envOr("MIGRATIONS_DIR", "migrations"), "directory holding NNN_name.sql files")
	return cmd
}
