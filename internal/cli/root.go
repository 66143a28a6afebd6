// Package cli implements packctl, the operator tool for the study pack backend.
package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "packctl",
		Short: "Operator tooling for the study pack backend",
		Long: `packctl inspects what the generator would see for a document,
applies database migrations and mints development tokens.`,
		SilenceUsage: true,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}

	rootCmd.AddCommand(
		newExtractCmd(),
		newPromptCmd(),
		newMigrateCmd(),
		newTokenCmd(),
	)
	return rootCmd
}

func Execute() {
	// Same .env the server reads
	godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Println("❌", err)
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
