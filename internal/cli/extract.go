package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"studypack-backend/internal/services"
)

func newExtractCmd() *cobra.Command {
	var contentType string

	cmd := &cobra.Command{
		Use:   "extract <file>",
		Short: "Print the plain text extracted from a document",
		Long: "extract prints the text the generator would receive for a document.\n\nSupported types:\n  " +
			strings.Join(services.SupportedTypes(), "\n  "),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := extractFile(args[0], contentType)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}

	cmd.Flags().StringVar(&contentType, "type", "", "content type (defaults to the file extension)")
	return cmd
}

func extractFile(path, contentType string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	text, err := services.ExtractText(data, contentType, filepath.Base(path))
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%s: no extractable text", path)
	}
	return text, nil
}
