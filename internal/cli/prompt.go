package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"studypack-backend/internal/services"
)

func newPromptCmd() *cobra.Command {
	var (
		contentType string
		opts        services.GenerateOptions
	)

	cmd := &cobra.Command{
		Use:   "prompt <file>",
		Short: "Print the generation prompt built for a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			normalized, err := services.NormalizeOptions(opts)
			if err != nil {
				return err
			}
			text, err := extractFile(args[0], contentType)
			if err != nil {
				return err
			}

			prompt := services.BuildGenerationPrompt(text, normalized.Difficulty, normalized.SummaryLength,
				normalized.FlashcardCount, normalized.QuizCount)
			fmt.Fprintln(cmd.OutOrStdout(), prompt)
			return nil
		},
	}

	cmd.Flags().StringVar(&contentType, "type", "", "content type (defaults to the file extension)")
	cmd.Flags().StringVar(&opts.Difficulty, "difficulty", "", "Easy, Medium or Hard")
	cmd.Flags().StringVar(&opts.SummaryLength, "summary-length", "", "Short, Medium or Long")
	cmd.Flags().IntVar(&opts.FlashcardCount, "flashcards", 0, "number of flashcards")
	cmd.Flags().IntVar(&opts.QuizCount, "quizzes", 0, "number of quiz questions")
	return cmd
}
