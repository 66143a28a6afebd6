package services

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// MaxPromptMaterialChars caps how much source text is embedded in a generation prompt.
const MaxPromptMaterialChars = 15000

// BuildGenerationPrompt produces the single instruction sent to the provider
// for a new study pack. Material beyond MaxPromptMaterialChars is dropped.
func BuildGenerationPrompt(text, difficulty, summaryLength string, flashcardCount, quizCount int) string {
	material := truncateRunes(text, MaxPromptMaterialChars)

	return fmt.Sprintf(`You are a study assistant.
From the material below:
1. Create a %s length concise summary.
2. Generate exactly %d flashcards (question and answer pairs).
3. Generate exactly %d multiple choice practice questions at %s difficulty. Each question has exactly 4 options, and correctAnswer must be copied verbatim from its options.
4. Extract 5-8 key topics or keywords.

Material:
%s

Respond ONLY with a single valid JSON object in this exact format. Do not use markdown, code fences, or backticks:
{
  "summary": "...",
  "topics": ["topic1", "topic2"],
  "flashcards": [
    { "question": "...", "answer": "..." }
  ],
  "quizzes": [
    { "question": "...", "options": ["Option A", "Option B", "Option C", "Option D"], "correctAnswer": "Option A" }
  ]
}`, summaryLength, flashcardCount, quizCount, difficulty, material)
}

// BuildExplainPrompt asks for a plain-language rewrite of a selected passage.
func BuildExplainPrompt(selectedText, contextSummary string) string {
	context := strings.TrimSpace(contextSummary)
	if context == "" {
		context = "General"
	}

	return fmt.Sprintf(`Explain the following text in simpler terms.
Context of the study material: %s
Text to explain: "%s"
Provide a clear, simple explanation.`, context, strings.TrimSpace(selectedText))
}

func truncateRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	n := 0
	for i := range s {
		if n == max {
			return s[:i]
		}
		n++
	}
	return s
}
