package services

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestBuildGenerationPrompt_EmbedsParameters(t *testing.T) {
	prompt := BuildGenerationPrompt("The French Revolution began in 1789.", "Hard", "Short", 7, 4)

	assert.Contains(t, prompt, "Create a Short length concise summary")
	assert.Contains(t, prompt, "exactly 7 flashcards")
	assert.Contains(t, prompt, "exactly 4 multiple choice practice questions at Hard difficulty")
	assert.Contains(t, prompt, "5-8 key topics")
	assert.Contains(t, prompt, "The French Revolution began in 1789.")
	for _, key := range []string{`"summary"`, `"topics"`, `"flashcards"`, `"quizzes"`, `"correctAnswer"`} {
		assert.Contains(t, prompt, key)
	}
	assert.Contains(t, prompt, "Do not use markdown")
}

func TestBuildGenerationPrompt_TruncatesMaterial(t *testing.T) {
	material := strings.Repeat("a", MaxPromptMaterialChars) + "TAIL-MARKER"
	prompt := BuildGenerationPrompt(material, "Medium", "Medium", 10, 5)

	assert.NotContains(t, prompt, "TAIL-MARKER")
	assert.Contains(t, prompt, strings.Repeat("a", MaxPromptMaterialChars))
}

func TestTruncateRunes_CountsCharactersNotBytes(t *testing.T) {
	s := strings.Repeat("é", 10)
	got := truncateRunes(s, 4)
	assert.Equal(t, 4, utf8.RuneCountInString(got))
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, s, truncateRunes(s, 10))
}

func TestBuildExplainPrompt(t *testing.T) {
	prompt := BuildExplainPrompt("  entropy always increases  ", "")
	assert.Contains(t, prompt, "Context of the study material: General")
	assert.Contains(t, prompt, `Text to explain: "entropy always increases"`)

	prompt = BuildExplainPrompt("entropy always increases", "Thermodynamics lecture")
	assert.Contains(t, prompt, "Context of the study material: Thermodynamics lecture")
}
