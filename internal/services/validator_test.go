package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validPayload = `{
  "summary": "Cells are the basic unit of life.",
  "topics": ["cells", " ", "biology"],
  "flashcards": [{"question": "What is a cell?", "answer": "The basic unit of life."}],
  "quizzes": [{"question": "Which organelle makes ATP?", "options": ["Nucleus", "Mitochondria", "Ribosome", "Golgi"], "correctAnswer": "Mitochondria"}]
}`

func TestValidateGenerated_Valid(t *testing.T) {
	content, err := ValidateGenerated(validPayload)
	require.NoError(t, err)

	assert.Equal(t, "Cells are the basic unit of life.", content.Summary)
	assert.Equal(t, []string{"cells", "biology"}, content.Topics)
	require.Len(t, content.Flashcards, 1)
	require.Len(t, content.Quizzes, 1)
	assert.Equal(t, "Mitochondria", content.Quizzes[0].CorrectAnswer)
}

func TestValidateGenerated_StripsCodeFences(t *testing.T) {
	content, err := ValidateGenerated("```json\n" + validPayload + "\n```")
	require.NoError(t, err)
	assert.Len(t, content.Flashcards, 1)
}

func TestValidateGenerated_MissingTopicsBecomesEmpty(t *testing.T) {
	content, err := ValidateGenerated(`{"summary":"s","flashcards":[{"question":"q","answer":"a"}],"quizzes":[]}`)
	require.NoError(t, err)
	assert.NotNil(t, content.Topics)
	assert.Empty(t, content.Topics)
}

func TestValidateGenerated_Rejects(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", "Sure! Here are your flashcards."},
		{"summary only", `{"summary": "x"}`},
		{"empty summary", `{"summary": " ", "flashcards": [{"question":"q","answer":"a"}], "quizzes": []}`},
		{"flashcards not an array", `{"summary": "x", "flashcards": "none", "quizzes": []}`},
		{"both arrays empty", `{"summary": "x", "flashcards": [], "quizzes": []}`},
		{"flashcard without answer", `{"summary": "x", "flashcards": [{"question":"q","answer":""}], "quizzes": []}`},
		{"quiz answer not among options", `{"summary": "x", "flashcards": [], "quizzes": [{"question":"q","options":["a","b"],"correctAnswer":"c"}]}`},
		{"quiz with one option", `{"summary": "x", "flashcards": [], "quizzes": [{"question":"q","options":["a"],"correctAnswer":"a"}]}`},
		{"quiz with blank option", `{"summary": "x", "flashcards": [], "quizzes": [{"question":"q","options":["a",""],"correctAnswer":"a"}]}`},
		{"quiz without question", `{"summary": "x", "flashcards": [], "quizzes": [{"question":"","options":["a","b"],"correctAnswer":"a"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content, err := ValidateGenerated(tt.raw)
			assert.Nil(t, content)
			assert.ErrorIs(t, err, ErrInvalidAIResponse)
		})
	}
}

func TestValidateGenerated_MissingFieldsNamed(t *testing.T) {
	_, err := ValidateGenerated(`{"summary": "x"}`)
	require.Error(t, err)
	assert.Contains(t, ClientMessage(err, ""), "flashcards, quizzes")
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"plain", `{"a":1}`, `{"a":1}`},
		{"fenced", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"fence without close", "```\n{\"a\":1}", `{"a":1}`},
		{"surrounding prose", `Here you go: {"a":1} enjoy`, `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractJSON(tt.content))
		})
	}
}
