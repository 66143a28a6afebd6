package services

import (
	"encoding/json"
	"fmt"
	"strings"

	"studypack-backend/internal/models"
)

// rawGenerated keeps array fields as pointers so a missing key can be told
// apart from an empty array.
type rawGenerated struct {
	Summary    string                       `json:"summary"`
	Topics     []string                     `json:"topics"`
	Flashcards *[]models.GeneratedFlashcard `json:"flashcards"`
	Quizzes    *[]models.GeneratedQuiz      `json:"quizzes"`
}

// ValidateGenerated parses provider output and enforces the generated-content
// contract, including per-item shape.
func ValidateGenerated(raw string) (*models.GeneratedContent, error) {
	var parsed rawGenerated
	if err := json.Unmarshal([]byte(extractJSON(raw)), &parsed); err != nil {
		return nil, newError(ErrInvalidAIResponse, "The AI returned malformed JSON", err)
	}

	var missing []string
	if strings.TrimSpace(parsed.Summary) == "" {
		missing = append(missing, "summary")
	}
	if parsed.Flashcards == nil {
		missing = append(missing, "flashcards")
	}
	if parsed.Quizzes == nil {
		missing = append(missing, "quizzes")
	}
	if len(missing) > 0 {
		return nil, newError(ErrInvalidAIResponse,
			"The AI response is missing required fields: "+strings.Join(missing, ", "), nil)
	}

	flashcards := *parsed.Flashcards
	quizzes := *parsed.Quizzes
	if len(flashcards) == 0 && len(quizzes) == 0 {
		return nil, newError(ErrInvalidAIResponse, "The AI response contains no flashcards or quizzes", nil)
	}

	for i, fc := range flashcards {
		if strings.TrimSpace(fc.Question) == "" || strings.TrimSpace(fc.Answer) == "" {
			return nil, newError(ErrInvalidAIResponse,
				fmt.Sprintf("Flashcard %d is missing its question or answer", i+1), nil)
		}
	}

	for i, q := range quizzes {
		if err := validateQuiz(q); err != nil {
			return nil, newError(ErrInvalidAIResponse, fmt.Sprintf("Quiz %d %s", i+1, err.Error()), nil)
		}
	}

	topics := make([]string, 0, len(parsed.Topics))
	for _, topic := range parsed.Topics {
		if topic = strings.TrimSpace(topic); topic != "" {
			topics = append(topics, topic)
		}
	}

	return &models.GeneratedContent{
		Summary:    strings.TrimSpace(parsed.Summary),
		Topics:     topics,
		Flashcards: flashcards,
		Quizzes:    quizzes,
	}, nil
}

func validateQuiz(q models.GeneratedQuiz) error {
	if strings.TrimSpace(q.Question) == "" {
		return fmt.Errorf("is missing its question")
	}
	if len(q.Options) < 2 {
		return fmt.Errorf("needs at least 2 options, got %d", len(q.Options))
	}
	for _, opt := range q.Options {
		if strings.TrimSpace(opt) == "" {
			return fmt.Errorf("has an empty option")
		}
	}
	for _, opt := range q.Options {
		if opt == q.CorrectAnswer {
			return nil
		}
	}
	return fmt.Errorf("has a correct answer %q that is not one of its options", q.CorrectAnswer)
}

// extractJSON removes markdown code fences if present and trims the payload
// to the outermost JSON object.
func extractJSON(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```") {
		start := 3
		if newlineIdx := strings.Index(content[start:], "\n"); newlineIdx != -1 {
			start += newlineIdx + 1
		}
		if endIdx := strings.Index(content[start:], "```"); endIdx != -1 {
			content = content[start : start+endIdx]
		} else {
			content = content[start:]
		}
	}

	content = strings.TrimSpace(content)
	if startIdx := strings.Index(content, "{"); startIdx != -1 {
		if endIdx := strings.LastIndex(content, "}"); endIdx > startIdx {
			content = content[startIdx : endIdx+1]
		}
	}

	return strings.TrimSpace(content)
}
