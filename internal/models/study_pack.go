package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	DifficultyEasy   = "Easy"
	DifficultyMedium = "Medium"
	DifficultyHard   = "Hard"

	LengthShort  = "Short"
	LengthMedium = "Medium"
	LengthLong   = "Long"

	// TextInputFileName names packs generated from pasted text.
	TextInputFileName = "Text Input"
)

type StudyPack struct {
	ID               uuid.UUID `json:"id"`
	UserID           uuid.UUID `json:"userId"`
	Title            string    `json:"title"`
	OriginalFileName string    `json:"originalFileName"`
	Summary          *string   `json:"summary"`
	Difficulty       string    `json:"difficulty"`
	SummaryLength    string    `json:"summaryLength"`
	FlashcardCount   int       `json:"flashcardCount"`
	QuizCount        int       `json:"quizCount"`
	Topics           []string  `json:"topics"`
	CreatedAt        time.Time `json:"createdAt"`
}

// StudyPackWithContent is the full pack as returned to its owner.
type StudyPackWithContent struct {
	*StudyPack
	Flashcards []Flashcard   `json:"flashcards"`
	Quizzes    []Quiz        `json:"quizzes"`
	Progress   *PackProgress `json:"progress,omitempty"`
}

// GeneratedContent is the validated provider payload.
type GeneratedContent struct {
	Summary    string               `json:"summary"`
	Topics     []string             `json:"topics"`
	Flashcards []GeneratedFlashcard `json:"flashcards"`
	Quizzes    []GeneratedQuiz      `json:"quizzes"`
}

type GeneratedFlashcard struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type GeneratedQuiz struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
}

type UserStats struct {
	TotalPacks         int `json:"totalPacks"`
	TotalFlashcards    int `json:"totalFlashcards"`
	TotalQuizzes       int `json:"totalQuizzes"`
	MasteredFlashcards int `json:"masteredFlashcards"`
	QuizAttempts       int `json:"quizAttempts"`
	AverageQuizScore   int `json:"averageQuizScore"`
}
