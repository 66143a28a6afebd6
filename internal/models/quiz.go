package models

import (
	"time"

	"github.com/google/uuid"
)

type Quiz struct {
	ID            uuid.UUID `json:"id"`
	StudyPackID   uuid.UUID `json:"studyPackId"`
	Question      string    `json:"question"`
	Options       []string  `json:"options"`
	CorrectAnswer string    `json:"correctAnswer"`
	Position      int       `json:"position"`
}

// QuizAttempt is one completed quiz session against a pack. Rows are never updated.
type QuizAttempt struct {
	ID             uuid.UUID `json:"id"`
	UserID         uuid.UUID `json:"userId"`
	StudyPackID    uuid.UUID `json:"studyPackId"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"totalQuestions"`
	CorrectAnswers int       `json:"correctAnswers"`
	AttemptedAt    time.Time `json:"attemptedAt"`
}

type RecordAttemptRequest struct {
	StudyPackID    uuid.UUID `json:"studyPackId"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"totalQuestions"`
	CorrectAnswers int       `json:"correctAnswers"`
}

type PackProgress struct {
	MasteredCount    int           `json:"masteredCount"`
	TotalFlashcards  int           `json:"totalFlashcards"`
	AverageQuizScore int           `json:"averageQuizScore"`
	LastAttempt      *QuizAttempt  `json:"lastAttempt"`
	QuizHistory      []QuizAttempt `json:"quizHistory"`
}
