package models

import (
	"time"

	"github.com/google/uuid"
)

type Flashcard struct {
	ID          uuid.UUID `json:"id"`
	StudyPackID uuid.UUID `json:"studyPackId"`
	Question    string    `json:"question"`
	Answer      string    `json:"answer"`
	Position    int       `json:"position"`
	// Mastered is nil when the requesting user has no progress row for the card.
	Mastered *bool `json:"mastered,omitempty"`
}

type FlashcardProgress struct {
	ID           uuid.UUID `json:"id"`
	UserID       uuid.UUID `json:"userId"`
	FlashcardID  uuid.UUID `json:"flashcardId"`
	Mastered     bool      `json:"mastered"`
	LastReviewed time.Time `json:"lastReviewed"`
}

type SetMasteryRequest struct {
	FlashcardID uuid.UUID `json:"flashcardId"`
	Mastered    bool      `json:"mastered"`
}
