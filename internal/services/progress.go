package services

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"studypack-backend/internal/models"
	"studypack-backend/internal/repository"
)

type ProgressService struct {
	packs      PackRepository
	flashcards FlashcardRepository
	progress   ProgressRepository
}

func NewProgressService(packs PackRepository, flashcards FlashcardRepository, progress ProgressRepository) *ProgressService {
	return &ProgressService{packs: packs, flashcards: flashcards, progress: progress}
}

// SetMastery records whether userID has mastered the flashcard. Repeating the
// call overwrites the flag; there is only ever one row per (user, card).
func (s *ProgressService) SetMastery(ctx context.Context, userID, flashcardID uuid.UUID, mastered bool) (*models.FlashcardProgress, error) {
	if flashcardID == uuid.Nil {
		return nil, &ValidationError{Fields: map[string]string{"flashcardId": "Required"}}
	}

	card, err := s.flashcards.GetByID(ctx, flashcardID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, newError(ErrNotFound, "Flashcard not found", err)
		}
		return nil, newError(ErrStorage, "Failed to load flashcard", err)
	}
	if err := s.checkOwner(ctx, card.StudyPackID, userID); err != nil {
		return nil, err
	}

	p, err := s.progress.UpsertMastery(ctx, userID, flashcardID, mastered)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, newError(ErrNotFound, "Flashcard not found", err)
		}
		return nil, newError(ErrStorage, "Failed to save progress", err)
	}
	return p, nil
}

// RecordAttempt appends one quiz attempt for userID.
func (s *ProgressService) RecordAttempt(ctx context.Context, userID uuid.UUID, req models.RecordAttemptRequest) (*models.QuizAttempt, error) {
	if err := validateAttempt(req); err != nil {
		return nil, err
	}
	if err := s.checkOwner(ctx, req.StudyPackID, userID); err != nil {
		return nil, err
	}

	a := &models.QuizAttempt{
		UserID:         userID,
		StudyPackID:    req.StudyPackID,
		Score:          req.Score,
		TotalQuestions: req.TotalQuestions,
		CorrectAnswers: req.CorrectAnswers,
	}
	if err := s.progress.CreateAttempt(ctx, a); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, newError(ErrNotFound, "Study pack not found", err)
		case errors.Is(err, repository.ErrInvalid):
			return nil, &ValidationError{Fields: map[string]string{"score": "Attempt values are out of range"}}
		}
		return nil, newError(ErrStorage, "Failed to record quiz attempt", err)
	}
	return a, nil
}

func validateAttempt(req models.RecordAttemptRequest) error {
	fields := map[string]string{}
	if req.StudyPackID == uuid.Nil {
		fields["studyPackId"] = "Required"
	}
	if req.Score < 0 || req.Score > 100 {
		fields["score"] = "Must be between 0 and 100"
	}
	if req.TotalQuestions < 1 {
		fields["totalQuestions"] = "Must be at least 1"
	}
	if req.CorrectAnswers < 0 || req.CorrectAnswers > req.TotalQuestions {
		fields["correctAnswers"] = "Must be between 0 and totalQuestions"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func (s *ProgressService) checkOwner(ctx context.Context, packID, userID uuid.UUID) error {
	pack, err := s.packs.GetPackByID(ctx, packID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return newError(ErrNotFound, "Study pack not found", err)
		}
		return newError(ErrStorage, "Failed to load study pack", err)
	}
	if pack.UserID != userID {
		return newError(ErrUnauthorized, "Unauthorized", nil)
	}
	return nil
}
