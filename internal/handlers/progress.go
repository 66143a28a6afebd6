package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"studypack-backend/internal/middleware"
	"studypack-backend/internal/models"
)

type progressService interface {
	SetMastery(ctx context.Context, userID, flashcardID uuid.UUID, mastered bool) (*models.FlashcardProgress, error)
	RecordAttempt(ctx context.Context, userID uuid.UUID, req models.RecordAttemptRequest) (*models.QuizAttempt, error)
}

type ProgressHandler struct {
	progress progressService
}

func NewProgressHandler(progress progressService) *ProgressHandler {
	return &ProgressHandler{progress: progress}
}

func (h *ProgressHandler) SetMastery(w http.ResponseWriter, r *http.Request) {
	var req models.SetMasteryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("INVALID_REQUEST", "Invalid request body", r))
		return
	}

	p, err := h.progress.SetMastery(r.Context(), middleware.GetUserID(r.Context()), req.FlashcardID, req.Mastered)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *ProgressHandler) RecordAttempt(w http.ResponseWriter, r *http.Request) {
	var req models.RecordAttemptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("INVALID_REQUEST", "Invalid request body", r))
		return
	}

	attempt, err := h.progress.RecordAttempt(r.Context(), middleware.GetUserID(r.Context()), req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, attempt)
}
