package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"studypack-backend/internal/middleware"
	"studypack-backend/internal/models"
)

type statsService interface {
	UserStats(ctx context.Context, userID uuid.UUID) (*models.UserStats, error)
}

// StatsHandler serves the profile page counters.
type StatsHandler struct {
	stats statsService
}

func NewStatsHandler(stats statsService) *StatsHandler {
	return &StatsHandler{stats: stats}
}

func (h *StatsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.stats.UserStats(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
