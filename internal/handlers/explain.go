package handlers

import (
	"context"
	"encoding/json"
	"net/http"
)

type explainService interface {
	Explain(ctx context.Context, selected, contextSummary string) (string, error)
}

type ExplainHandler struct {
	explain explainService
}

func NewExplainHandler(explain explainService) *ExplainHandler {
	return &ExplainHandler{explain: explain}
}

type explainRequest struct {
	Text    string `json:"text"`
	Context string `json:"context"`
}

func (h *ExplainHandler) Explain(w http.ResponseWriter, r *http.Request) {
	var req explainRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("INVALID_REQUEST", "Invalid request body", r))
		return
	}

	explanation, err := h.explain.Explain(r.Context(), req.Text, req.Context)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"explanation": explanation})
}
