package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"studypack-backend/internal/models"
	"studypack-backend/internal/services"
)

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func errorResp(code, message string, r *http.Request) models.ErrorResponse {
	return models.ErrorResponse{
		Error: models.APIError{
			Code:      code,
			Message:   message,
			RequestID: r.Header.Get("X-Request-ID"),
		},
	}
}

func errorRespWithFields(code, message string, fields map[string]string, r *http.Request) models.ErrorResponse {
	return models.ErrorResponse{
		Error: models.APIError{
			Code:      code,
			Message:   message,
			Fields:    fields,
			RequestID: r.Header.Get("X-Request-ID"),
		},
	}
}

// handleServiceError maps service error kinds onto HTTP responses. 5xx causes
// are logged; clients only get the code and a safe message.
func handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *services.ValidationError
	if errors.As(err, &ve) {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed", ve.Fields, r))
		return
	}

	code := services.ErrorCode(err)
	switch {
	case errors.Is(err, services.ErrUnsupportedFormat),
		errors.Is(err, services.ErrParseFailure),
		errors.Is(err, services.ErrEmptyContent),
		errors.Is(err, services.ErrNoContent),
		errors.Is(err, services.ErrContentTooShort):
		writeJSON(w, http.StatusBadRequest, errorResp(code, services.ClientMessage(err, "Invalid content"), r))
	case errors.Is(err, services.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResp(code, services.ClientMessage(err, "Not found"), r))
	case errors.Is(err, services.ErrUnauthorized):
		writeJSON(w, http.StatusUnauthorized, errorResp(code, services.ClientMessage(err, "Unauthorized"), r))
	case errors.Is(err, services.ErrProvider),
		errors.Is(err, services.ErrInvalidAIResponse),
		errors.Is(err, services.ErrStorage):
		log.Printf("%s %s: %v", r.Method, r.URL.Path, err)
		writeJSON(w, http.StatusInternalServerError, errorResp(code, services.ClientMessage(err, "An unexpected error occurred"), r))
	default:
		log.Printf("%s %s: %v", r.Method, r.URL.Path, err)
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "An unexpected error occurred", r))
	}
}

// pathID parses the {id} URL parameter, writing a 400 when it is not a UUID.
func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("INVALID_ID", "Invalid ID", r))
		return uuid.Nil, false
	}
	return id, true
}
