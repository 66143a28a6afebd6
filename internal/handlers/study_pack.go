package handlers

import (
	"context"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"studypack-backend/internal/middleware"
	"studypack-backend/internal/models"
	"studypack-backend/internal/services"
)

type studyPackService interface {
	Generate(ctx context.Context, userID uuid.UUID, in services.GenerateInput) (*models.StudyPackWithContent, error)
	ListPacks(ctx context.Context, userID uuid.UUID) ([]*models.StudyPack, error)
	GetPack(ctx context.Context, id, requester uuid.UUID) (*models.StudyPackWithContent, error)
	DeletePack(ctx context.Context, id, requester uuid.UUID) error
	ExportFlashcards(ctx context.Context, id, requester uuid.UUID, format, colorKey string) (*services.Export, error)
}

type StudyPackHandler struct {
	packs          studyPackService
	maxUploadBytes int64
}

func NewStudyPackHandler(packs studyPackService, maxUploadBytes int64) *StudyPackHandler {
	return &StudyPackHandler{packs: packs, maxUploadBytes: maxUploadBytes}
}

// Generate accepts a multipart upload ("file") or pasted text ("textInput")
// plus generation options, and returns the persisted pack.
func (h *StudyPackHandler) Generate(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		writeBodyError(w, r, err)
		return
	}

	in := services.GenerateInput{
		TextInput: r.FormValue("textInput"),
		Options: services.GenerateOptions{
			Difficulty:    r.FormValue("difficulty"),
			SummaryLength: r.FormValue("summaryLength"),
		},
	}

	fields := map[string]string{}
	in.Options.FlashcardCount = parseCount(r.FormValue("flashcardCount"), "flashcardCount", fields)
	in.Options.QuizCount = parseCount(r.FormValue("quizCount"), "quizCount", fields)
	if len(fields) > 0 {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed", fields, r))
		return
	}

	file, header, err := r.FormFile("file")
	switch {
	case err == nil:
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			writeBodyError(w, r, err)
			return
		}
		in.File = data
		in.FileName = header.Filename
		in.ContentType = header.Header.Get("Content-Type")
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
	default:
		writeBodyError(w, r, err)
		return
	}

	pack, err := h.packs.Generate(r.Context(), userID, in)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, pack)
}

// parseCount returns 0 (use default) for an empty value and records a field
// error for anything that is not a positive integer.
func parseCount(raw, field string, fields map[string]string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		fields[field] = "Must be a positive whole number"
		return 0
	}
	return n
}

func writeBodyError(w http.ResponseWriter, r *http.Request, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeJSON(w, http.StatusRequestEntityTooLarge, errorResp("FILE_TOO_LARGE", "Upload exceeds the maximum allowed size", r))
		return
	}
	writeJSON(w, http.StatusBadRequest, errorResp("INVALID_REQUEST", "Invalid form data", r))
}

func (h *StudyPackHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	packs, err := h.packs.ListPacks(r.Context(), userID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, packs)
}

func (h *StudyPackHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	pack, err := h.packs.GetPack(r.Context(), id, middleware.GetUserID(r.Context()))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pack)
}

func (h *StudyPackHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.packs.DeletePack(r.Context(), id, middleware.GetUserID(r.Context())); err != nil {
		handleServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ExportFlashcards streams the pack's flashcards as a download.
func (h *StudyPackHandler) ExportFlashcards(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	out, err := h.packs.ExportFlashcards(r.Context(), id, middleware.GetUserID(r.Context()), q.Get("format"), q.Get("color"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", out.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": out.FileName}))
	w.WriteHeader(http.StatusOK)
	w.Write(out.Body)
}
