package models

import (
	"github.com/google/uuid"
)

// WebSocket message types
type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

const (
	EventStatusUpdate = "status_update"
	EventCompleted    = "completed"
	EventError        = "error"
)

type StatusUpdate struct {
	Step     int    `json:"step"`
	StepName string `json:"step_name"`
	FileName string `json:"file_name"`
}

type CompletedEvent struct {
	StudyPackID uuid.UUID `json:"study_pack_id"`
	Title       string    `json:"title"`
}

type ErrorEvent struct {
	ErrorCode    string `json:"error_code"`
	ErrorMessage string `json:"error_message"`
}

// UpdatesChannel is the Redis pub/sub channel carrying a user's pack events.
func UpdatesChannel(userID uuid.UUID) string {
	return "pack_updates:" + userID.String()
}

// API Error response
type APIError struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id"`
}

type ErrorResponse struct {
	Error APIError `json:"error"`
}
