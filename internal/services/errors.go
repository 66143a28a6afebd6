package services

import (
	"errors"
	"fmt"
)

// Error kinds. Match with errors.Is.
var (
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrParseFailure      = errors.New("parse failure")
	ErrEmptyContent      = errors.New("empty content")
	ErrNoContent         = errors.New("no content provided")
	ErrContentTooShort   = errors.New("content too short")
	ErrProvider          = errors.New("provider error")
	ErrInvalidAIResponse = errors.New("invalid AI response")
	ErrStorage           = errors.New("storage error")
	ErrNotFound          = errors.New("not found")
	ErrUnauthorized      = errors.New("unauthorized")
)

// Error pairs a kind with a message that is safe to show to clients.
// Err holds the underlying cause for server-side logs.
type Error struct {
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newError(kind error, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Err: cause}
}

// ClientMessage returns the client-safe message carried by err, or fallback.
func ClientMessage(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return fallback
}

// ValidationError reports per-field request problems.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string { return "Validation error" }

// ErrorCode returns the stable code clients see for err.
func ErrorCode(err error) string {
	var ve *ValidationError
	switch {
	case errors.As(err, &ve):
		return "VALIDATION_ERROR"
	case errors.Is(err, ErrUnsupportedFormat):
		return "UNSUPPORTED_FORMAT"
	case errors.Is(err, ErrParseFailure):
		return "PARSE_FAILURE"
	case errors.Is(err, ErrEmptyContent):
		return "EMPTY_CONTENT"
	case errors.Is(err, ErrNoContent):
		return "NO_CONTENT"
	case errors.Is(err, ErrContentTooShort):
		return "CONTENT_TOO_SHORT"
	case errors.Is(err, ErrNotFound):
		return "NOT_FOUND"
	case errors.Is(err, ErrUnauthorized):
		return "UNAUTHORIZED"
	case errors.Is(err, ErrProvider):
		return "PROVIDER_ERROR"
	case errors.Is(err, ErrInvalidAIResponse):
		return "INVALID_AI_RESPONSE"
	case errors.Is(err, ErrStorage):
		return "STORAGE_ERROR"
	default:
		return "INTERNAL_ERROR"
	}
}
