package api

import (
	"errors"
	"net/http"

	"github.com/phrazzld/flashnotes/internal/service"
	"github.com/phrazzld/flashnotes/internal/store"
)

// Client-facing error messages.
const (
	MsgNoNotes        = "No notes provided"
	MsgInvalidRequest = "Invalid request format"
	MsgInvalidEntity  = "Invalid flashcard data"
	MsgUnexpected     = "An unexpected error occurred"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, service.ErrEmptyNotes),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type.
func GetSafeErrorMessage(err error) string {
	switch {
	case err == nil:
		return MsgUnexpected

	case errors.Is(err, service.ErrEmptyNotes):
		return MsgNoNotes

	case errors.Is(err, store.ErrInvalidEntity):
		return MsgInvalidEntity

	case errors.Is(err, store.ErrNotFound):
		return "Flashcard not found"

	default:
		return MsgUnexpected
	}
}
