package service

import (
	"errors"
	"fmt"
)

// Service errors that callers may check for with errors.Is.
var (
	// ErrEmptyNotes indicates the submitted notes were empty or whitespace only.
	// API layer should map this to HTTP 400 Bad Request.
	ErrEmptyNotes = errors.New("no notes provided")
)

// FlashcardServiceError is a custom error type for flashcard service errors.
type FlashcardServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for FlashcardServiceError.
func (e *FlashcardServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("flashcard service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("flashcard service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *FlashcardServiceError) Unwrap() error {
	return e.Err
}

// NewFlashcardServiceError creates a new FlashcardServiceError.
func NewFlashcardServiceError(operation, message string, err error) *FlashcardServiceError {
	return &FlashcardServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
