package service

import (
	"database/sql"

	"github.com/phrazzld/flashnotes/internal/store"
)

// FlashcardRepositoryAdapter pairs a store.FlashcardStore with the database
// handle its transactions are started on.
type FlashcardRepositoryAdapter struct {
	store.FlashcardStore
	db *sql.DB
}

// NewFlashcardRepositoryAdapter creates an adapter that implements
// FlashcardRepository by delegating to flashcards.
func NewFlashcardRepositoryAdapter(flashcards store.FlashcardStore, db *sql.DB) *FlashcardRepositoryAdapter {
	return &FlashcardRepositoryAdapter{
		FlashcardStore: flashcards,
		db:             db,
	}
}

// DB returns the underlying database connection.
func (a *FlashcardRepositoryAdapter) DB() *sql.DB {
	return a.db
}

var _ FlashcardRepository = (*FlashcardRepositoryAdapter)(nil)
