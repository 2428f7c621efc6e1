package store

import (
	"context"
	"database/sql"

	"github.com/phrazzld/flashnotes/internal/domain"
)

// FlashcardStore defines the interface for flashcard persistence.
type FlashcardStore interface {
	// CreateMultiple inserts one record per pair and returns the stored
	// records in input order, with ids and creation timestamps assigned.
	// Pairs must already be trimmed and non-empty; an invalid pair yields
	// ErrInvalidEntity and nothing is stored when run inside a transaction.
	//
	// Usage example:
	//   err := store.RunInTransaction(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
	//       saved, err = flashcards.WithTx(tx).CreateMultiple(ctx, pairs)
	//       return err
	//   })
	CreateMultiple(ctx context.Context, pairs []domain.FlashcardPair) ([]*domain.Flashcard, error)

	// ListRecent returns at most limit records, newest first. A limit of zero
	// or less returns every record.
	ListRecent(ctx context.Context, limit int) ([]*domain.Flashcard, error)

	// WithTx returns a FlashcardStore that runs its statements in tx.
	WithTx(tx *sql.Tx) FlashcardStore
}
