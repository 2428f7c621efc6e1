package mocks

import (
	"context"
	"database/sql"

	"github.com/phrazzld/flashnotes/internal/domain"
	"github.com/phrazzld/flashnotes/internal/store"
)

// MockFlashcardStore implements store.FlashcardStore for testing.
// WithTx returns the mock itself unless WithTxFn is set.
type MockFlashcardStore struct {
	CreateMultipleFn func(ctx context.Context, pairs []domain.FlashcardPair) ([]*domain.Flashcard, error)
	ListRecentFn     func(ctx context.Context, limit int) ([]*domain.Flashcard, error)
	WithTxFn         func(tx *sql.Tx) store.FlashcardStore

	// Default return values
	Flashcards   []*domain.Flashcard
	DefaultError error

	// CreateMultipleCalls records the pairs of every CreateMultiple call.
	CreateMultipleCalls [][]domain.FlashcardPair
}

// CreateMultiple implements the FlashcardStore.CreateMultiple method
func (m *MockFlashcardStore) CreateMultiple(
	ctx context.Context,
	pairs []domain.FlashcardPair,
) ([]*domain.Flashcard, error) {
	m.CreateMultipleCalls = append(m.CreateMultipleCalls, pairs)
	if m.CreateMultipleFn != nil {
		return m.CreateMultipleFn(ctx, pairs)
	}
	return m.Flashcards, m.DefaultError
}

// ListRecent implements the FlashcardStore.ListRecent method
func (m *MockFlashcardStore) ListRecent(ctx context.Context, limit int) ([]*domain.Flashcard, error) {
	if m.ListRecentFn != nil {
		return m.ListRecentFn(ctx, limit)
	}
	return m.Flashcards, m.DefaultError
}

// WithTx implements the FlashcardStore.WithTx method
func (m *MockFlashcardStore) WithTx(tx *sql.Tx) store.FlashcardStore {
	if m.WithTxFn != nil {
		return m.WithTxFn(tx)
	}
	return m
}

var _ store.FlashcardStore = (*MockFlashcardStore)(nil)
