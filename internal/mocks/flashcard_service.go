package mocks

import (
	"context"

	"github.com/phrazzld/flashnotes/internal/domain"
)

// MockFlashcardService implements service.FlashcardService for testing
type MockFlashcardService struct {
	// Custom behavior functions
	GenerateFn   func(ctx context.Context, notes string) ([]domain.FlashcardPair, error)
	SaveFn       func(ctx context.Context, pairs []domain.FlashcardPair) ([]*domain.Flashcard, error)
	ListRecentFn func(ctx context.Context) ([]*domain.Flashcard, error)
	ListAllFn    func(ctx context.Context) ([]*domain.Flashcard, error)

	// Default return values
	Pairs        []domain.FlashcardPair
	Flashcards   []*domain.Flashcard
	DefaultError error
}

// Generate implements the FlashcardService.Generate method
func (m *MockFlashcardService) Generate(ctx context.Context, notes string) ([]domain.FlashcardPair, error) {
	if m.GenerateFn != nil {
		return m.GenerateFn(ctx, notes)
	}
	return m.Pairs, m.DefaultError
}

// Save implements the FlashcardService.Save method
func (m *MockFlashcardService) Save(ctx context.Context, pairs []domain.FlashcardPair) ([]*domain.Flashcard, error) {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, pairs)
	}
	return m.Flashcards, m.DefaultError
}

// ListRecent implements the FlashcardService.ListRecent method
func (m *MockFlashcardService) ListRecent(ctx context.Context) ([]*domain.Flashcard, error) {
	if m.ListRecentFn != nil {
		return m.ListRecentFn(ctx)
	}
	return m.Flashcards, m.DefaultError
}

// ListAll implements the FlashcardService.ListAll method
func (m *MockFlashcardService) ListAll(ctx context.Context) ([]*domain.Flashcard, error) {
	if m.ListAllFn != nil {
		return m.ListAllFn(ctx)
	}
	return m.Flashcards, m.DefaultError
}
