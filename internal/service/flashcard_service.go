package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"

	"github.com/phrazzld/flashnotes/internal/domain"
	"github.com/phrazzld/flashnotes/internal/platform/logger"
	"github.com/phrazzld/flashnotes/internal/store"
)

// RecentLimit is the number of flashcards shown on the list view.
const RecentLimit = 50

// FlashcardService defines the operations offered to the delivery layer.
type FlashcardService interface {
	// Generate turns notes into candidate pairs. Nothing is persisted.
	// Returns ErrEmptyNotes when the notes are empty after trimming.
	Generate(ctx context.Context, notes string) ([]domain.FlashcardPair, error)

	// Save trims each pair, silently drops pairs with an empty side and
	// persists the rest in a single transaction. The returned slice holds the
	// saved records in input order and is empty, never nil, when every pair
	// was dropped.
	Save(ctx context.Context, pairs []domain.FlashcardPair) ([]*domain.Flashcard, error)

	// ListRecent returns at most RecentLimit flashcards, newest first.
	ListRecent(ctx context.Context) ([]*domain.Flashcard, error)

	// ListAll returns every flashcard, newest first.
	ListAll(ctx context.Context) ([]*domain.Flashcard, error)
}

// FlashcardRepository defines the repository interface for the service layer
type FlashcardRepository interface {
	store.FlashcardStore

	// DB returns the underlying database connection
	DB() *sql.DB
}

// PairGenerator produces candidate pairs from notes. It never fails; remote
// problems are absorbed by falling back to local extraction.
type PairGenerator interface {
	Generate(ctx context.Context, text string) []domain.FlashcardPair
}

// SaveObserver receives the outcome of each successful save.
type SaveObserver interface {
	ObserveSave(saved, dropped int)
}

// FlashcardServiceOption configures optional collaborators.
type FlashcardServiceOption func(*flashcardServiceImpl)

// WithSaveObserver reports saved and dropped pair counts to o.
func WithSaveObserver(o SaveObserver) FlashcardServiceOption {
	return func(s *flashcardServiceImpl) {
		s.observer = o
	}
}

// flashcardServiceImpl implements the FlashcardService interface
type flashcardServiceImpl struct {
	generator PairGenerator
	repo      FlashcardRepository
	observer  SaveObserver
	logger    *slog.Logger
}

// NewFlashcardService creates a new FlashcardService.
// It returns an error if any of the required dependencies are nil.
func NewFlashcardService(
	generator PairGenerator,
	repo FlashcardRepository,
	logger *slog.Logger,
	opts ...FlashcardServiceOption,
) (FlashcardService, error) {
	if generator == nil {
		return nil, domain.NewValidationError("generator", "cannot be nil", domain.ErrValidation)
	}
	if repo == nil {
		return nil, domain.NewValidationError("repo", "cannot be nil", domain.ErrValidation)
	}

	if logger == nil {
		logger = slog.Default()
	}

	s := &flashcardServiceImpl{
		generator: generator,
		repo:      repo,
		logger:    logger.With(slog.String("component", "flashcard_service")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Generate implements FlashcardService.Generate
func (s *flashcardServiceImpl) Generate(ctx context.Context, notes string) ([]domain.FlashcardPair, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	trimmed := strings.TrimSpace(notes)
	if trimmed == "" {
		log.Debug("rejecting empty notes")
		return nil, ErrEmptyNotes
	}

	pairs := s.generator.Generate(ctx, trimmed)
	log.Debug("generated candidate pairs",
		slog.Int("notes_length", len(trimmed)),
		slog.Int("pair_count", len(pairs)))
	return pairs, nil
}

// Save implements FlashcardService.Save
func (s *flashcardServiceImpl) Save(
	ctx context.Context,
	pairs []domain.FlashcardPair,
) ([]*domain.Flashcard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	accepted := make([]domain.FlashcardPair, 0, len(pairs))
	for _, p := range pairs {
		p = p.Normalize()
		if p.Validate() != nil {
			continue
		}
		accepted = append(accepted, p)
	}
	dropped := len(pairs) - len(accepted)

	if len(accepted) == 0 {
		log.Debug("no valid pairs to save", slog.Int("dropped", dropped))
		s.observe(0, dropped)
		return []*domain.Flashcard{}, nil
	}

	var saved []*domain.Flashcard
	err := store.RunInTransaction(ctx, s.repo.DB(), func(ctx context.Context, tx *sql.Tx) error {
		var err error
		saved, err = s.repo.WithTx(tx).CreateMultiple(ctx, accepted)
		return err
	})
	if err != nil {
		log.Error("failed to save flashcards",
			slog.String("error", err.Error()),
			slog.Int("pair_count", len(accepted)))
		if errors.Is(err, store.ErrInvalidEntity) {
			return nil, NewFlashcardServiceError("save", "invalid flashcard", err)
		}
		return nil, NewFlashcardServiceError("save", "failed to save flashcards", err)
	}

	log.Info("saved flashcards",
		slog.Int("saved", len(saved)),
		slog.Int("dropped", dropped))
	s.observe(len(saved), dropped)
	return saved, nil
}

// ListRecent implements FlashcardService.ListRecent
func (s *flashcardServiceImpl) ListRecent(ctx context.Context) ([]*domain.Flashcard, error) {
	return s.list(ctx, "list_recent", RecentLimit)
}

// ListAll implements FlashcardService.ListAll
func (s *flashcardServiceImpl) ListAll(ctx context.Context) ([]*domain.Flashcard, error) {
	return s.list(ctx, "list_all", 0)
}

func (s *flashcardServiceImpl) list(ctx context.Context, op string, limit int) ([]*domain.Flashcard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	cards, err := s.repo.ListRecent(ctx, limit)
	if err != nil {
		log.Error("failed to list flashcards",
			slog.String("error", err.Error()),
			slog.Int("limit", limit))
		return nil, NewFlashcardServiceError(op, "failed to list flashcards", err)
	}
	if cards == nil {
		cards = []*domain.Flashcard{}
	}
	return cards, nil
}

func (s *flashcardServiceImpl) observe(saved, dropped int) {
	if s.observer != nil {
		s.observer.ObserveSave(saved, dropped)
	}
}
