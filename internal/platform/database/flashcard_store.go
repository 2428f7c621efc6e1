package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/phrazzld/flashnotes/internal/domain"
	"github.com/phrazzld/flashnotes/internal/platform/logger"
	"github.com/phrazzld/flashnotes/internal/store"
)

const (
	insertFlashcardQuery = `
		INSERT INTO flashcards (question, answer, created_at)
		VALUES (?, ?, ?)
		RETURNING id
	`

	listFlashcardsQuery = `
		SELECT id, question, answer, created_at
		FROM flashcards
		ORDER BY created_at DESC, id DESC
	`
)

// FlashcardStore implements store.FlashcardStore on SQLite or PostgreSQL.
type FlashcardStore struct {
	db      store.DBTX
	dialect Dialect
	logger  *slog.Logger
	now     func() time.Time
}

// Ensure FlashcardStore implements store.FlashcardStore interface
var _ store.FlashcardStore = (*FlashcardStore)(nil)

// StoreOption customizes a FlashcardStore.
type StoreOption func(*FlashcardStore)

// WithClock replaces the clock used to stamp new records.
func WithClock(now func() time.Time) StoreOption {
	return func(s *FlashcardStore) {
		if now != nil {
			s.now = now
		}
	}
}

// NewFlashcardStore creates a FlashcardStore that issues statements in
// dialect through db, which may be a pool or a transaction.
// If logger is nil, a default logger will be used.
func NewFlashcardStore(db store.DBTX, dialect Dialect, logger *slog.Logger, opts ...StoreOption) *FlashcardStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &FlashcardStore{
		db:      db,
		dialect: dialect,
		logger:  logger.With(slog.String("component", "flashcard_store")),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WithTx implements store.FlashcardStore.WithTx.
func (s *FlashcardStore) WithTx(tx *sql.Tx) store.FlashcardStore {
	return &FlashcardStore{
		db:      tx,
		dialect: s.dialect,
		logger:  s.logger,
		now:     s.now,
	}
}

// CreateMultiple implements store.FlashcardStore.CreateMultiple.
// All records of one call share the same creation timestamp.
func (s *FlashcardStore) CreateMultiple(
	ctx context.Context,
	pairs []domain.FlashcardPair,
) ([]*domain.Flashcard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(pairs) == 0 {
		return []*domain.Flashcard{}, nil
	}

	for i, pair := range pairs {
		if err := pair.Validate(); err != nil {
			log.WarnContext(ctx, "flashcard validation failed during create",
				slog.Int("index", i),
				slog.String("error", err.Error()))
			return nil, fmt.Errorf("%w: pair %d: %w", store.ErrInvalidEntity, i, err)
		}
	}

	stmt, err := s.db.PrepareContext(ctx, s.rebind(insertFlashcardQuery))
	if err != nil {
		log.ErrorContext(ctx, "failed to prepare flashcard insert",
			slog.String("error", err.Error()))
		return nil, store.NewStoreError("flashcard", "create", "failed to prepare insert", MapError(err))
	}
	defer func() {
		_ = stmt.Close()
	}()

	createdAt := s.now().UTC().Truncate(time.Microsecond)
	cards := make([]*domain.Flashcard, 0, len(pairs))
	for i, pair := range pairs {
		var id int64
		if err := stmt.QueryRowContext(ctx, pair.Question, pair.Answer, createdAt).Scan(&id); err != nil {
			log.ErrorContext(ctx, "failed to insert flashcard",
				slog.Int("index", i),
				slog.String("error", err.Error()))
			return nil, store.NewStoreError("flashcard", "create", "failed to insert flashcard", MapError(err))
		}

		cards = append(cards, &domain.Flashcard{
			ID:        id,
			Question:  pair.Question,
			Answer:    pair.Answer,
			CreatedAt: createdAt,
		})
	}

	log.DebugContext(ctx, "flashcards created", slog.Int("count", len(cards)))
	return cards, nil
}

// ListRecent implements store.FlashcardStore.ListRecent.
func (s *FlashcardStore) ListRecent(ctx context.Context, limit int) ([]*domain.Flashcard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := listFlashcardsQuery
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		log.ErrorContext(ctx, "failed to query flashcards",
			slog.String("error", err.Error()))
		return nil, store.NewStoreError("flashcard", "list", "failed to query flashcards", MapError(err))
	}
	defer func() {
		_ = rows.Close()
	}()

	cards := make([]*domain.Flashcard, 0)
	for rows.Next() {
		var card domain.Flashcard
		if err := rows.Scan(&card.ID, &card.Question, &card.Answer, &card.CreatedAt); err != nil {
			log.ErrorContext(ctx, "failed to scan flashcard row",
				slog.String("error", err.Error()))
			return nil, store.NewStoreError("flashcard", "list", "failed to scan flashcard", MapError(err))
		}
		card.CreatedAt = card.CreatedAt.UTC()
		cards = append(cards, &card)
	}
	if err := rows.Err(); err != nil {
		log.ErrorContext(ctx, "error iterating flashcard rows",
			slog.String("error", err.Error()))
		return nil, store.NewStoreError("flashcard", "list", "failed to read flashcards", MapError(err))
	}

	log.DebugContext(ctx, "flashcards listed",
		slog.Int("limit", limit),
		slog.Int("count", len(cards)))
	return cards, nil
}

// rebind rewrites ? placeholders into the $n form PostgreSQL expects.
// Queries must not contain literal question marks.
func (s *FlashcardStore) rebind(query string) string {
	if s.dialect != DialectPostgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
