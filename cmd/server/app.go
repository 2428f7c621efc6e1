package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/flashnotes/internal/config"
	"github.com/phrazzld/flashnotes/internal/generation"
	"github.com/phrazzld/flashnotes/internal/platform/database"
	"github.com/phrazzld/flashnotes/internal/platform/gemini"
	"github.com/phrazzld/flashnotes/internal/platform/huggingface"
	"github.com/phrazzld/flashnotes/internal/platform/metrics"
	rediscache "github.com/phrazzld/flashnotes/internal/platform/redis"
	"github.com/phrazzld/flashnotes/internal/service"
	"github.com/phrazzld/flashnotes/internal/web"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	db      *database.DB
	metrics *metrics.Metrics
	pages   *web.Pages

	generator        *generation.Generator
	flashcardService service.FlashcardService

	closers []func()
}

// newApplication opens the database, migrates it to the latest schema and
// wires every component. The caller must call cleanup.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{
		config:  cfg,
		logger:  logger,
		metrics: metrics.New(),
	}

	summarizer, closeSummarizer, err := newSummarizer(ctx, cfg, logger, app.metrics)
	if err != nil {
		return nil, err
	}
	app.closers = append(app.closers, closeSummarizer)

	app.generator = generation.NewGenerator(summarizer,
		generation.WithObserver(app.metrics),
		generation.WithLogger(logger))

	app.db, err = database.Open(ctx, cfg.Database.URL, logger)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	app.closers = append(app.closers, func() {
		if err := app.db.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	})

	version, err := database.Migrate(ctx, app.db, database.CommandUp, logger)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	logger.Info("database ready",
		slog.String("dialect", string(app.db.Dialect())),
		slog.Int64("schema_version", version))

	flashcards := database.NewFlashcardStore(app.db.DB, app.db.Dialect(), logger)
	app.flashcardService, err = service.NewFlashcardService(
		app.generator,
		service.NewFlashcardRepositoryAdapter(flashcards, app.db.DB),
		logger,
		service.WithSaveObserver(app.metrics),
	)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to create flashcard service: %w", err)
	}

	app.pages, err = web.NewPages()
	if err != nil {
		app.cleanup()
		return nil, err
	}

	return app, nil
}

// cleanup releases resources in reverse order of acquisition.
func (app *application) cleanup() {
	for i := len(app.closers) - 1; i >= 0; i-- {
		app.closers[i]()
	}
	app.closers = nil
}

// newSummarizer builds the configured remote summarizer, throttled and
// cached as configured. It returns a nil Summarizer when no API key is set,
// which makes generation purely local. observer may be nil. The returned
// function releases the cache connection.
func newSummarizer(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	observer *metrics.Metrics,
) (generation.Summarizer, func(), error) {
	noop := func() {}

	if !cfg.Summarizer.Enabled() {
		logger.Info("remote summarization disabled, generating locally",
			slog.String("provider", cfg.Summarizer.Provider))
		return nil, noop, nil
	}

	var (
		summarizer generation.Summarizer
		err        error
	)
	switch cfg.Summarizer.Provider {
	case config.ProviderGemini:
		summarizer, err = gemini.NewSummarizer(ctx, cfg.Summarizer, logger)
	default:
		summarizer, err = huggingface.NewSummarizer(cfg.Summarizer, logger)
	}
	if err != nil {
		return nil, noop, fmt.Errorf("failed to create %s summarizer: %w", cfg.Summarizer.Provider, err)
	}

	summarizer = generation.NewThrottledSummarizer(summarizer,
		generation.NewLimiter(cfg.Summarizer.RatePerSecond, cfg.Summarizer.RateBurst))

	client, err := rediscache.NewClient(ctx, cfg.Cache)
	if err != nil {
		logger.Warn("summary cache unavailable, continuing without it",
			slog.String("error", err.Error()))
	}

	closer := noop
	if client != nil {
		var cacheObserver rediscache.CacheObserver
		if observer != nil {
			cacheObserver = observer
		}
		ttl := time.Duration(cfg.Cache.TTLMinutes) * time.Minute
		summarizer = rediscache.NewCachedSummarizer(summarizer, client, ttl, cacheObserver, logger)
		closer = func() {
			if err := client.Close(); err != nil {
				logger.Error("failed to close redis client", "error", err)
			}
		}
	}

	logger.Info("remote summarization enabled",
		slog.String("provider", cfg.Summarizer.Provider),
		slog.Bool("cache", client != nil),
		slog.Float64("rate_per_second", cfg.Summarizer.RatePerSecond))
	return summarizer, closer, nil
}
