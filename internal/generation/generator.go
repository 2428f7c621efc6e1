package generation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/flashnotes/internal/domain"
	"github.com/phrazzld/flashnotes/internal/platform/logger"
	"github.com/phrazzld/flashnotes/internal/redact"
)

// RemoteTimeout bounds a single remote summarization call.
const RemoteTimeout = 30 * time.Second

// Sources reported to an Observer for each generation.
const (
	// SourceLocal means no summarizer was configured.
	SourceLocal = "local"
	// SourceRemote means the pairs were extracted from a remote summary.
	SourceRemote = "remote"
	// SourceFallback means the summarizer failed and the original text was used.
	SourceFallback = "fallback"
)

// Summarizer condenses text before extraction. Implementations talk to an
// external service; this interface is the boundary between the application
// core and those services.
type Summarizer interface {
	// Summarize returns a summary of text or an error describing why none
	// could be produced.
	Summarize(ctx context.Context, text string) (string, error)
}

// SummarizerFunc adapts a function to the Summarizer interface.
type SummarizerFunc func(ctx context.Context, text string) (string, error)

// Summarize calls f.
func (f SummarizerFunc) Summarize(ctx context.Context, text string) (string, error) {
	return f(ctx, text)
}

// Observer receives the outcome of every generation. Implementations must be
// safe for concurrent use.
type Observer interface {
	ObserveGeneration(source string, pairs int)
	ObserveSummarization(err error, duration time.Duration)
}

// Generator produces flashcard pairs from notes, consulting an optional
// remote summarizer.
type Generator struct {
	summarizer Summarizer
	observer   Observer
	logger     *slog.Logger
	timeout    time.Duration
}

// Option customizes a Generator.
type Option func(*Generator)

// WithObserver reports every generation to o.
func WithObserver(o Observer) Option {
	return func(g *Generator) {
		g.observer = o
	}
}

// WithLogger sets the logger used when the request context carries none.
func WithLogger(l *slog.Logger) Option {
	return func(g *Generator) {
		if l != nil {
			g.logger = l
		}
	}
}

// NewGenerator returns a Generator. A nil summarizer disables the remote
// step entirely, which is the case when no API key is configured.
func NewGenerator(summarizer Summarizer, opts ...Option) *Generator {
	g := &Generator{
		summarizer: summarizer,
		logger:     slog.Default(),
		timeout:    RemoteTimeout,
	}
	for _, opt := range opts {
		opt(g)
	}
	g.logger = g.logger.With(slog.String("component", "generator"))
	return g
}

// RemoteEnabled reports whether a summarizer is configured.
func (g *Generator) RemoteEnabled() bool {
	return g.summarizer != nil
}

// Generate returns between 1 and MaxPairs pairs for text. It never fails:
// without a summarizer it extracts locally, and any failure of the
// summarizer falls back to local extraction on the original text.
func (g *Generator) Generate(ctx context.Context, text string) []domain.FlashcardPair {
	if g.summarizer == nil {
		pairs := ExtractLocal(text)
		g.observeGeneration(SourceLocal, len(pairs))
		return pairs
	}

	log := logger.FromContextOrDefault(ctx, g.logger)

	start := time.Now()
	summary, err := g.summarize(ctx, text)
	duration := time.Since(start)
	if g.observer != nil {
		g.observer.ObserveSummarization(err, duration)
	}

	if err != nil {
		log.Warn("remote summarization failed, using local extraction",
			slog.String("error", redact.Error(err)),
			slog.Int("text_length", len(text)),
			slog.Int64("duration_ms", duration.Milliseconds()))
		pairs := ExtractLocal(text)
		g.observeGeneration(SourceFallback, len(pairs))
		return pairs
	}

	log.Debug("remote summarization succeeded",
		slog.Int("text_length", len(text)),
		slog.Int("summary_length", len(summary)),
		slog.Int64("duration_ms", duration.Milliseconds()))
	pairs := ExtractLocal(summary)
	g.observeGeneration(SourceRemote, len(pairs))
	return pairs
}

// summarize makes one bounded call, converting a panic into an error.
func (g *Generator) summarize(ctx context.Context, text string) (summary string, err error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	defer func() {
		if p := recover(); p != nil {
			summary = ""
			err = fmt.Errorf("%w: %v", ErrSummarizerPanic, p)
		}
	}()

	return g.summarizer.Summarize(ctx, text)
}

func (g *Generator) observeGeneration(source string, pairs int) {
	if g.observer != nil {
		g.observer.ObserveGeneration(source, pairs)
	}
}

// Generate is the stateless form of Generator.Generate. A nil summarizer
// means local extraction only.
func Generate(ctx context.Context, text string, summarizer Summarizer) []domain.FlashcardPair {
	return NewGenerator(summarizer).Generate(ctx, text)
}
