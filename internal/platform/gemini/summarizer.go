package gemini

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"text/template"

	"github.com/phrazzld/flashnotes/internal/config"
	"github.com/phrazzld/flashnotes/internal/generation"
	"google.golang.org/genai"
)

//go:embed prompts/summarize.tmpl
var promptFS embed.FS

// promptData is the input of the prompt template.
type promptData struct {
	Notes string
}

// contentGenerator is the subset of *genai.Models used by Summarizer.
type contentGenerator interface {
	GenerateContent(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}

// Summarizer asks a Gemini model to condense notes.
type Summarizer struct {
	models         contentGenerator
	model          string
	promptTemplate *template.Template
	logger         *slog.Logger
}

// options collects the values set by Option.
type options struct {
	httpClient *http.Client
	baseURL    string
}

// Option customizes the underlying genai client.
type Option func(*options)

// WithHTTPClient sets the HTTP client used by the genai client.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

// WithBaseURL points the genai client at a different API host.
func WithBaseURL(baseURL string) Option {
	return func(o *options) {
		o.baseURL = baseURL
	}
}

// NewSummarizer creates a Summarizer backed by the Gemini API.
//
// It fails with generation.ErrInvalidConfig when the API key or model name
// is missing, or when the genai client cannot be created.
func NewSummarizer(
	ctx context.Context,
	cfg config.SummarizerConfig,
	logger *slog.Logger,
	opts ...Option,
) (*Summarizer, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if strings.TrimSpace(cfg.GeminiAPIKey) == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}
	if strings.TrimSpace(cfg.GeminiModel) == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	httpClient := o.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: generation.RemoteTimeout}
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      cfg.GeminiAPIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  httpClient,
		HTTPOptions: genai.HTTPOptions{BaseURL: o.baseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v", generation.ErrInvalidConfig, err)
	}

	return newSummarizer(client.Models, cfg.GeminiModel, logger)
}

// newSummarizer wires a Summarizer around any contentGenerator.
func newSummarizer(models contentGenerator, model string, logger *slog.Logger) (*Summarizer, error) {
	tmpl, err := template.ParseFS(promptFS, "prompts/summarize.tmpl")
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse prompt template: %v", generation.ErrInvalidConfig, err)
	}

	return &Summarizer{
		models:         models,
		model:          model,
		promptTemplate: tmpl,
		logger:         logger.With(slog.String("component", "gemini_summarizer")),
	}, nil
}

// createPrompt renders the prompt template for notes.
func (s *Summarizer) createPrompt(notes string) (string, error) {
	var buf bytes.Buffer
	if err := s.promptTemplate.Execute(&buf, promptData{Notes: notes}); err != nil {
		return "", fmt.Errorf("failed to execute prompt template: %w", err)
	}
	return buf.String(), nil
}

// Summarize implements generation.Summarizer.
func (s *Summarizer) Summarize(ctx context.Context, text string) (string, error) {
	prompt, err := s.createPrompt(text)
	if err != nil {
		return "", fmt.Errorf("%w: %v", generation.ErrSummarizationFailed, err)
	}

	s.logger.DebugContext(ctx, "calling Gemini API",
		slog.String("model", s.model),
		slog.Int("prompt_length", len(prompt)))

	resp, err := s.models.GenerateContent(ctx, s.model,
		[]*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}, nil)
	if err != nil {
		return "", fmt.Errorf("%w: gemini request failed: %w", generation.ErrSummarizationFailed, err)
	}

	return summaryFromResponse(resp)
}

// summaryFromResponse validates resp and returns its text.
func summaryFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", fmt.Errorf("%w: nil response", generation.ErrInvalidResponse)
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("%w: prompt blocked: %s",
			generation.ErrInvalidResponse, resp.PromptFeedback.BlockReason)
	}
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: no candidates in response", generation.ErrInvalidResponse)
	}
	if resp.Candidates[0].FinishReason == genai.FinishReasonSafety {
		return "", fmt.Errorf("%w: content blocked by safety filters", generation.ErrInvalidResponse)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("%w: empty content in response", generation.ErrInvalidResponse)
	}
	return text, nil
}
