package huggingface

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/phrazzld/flashnotes/internal/config"
	"github.com/phrazzld/flashnotes/internal/generation"
)

// maxErrorBodyBytes limits how much of an error response is kept for logs.
const maxErrorBodyBytes = 512

// request is the payload accepted by the inference endpoint.
type request struct {
	Inputs string `json:"inputs"`
}

// result is one element of the inference response array.
type result struct {
	SummaryText *string `json:"summary_text"`
}

// Summarizer calls a Hugging Face summarization model.
type Summarizer struct {
	apiKey   string
	endpoint string
	client   *http.Client
	logger   *slog.Logger
}

// Option customizes a Summarizer.
type Option func(*Summarizer)

// WithHTTPClient replaces the default client, which times out after
// generation.RemoteTimeout.
func WithHTTPClient(client *http.Client) Option {
	return func(s *Summarizer) {
		if client != nil {
			s.client = client
		}
	}
}

// WithEndpoint overrides the model URL taken from the configuration.
func WithEndpoint(endpoint string) Option {
	return func(s *Summarizer) {
		if endpoint != "" {
			s.endpoint = endpoint
		}
	}
}

// NewSummarizer validates cfg and returns a ready Summarizer.
func NewSummarizer(cfg config.SummarizerConfig, logger *slog.Logger, opts ...Option) (*Summarizer, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if strings.TrimSpace(cfg.HuggingFaceAPIKey) == "" {
		return nil, fmt.Errorf("%w: hugging face API key cannot be empty", generation.ErrInvalidConfig)
	}

	endpoint := cfg.HuggingFaceURL
	if endpoint == "" {
		endpoint = config.DefaultHuggingFaceURL
	}

	s := &Summarizer{
		apiKey:   cfg.HuggingFaceAPIKey,
		endpoint: endpoint,
		client:   &http.Client{Timeout: generation.RemoteTimeout},
		logger:   logger.With(slog.String("component", "huggingface_summarizer")),
	}
	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// Summarize implements generation.Summarizer.
func (s *Summarizer) Summarize(ctx context.Context, text string) (string, error) {
	payload, err := json.Marshal(request{Inputs: text})
	if err != nil {
		return "", fmt.Errorf("%w: failed to encode request: %v", generation.ErrSummarizationFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("%w: failed to build request: %v", generation.ErrSummarizationFailed, err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	s.logger.DebugContext(ctx, "calling summarization endpoint",
		slog.Int("text_length", len(text)))

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: request failed: %w", generation.ErrSummarizationFailed, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		s.logger.DebugContext(ctx, "summarization endpoint returned an error",
			slog.Int("status", resp.StatusCode),
			slog.String("body", string(body)))
		return "", fmt.Errorf("%w: unexpected status %d", generation.ErrSummarizationFailed, resp.StatusCode)
	}

	return decodeSummary(resp.Body)
}

// decodeSummary extracts summary_text from the first element of the
// response array.
func decodeSummary(r io.Reader) (string, error) {
	var results []result
	if err := json.NewDecoder(r).Decode(&results); err != nil {
		return "", fmt.Errorf("%w: failed to decode response: %v", generation.ErrInvalidResponse, err)
	}
	if len(results) == 0 {
		return "", fmt.Errorf("%w: empty result list", generation.ErrInvalidResponse)
	}
	if results[0].SummaryText == nil {
		return "", fmt.Errorf("%w: missing summary_text", generation.ErrInvalidResponse)
	}
	return *results[0].SummaryText, nil
}
