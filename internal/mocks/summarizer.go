package mocks

import (
	"context"
	"sync"
)

// MockSummarizer implements generation.Summarizer for testing
type MockSummarizer struct {
	// SummarizeFn allows test cases to mock the Summarize behavior
	SummarizeFn func(ctx context.Context, text string) (string, error)

	// Default response values
	Summary string
	Err     error

	mu    sync.Mutex
	texts []string
}

// Summarize implements the generation.Summarizer interface
func (m *MockSummarizer) Summarize(ctx context.Context, text string) (string, error) {
	m.mu.Lock()
	m.texts = append(m.texts, text)
	m.mu.Unlock()

	if m.SummarizeFn != nil {
		return m.SummarizeFn(ctx, text)
	}
	return m.Summary, m.Err
}

// CallCount returns how many times Summarize was called.
func (m *MockSummarizer) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.texts)
}

// Texts returns the texts passed to Summarize, in call order.
func (m *MockSummarizer) Texts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.texts...)
}
