package generation

import "errors"

// Common errors returned by summarizers. The Generator absorbs all of them;
// they exist so that logs and metrics can tell failure modes apart.
var (
	// ErrSummarizationFailed is returned when the remote call fails for any general reason.
	ErrSummarizationFailed = errors.New("failed to summarize text")

	// ErrInvalidResponse is returned when the remote response cannot be parsed or is malformed.
	ErrInvalidResponse = errors.New("invalid response from summarization service")

	// ErrRateLimited is returned when a call is rejected by the local rate limiter.
	ErrRateLimited = errors.New("summarization rate limit exceeded")

	// ErrInvalidConfig is returned when the summarizer configuration is invalid.
	ErrInvalidConfig = errors.New("invalid summarizer configuration")

	// ErrSummarizerPanic is returned when a summarizer panics during a call.
	ErrSummarizerPanic = errors.New("summarizer panicked")
)
