package generation

import (
	"context"

	"golang.org/x/time/rate"
)

// ThrottledSummarizer rejects calls that exceed a rate budget instead of
// waiting for capacity. A rejected call surfaces as ErrRateLimited, which
// the Generator treats like any other summarizer failure.
type ThrottledSummarizer struct {
	inner   Summarizer
	limiter *rate.Limiter
}

// NewThrottledSummarizer wraps inner with limiter. A nil limiter disables
// throttling and returns inner unchanged.
func NewThrottledSummarizer(inner Summarizer, limiter *rate.Limiter) Summarizer {
	if limiter == nil {
		return inner
	}
	return &ThrottledSummarizer{inner: inner, limiter: limiter}
}

// NewLimiter builds a limiter from a per-second rate and burst. A rate of
// zero or less means unlimited and yields nil.
func NewLimiter(perSecond float64, burst int) *rate.Limiter {
	if perSecond <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(perSecond), burst)
}

// Summarize implements Summarizer.
func (s *ThrottledSummarizer) Summarize(ctx context.Context, text string) (string, error) {
	if !s.limiter.Allow() {
		return "", ErrRateLimited
	}
	return s.inner.Summarize(ctx, text)
}
