// Package gemini implements generation.Summarizer with Google's Gemini models.
//
// It is the alternative to the Hugging Face provider. The notes are rendered
// into an embedded prompt template and sent through the google.golang.org/genai
// client; the model is asked for short declarative sentences so that local
// extraction can turn them into question/answer pairs.
//
// The summarizer makes exactly one call per request. Timeouts, retries and
// fallbacks are the caller's concern.
package gemini
