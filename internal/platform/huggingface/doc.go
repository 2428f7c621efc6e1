// Package huggingface implements generation.Summarizer on top of the Hugging
// Face hosted inference API.
//
// The summarizer posts the raw notes to a summarization model (by default
// facebook/bart-large-cnn) and returns the summary_text of the first result.
// Every failure is reported as an error wrapping one of the generation
// sentinel errors; the caller decides whether to fall back to local
// extraction.
package huggingface
