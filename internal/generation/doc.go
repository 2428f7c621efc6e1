// Package generation turns free-text notes into candidate flashcard pairs.
//
// The local extractor (ExtractLocal) is a pure, total heuristic that splits
// notes into sentence-like segments and phrases each qualifying segment as a
// question. A Generator optionally runs the notes through a remote Summarizer
// first; any failure of that enrichment step degrades to the local extractor
// on the original text, so generation itself never fails.
//
// Remote providers live under internal/platform (huggingface, gemini) and
// implement the Summarizer interface defined here.
package generation
