package generation

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/phrazzld/flashnotes/internal/domain"
)

// Limits of the local extractor. Lengths are counted in characters (Unicode
// code points), not bytes.
const (
	// MinSegmentLength is the shortest segment turned into a pair.
	MinSegmentLength = 20

	// MaxPairs caps the number of pairs produced from one text.
	MaxPairs = 12

	// ExplainPrefixLength is how much of a segment an "Explain:" question quotes.
	ExplainPrefixLength = 60

	// FallbackAnswerLength is how much of the input the fallback answer carries.
	FallbackAnswerLength = 300

	// FallbackQuestion is asked when no segment qualifies.
	FallbackQuestion = "What is this note about?"
)

// segmentDelimiters matches any run of newlines, periods and question marks.
var segmentDelimiters = regexp.MustCompile(`[\n.?]+`)

// ExtractLocal derives between 1 and MaxPairs question/answer pairs from
// text without any network access. It is pure and total: every input,
// including the empty string, yields at least the fallback pair.
func ExtractLocal(text string) []domain.FlashcardPair {
	segments := segmentDelimiters.Split(strings.TrimSpace(text), -1)

	pairs := make([]domain.FlashcardPair, 0, MaxPairs)
	for _, segment := range segments {
		segment = strings.TrimSpace(segment)
		if utf8.RuneCountInString(segment) < MinSegmentLength {
			continue
		}

		pairs = append(pairs, pairFromSegment(segment))
		if len(pairs) >= MaxPairs {
			break
		}
	}

	if len(pairs) == 0 {
		return []domain.FlashcardPair{{
			Question: FallbackQuestion,
			Answer:   truncateRunes(text, FallbackAnswerLength),
		}}
	}

	return pairs
}

// pairFromSegment phrases a single trimmed segment as a question.
func pairFromSegment(segment string) domain.FlashcardPair {
	if i := indexIs(segment); i >= 0 {
		subject := strings.TrimSpace(segment[:i])
		predicate := strings.TrimSpace(segment[i+len(" is "):])
		return domain.FlashcardPair{
			Question: "What is " + subject + "?",
			Answer:   predicate,
		}
	}

	return domain.FlashcardPair{
		Question: "Explain: " + truncateRunes(segment, ExplainPrefixLength) + "...",
		Answer:   segment,
	}
}

// indexIs returns the byte offset of the first " is " in s, matching the
// word case-insensitively, or -1.
func indexIs(s string) int {
	for i := 0; i+4 <= len(s); i++ {
		if s[i] != ' ' || s[i+3] != ' ' {
			continue
		}
		if (s[i+1] == 'i' || s[i+1] == 'I') && (s[i+2] == 's' || s[i+2] == 'S') {
			return i
		}
	}
	return -1
}

// truncateRunes returns the first n characters of s.
func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}
