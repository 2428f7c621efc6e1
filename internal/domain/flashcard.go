package domain

import (
	"strings"
	"time"
)

// FlashcardPair is a candidate question/answer unit. It is produced by
// generation and edited by the client; nothing is stored until the client
// explicitly accepts it.
type FlashcardPair struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// NewFlashcardPair returns a pair with both sides trimmed of surrounding
// whitespace.
func NewFlashcardPair(question, answer string) FlashcardPair {
	return FlashcardPair{
		Question: strings.TrimSpace(question),
		Answer:   strings.TrimSpace(answer),
	}
}

// Normalize returns a copy of the pair with both sides trimmed.
func (p FlashcardPair) Normalize() FlashcardPair {
	return NewFlashcardPair(p.Question, p.Answer)
}

// Validate reports whether the pair may be persisted. Whitespace-only
// sides count as empty.
func (p FlashcardPair) Validate() error {
	if strings.TrimSpace(p.Question) == "" {
		return NewValidationError("question", "is required", ErrEmptyQuestion)
	}
	if strings.TrimSpace(p.Answer) == "" {
		return NewValidationError("answer", "is required", ErrEmptyAnswer)
	}
	return nil
}

// Flashcard is an accepted pair persisted by the store. ID and CreatedAt
// are assigned by the store exactly once, at insertion.
type Flashcard struct {
	ID        int64     `json:"id"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	CreatedAt time.Time `json:"created_at"`
}

// Pair returns the question/answer content of the flashcard.
func (f *Flashcard) Pair() FlashcardPair {
	return FlashcardPair{Question: f.Question, Answer: f.Answer}
}
