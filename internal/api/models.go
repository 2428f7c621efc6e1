package api

import (
	"time"

	"github.com/phrazzld/flashnotes/internal/domain"
)

// PairDTO is a question/answer pair as exchanged with the client.
type PairDTO struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// GenerateRequest is the body of POST /generate.
type GenerateRequest struct {
	Notes string `json:"notes"`
}

// GenerateResponse is the successful response of POST /generate.
type GenerateResponse struct {
	QA []PairDTO `json:"qa"`
}

// SaveRequest is the body of POST /save. A missing or null qa list saves
// nothing.
type SaveRequest struct {
	QA []PairDTO `json:"qa"`
}

// FlashcardResponse is a persisted flashcard. CreatedAt is serialized in
// RFC 3339 format, in UTC.
type FlashcardResponse struct {
	ID        int64     `json:"id"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	CreatedAt time.Time `json:"created_at"`
}

// SaveResponse is the successful response of POST /save.
type SaveResponse struct {
	Saved []FlashcardResponse `json:"saved"`
}

// CardsResponse is the response of GET /api/cards.
type CardsResponse struct {
	Cards []FlashcardResponse `json:"cards"`
}

func pairsToDTO(pairs []domain.FlashcardPair) []PairDTO {
	out := make([]PairDTO, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, PairDTO{Question: p.Question, Answer: p.Answer})
	}
	return out
}

func pairsFromDTO(dtos []PairDTO) []domain.FlashcardPair {
	out := make([]domain.FlashcardPair, 0, len(dtos))
	for _, d := range dtos {
		out = append(out, domain.FlashcardPair{Question: d.Question, Answer: d.Answer})
	}
	return out
}

func flashcardsToResponse(cards []*domain.Flashcard) []FlashcardResponse {
	out := make([]FlashcardResponse, 0, len(cards))
	for _, c := range cards {
		out = append(out, FlashcardResponse{
			ID:        c.ID,
			Question:  c.Question,
			Answer:    c.Answer,
			CreatedAt: c.CreatedAt.UTC(),
		})
	}
	return out
}
