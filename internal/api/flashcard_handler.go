package api

import (
	"bytes"
	"log/slog"
	"net/http"

	"github.com/phrazzld/flashnotes/internal/api/shared"
	"github.com/phrazzld/flashnotes/internal/platform/logger"
	"github.com/phrazzld/flashnotes/internal/redact"
	"github.com/phrazzld/flashnotes/internal/service"
	"github.com/phrazzld/flashnotes/internal/web"
)

// FlashcardHandler handles flashcard-related HTTP requests
type FlashcardHandler struct {
	flashcardService service.FlashcardService
	pages            *web.Pages
}

// NewFlashcardHandler creates a new FlashcardHandler
func NewFlashcardHandler(flashcardService service.FlashcardService, pages *web.Pages) *FlashcardHandler {
	return &FlashcardHandler{
		flashcardService: flashcardService,
		pages:            pages,
	}
}

// Index handles GET / requests.
// It renders the list view with the most recent flashcards, newest first.
func (h *FlashcardHandler) Index(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	cards, err := h.flashcardService.ListRecent(r.Context())
	if err != nil {
		log.Error("failed to load flashcards for list view",
			slog.String("error", redact.Error(err)))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := h.pages.RenderIndex(&buf, cards); err != nil {
		log.Error("failed to render list view", slog.String("error", err.Error()))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		log.Debug("failed to write list view", slog.String("error", err.Error()))
	}
}

// Generate handles POST /generate requests.
// It returns candidate pairs for the submitted notes without storing them.
func (h *FlashcardHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, MsgInvalidRequest, err)
		return
	}

	pairs, err := h.flashcardService.Generate(r.Context(), req.Notes)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, GenerateResponse{QA: pairsToDTO(pairs)})
}

// Save handles POST /save requests.
// Pairs with an empty side are dropped; the rest are stored together.
func (h *FlashcardHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req SaveRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, MsgInvalidRequest, err)
		return
	}

	saved, err := h.flashcardService.Save(r.Context(), pairsFromDTO(req.QA))
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, SaveResponse{Saved: flashcardsToResponse(saved)})
}

// ListCards handles GET /api/cards requests.
// It returns every flashcard, newest first.
func (h *FlashcardHandler) ListCards(w http.ResponseWriter, r *http.Request) {
	cards, err := h.flashcardService.ListAll(r.Context())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, CardsResponse{Cards: flashcardsToResponse(cards)})
}
