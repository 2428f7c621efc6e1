package api_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/phrazzld/flashnotes/internal/api"
	"github.com/phrazzld/flashnotes/internal/api/middleware"
	"github.com/phrazzld/flashnotes/internal/domain"
	"github.com/phrazzld/flashnotes/internal/generation"
	"github.com/phrazzld/flashnotes/internal/mocks"
	"github.com/phrazzld/flashnotes/internal/platform/database"
	"github.com/phrazzld/flashnotes/internal/platform/logger"
	"github.com/phrazzld/flashnotes/internal/service"
	"github.com/phrazzld/flashnotes/internal/store"
	"github.com/phrazzld/flashnotes/internal/testdb"
	"github.com/phrazzld/flashnotes/internal/web"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stepClock hands out strictly increasing timestamps.
type stepClock struct {
	next time.Time
}

func (c *stepClock) Now() time.Time {
	now := c.next
	c.next = c.next.Add(time.Second)
	return now
}

type handlerFixture struct {
	handler *api.FlashcardHandler
	logs    *logger.TestLogBuffer
	wrap    func(http.HandlerFunc) http.Handler
}

func newHandler(t *testing.T, svc service.FlashcardService) *handlerFixture {
	t.Helper()

	pages, err := web.NewPages()
	require.NoError(t, err)

	log, logs := logger.NewTestLogger()
	trace := middleware.Trace(log)
	return &handlerFixture{
		handler: api.NewFlashcardHandler(svc, pages),
		logs:    logs,
		wrap: func(h http.HandlerFunc) http.Handler {
			return trace(h)
		},
	}
}

func newSQLiteHandler(t *testing.T) *handlerFixture {
	t.Helper()

	db := testdb.NewSQLite(t)
	log, _ := logger.NewTestLogger()
	clock := &stepClock{next: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}
	flashcards := database.NewFlashcardStore(db.DB, db.Dialect(), log, database.WithClock(clock.Now))

	svc, err := service.NewFlashcardService(
		generation.NewGenerator(nil, generation.WithLogger(log)),
		service.NewFlashcardRepositoryAdapter(flashcards, db.DB),
		log,
	)
	require.NoError(t, err)
	return newHandler(t, svc)
}

func (f *handlerFixture) do(h http.HandlerFunc, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	f.wrap(h).ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestGenerate(t *testing.T) {
	t.Parallel()

	f := newSQLiteHandler(t)

	w := f.do(f.handler.Generate, http.MethodPost, "/generate",
		`{"notes":"Paris is the capital of France. The mitochondria produces energy for the cell through respiration."}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	resp := decode[api.GenerateResponse](t, w)
	require.Len(t, resp.QA, 2)
	assert.Equal(t, api.PairDTO{Question: "What is Paris?", Answer: "the capital of France"}, resp.QA[0])
	assert.Equal(t,
		"Explain: The mitochondria produces energy for the cell through respir...",
		resp.QA[1].Question)
	assert.Equal(t,
		"The mitochondria produces energy for the cell through respiration",
		resp.QA[1].Answer)
}

func TestGenerate_NothingStored(t *testing.T) {
	t.Parallel()

	f := newSQLiteHandler(t)

	w := f.do(f.handler.Generate, http.MethodPost, "/generate", `{"notes":"Paris is the capital of France."}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = f.do(f.handler.ListCards, http.MethodGet, "/api/cards", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"cards":[]}`, w.Body.String())
}

func TestGenerate_BadRequests(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		body    string
		message string
	}{
		{name: "whitespace notes", body: `{"notes":"   \n\t  "}`, message: "No notes provided"},
		{name: "empty notes", body: `{"notes":""}`, message: "No notes provided"},
		{name: "missing notes", body: `{}`, message: "No notes provided"},
		{name: "malformed json", body: `{"notes":`, message: "Invalid request format"},
		{name: "notes not a string", body: `{"notes":42}`, message: "Invalid request format"},
		{name: "empty body", body: "", message: "Invalid request format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newSQLiteHandler(t)
			w := f.do(f.handler.Generate, http.MethodPost, "/generate", tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			body := decode[map[string]string](t, w)
			assert.Equal(t, tt.message, body["error"])
			assert.Equal(t, w.Header().Get("X-Trace-ID"), body["trace_id"])
		})
	}
}

func TestSave(t *testing.T) {
	t.Parallel()

	f := newSQLiteHandler(t)

	w := f.do(f.handler.Save, http.MethodPost, "/save",
		`{"qa":[{"question":" Q1 ","answer":" A1 "},{"question":"","answer":"x"},{"question":"Q2","answer":"A2"}]}`)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Saved []struct {
			ID        int64  `json:"id"`
			Question  string `json:"question"`
			Answer    string `json:"answer"`
			CreatedAt string `json:"created_at"`
		} `json:"saved"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Saved, 2)

	assert.Equal(t, "Q1", resp.Saved[0].Question)
	assert.Equal(t, "A1", resp.Saved[0].Answer)
	assert.Equal(t, "Q2", resp.Saved[1].Question)
	assert.Equal(t, "A2", resp.Saved[1].Answer)
	assert.NotEqual(t, resp.Saved[0].ID, resp.Saved[1].ID)

	for _, card := range resp.Saved {
		assert.Equal(t, "2026-01-02T03:04:05Z", card.CreatedAt, "created_at is RFC 3339 UTC")
	}
}

func TestSave_NothingValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{name: "all empty", body: `{"qa":[{"question":"  ","answer":"x"},{"question":"q","answer":""}]}`},
		{name: "empty list", body: `{"qa":[]}`},
		{name: "missing qa", body: `{}`},
		{name: "null qa", body: `{"qa":null}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newSQLiteHandler(t)
			w := f.do(f.handler.Save, http.MethodPost, "/save", tt.body)

			require.Equal(t, http.StatusOK, w.Code)
			assert.JSONEq(t, `{"saved":[]}`, w.Body.String())
		})
	}
}

func TestSave_InvalidJSON(t *testing.T) {
	t.Parallel()

	f := newSQLiteHandler(t)

	for _, body := range []string{`{"qa":[`, `{"qa":"nope"}`, `[1,2,3]`} {
		w := f.do(f.handler.Save, http.MethodPost, "/save", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
		assert.Equal(t, "Invalid request format", decode[map[string]string](t, w)["error"])
	}
}

func TestListCards_NewestFirst(t *testing.T) {
	t.Parallel()

	f := newSQLiteHandler(t)

	for i := 1; i <= 3; i++ {
		body := fmt.Sprintf(`{"qa":[{"question":"Q%d","answer":"A%d"}]}`, i, i)
		require.Equal(t, http.StatusOK, f.do(f.handler.Save, http.MethodPost, "/save", body).Code)
	}

	w := f.do(f.handler.ListCards, http.MethodGet, "/api/cards", "")
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode[api.CardsResponse](t, w)
	require.Len(t, resp.Cards, 3)
	assert.Equal(t, "Q3", resp.Cards[0].Question)
	assert.Equal(t, "Q2", resp.Cards[1].Question)
	assert.Equal(t, "Q1", resp.Cards[2].Question)
	assert.True(t, resp.Cards[0].CreatedAt.After(resp.Cards[2].CreatedAt))
}

func TestIndex_ShowsAtMostRecentLimit(t *testing.T) {
	t.Parallel()

	f := newSQLiteHandler(t)

	qa := make([]string, 0, service.RecentLimit+5)
	for i := 0; i < service.RecentLimit+5; i++ {
		qa = append(qa, fmt.Sprintf(`{"question":"question-%03d","answer":"answer"}`, i))
	}
	w := f.do(f.handler.Save, http.MethodPost, "/save", `{"qa":[`+strings.Join(qa, ",")+`]}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = f.do(f.handler.Index, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))

	html := w.Body.String()
	assert.Equal(t, service.RecentLimit, strings.Count(html, `class="card"`))

	w = f.do(f.handler.ListCards, http.MethodGet, "/api/cards", "")
	assert.Len(t, decode[api.CardsResponse](t, w).Cards, service.RecentLimit+5, "the JSON listing is unbounded")
}

func TestIndex_Empty(t *testing.T) {
	t.Parallel()

	f := newSQLiteHandler(t)

	w := f.do(f.handler.Index, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "No flashcards saved yet.")
}

func TestHandlers_StorageFailures(t *testing.T) {
	t.Parallel()

	storageErr := store.NewStoreError("flashcard", "list", "failed to query flashcards",
		fmt.Errorf("%w: connect postgres://app:s3cret@db:5432/flashnotes", store.ErrStorage))

	svc := &mocks.MockFlashcardService{
		SaveFn: func(context.Context, []domain.FlashcardPair) ([]*domain.Flashcard, error) {
			return nil, service.NewFlashcardServiceError("save", "failed to save flashcards", storageErr)
		},
		ListAllFn: func(context.Context) ([]*domain.Flashcard, error) {
			return nil, service.NewFlashcardServiceError("list_all", "failed to list flashcards", storageErr)
		},
		ListRecentFn: func(context.Context) ([]*domain.Flashcard, error) {
			return nil, storageErr
		},
	}
	f := newHandler(t, svc)

	tests := []struct {
		name    string
		handler http.HandlerFunc
		method  string
		path    string
		body    string
	}{
		{name: "save", handler: f.handler.Save, method: http.MethodPost, path: "/save", body: `{"qa":[{"question":"q","answer":"a"}]}`},
		{name: "list", handler: f.handler.ListCards, method: http.MethodGet, path: "/api/cards"},
	}

	for _, tt := range tests {
		w := f.do(tt.handler, tt.method, tt.path, tt.body)

		assert.Equal(t, http.StatusInternalServerError, w.Code, tt.name)
		body := decode[map[string]string](t, w)
		assert.Equal(t, "An unexpected error occurred", body["error"], tt.name)
		assert.NotContains(t, w.Body.String(), "postgres", tt.name)
	}

	w := f.do(f.handler.Index, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "postgres")

	assert.True(t, f.logs.Contains("API error response"))
	assert.NotContains(t, f.logs.String(), "s3cret", "logged errors are redacted")
}

func TestSave_InvalidEntityFromStore(t *testing.T) {
	t.Parallel()

	svc := &mocks.MockFlashcardService{
		SaveFn: func(context.Context, []domain.FlashcardPair) ([]*domain.Flashcard, error) {
			return nil, service.NewFlashcardServiceError("save", "invalid flashcard", store.ErrInvalidEntity)
		},
	}
	f := newHandler(t, svc)

	w := f.do(f.handler.Save, http.MethodPost, "/save", `{"qa":[{"question":"q","answer":"a"}]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid flashcard data", decode[map[string]string](t, w)["error"])
}
