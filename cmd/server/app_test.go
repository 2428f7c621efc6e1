package main

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/phrazzld/flashnotes/internal/config"
	"github.com/phrazzld/flashnotes/internal/generation"
	"github.com/phrazzld/flashnotes/internal/platform/gemini"
	"github.com/phrazzld/flashnotes/internal/platform/huggingface"
	"github.com/phrazzld/flashnotes/internal/platform/logger"
	rediscache "github.com/phrazzld/flashnotes/internal/platform/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	return &config.Config{
		Server: config.ServerConfig{Port: 8080, LogLevel: "debug"},
		Database: config.DatabaseConfig{
			URL: "sqlite:///" + filepath.Join(t.TempDir(), "flashcards.db"),
		},
		Summarizer: config.SummarizerConfig{
			Provider:       config.ProviderHuggingFace,
			HuggingFaceURL: config.DefaultHuggingFaceURL,
			GeminiModel:    config.DefaultGeminiModel,
			RateBurst:      1,
		},
		Cache: config.CacheConfig{TTLMinutes: config.DefaultCacheTTL},
	}
}

func newTestApp(t *testing.T, cfg *config.Config) (*application, *httptest.Server) {
	t.Helper()

	log, _ := logger.NewTestLogger()
	app, err := newApplication(context.Background(), cfg, log)
	require.NoError(t, err)
	t.Cleanup(app.cleanup)

	srv := httptest.NewServer(app.setupRouter())
	t.Cleanup(srv.Close)
	return app, srv
}

func post(t *testing.T, url, body string) (*http.Response, []byte) {
	t.Helper()

	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func get(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()

	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func TestApplication_EndToEnd(t *testing.T) {
	t.Parallel()

	_, srv := newTestApp(t, testConfig(t))

	resp, body := post(t, srv.URL+"/generate", `{"notes":"Paris is the capital of France."}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"qa":[{"question":"What is Paris?","answer":"the capital of France"}]}`, string(body))
	assert.NotEmpty(t, resp.Header.Get("X-Trace-ID"))

	resp, body = post(t, srv.URL+"/save",
		`{"qa":[{"question":" Q1 ","answer":" A1 "},{"question":"","answer":"x"},{"question":"Q2","answer":"A2"}]}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var saved struct {
		Saved []struct {
			ID        int64     `json:"id"`
			Question  string    `json:"question"`
			Answer    string    `json:"answer"`
			CreatedAt time.Time `json:"created_at"`
		} `json:"saved"`
	}
	require.NoError(t, json.Unmarshal(body, &saved))
	require.Len(t, saved.Saved, 2)
	assert.Equal(t, "Q1", saved.Saved[0].Question)
	assert.Equal(t, "A1", saved.Saved[0].Answer)
	assert.Equal(t, "Q2", saved.Saved[1].Question)

	resp, body = get(t, srv.URL+"/api/cards")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var cards struct {
		Cards []struct {
			ID       int64  `json:"id"`
			Question string `json:"question"`
		} `json:"cards"`
	}
	require.NoError(t, json.Unmarshal(body, &cards))
	require.Len(t, cards.Cards, 2)
	assert.Equal(t, saved.Saved[1].ID, cards.Cards[0].ID, "newest first")

	resp, body = get(t, srv.URL+"/")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "Q1")
	assert.Contains(t, string(body), "Q2")
}

func TestApplication_Routes(t *testing.T) {
	t.Parallel()

	_, srv := newTestApp(t, testConfig(t))

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
		want   string
	}{
		{name: "health", method: http.MethodGet, path: "/health", status: http.StatusOK, want: "OK"},
		{name: "static script", method: http.MethodGet, path: "/static/app.js", status: http.StatusOK, want: "/generate"},
		{name: "empty notes", method: http.MethodPost, path: "/generate", body: `{"notes":"  "}`, status: http.StatusBadRequest, want: "No notes provided"},
		{name: "invalid json", method: http.MethodPost, path: "/save", body: `{"qa":`, status: http.StatusBadRequest, want: "Invalid request format"},
		{name: "wrong method", method: http.MethodGet, path: "/generate", status: http.StatusMethodNotAllowed},
		{name: "unknown route", method: http.MethodGet, path: "/nope", status: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(tt.method, srv.URL+tt.path, strings.NewReader(tt.body))
			require.NoError(t, err)
			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			data, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
			if tt.want != "" {
				assert.Contains(t, string(data), tt.want)
			}
		})
	}
}

func TestApplication_Metrics(t *testing.T) {
	t.Parallel()

	_, srv := newTestApp(t, testConfig(t))

	resp, _ := post(t, srv.URL+"/generate", `{"notes":"Paris is the capital of France."}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = post(t, srv.URL+"/save", `{"qa":[{"question":"Q","answer":"A"},{"question":"","answer":"A"}]}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := get(t, srv.URL+"/metrics")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	text := string(body)
	assert.Contains(t, text, `flashnotes_generations_total{source="local"} 1`)
	assert.Contains(t, text, "flashnotes_cards_saved_total 1")
	assert.Contains(t, text, "flashnotes_pairs_dropped_total 1")
	assert.Contains(t, text, `flashnotes_endpoint_latency_seconds_count{method="POST",route="/generate",status="200"} 1`)
	assert.Contains(t, text, "go_goroutines")
}

func TestApplication_RemoteSummarization(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	hf := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "Bearer hf_testkey123", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"summary_text":"Paris is the capital of France."}]`))
	}))
	t.Cleanup(hf.Close)

	cfg := testConfig(t)
	cfg.Summarizer.HuggingFaceAPIKey = "hf_testkey123"
	cfg.Summarizer.HuggingFaceURL = hf.URL

	app, srv := newTestApp(t, cfg)
	assert.True(t, app.generator.RemoteEnabled())

	resp, body := post(t, srv.URL+"/generate",
		`{"notes":"A long lecture about European geography and capitals."}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"qa":[{"question":"What is Paris?","answer":"the capital of France"}]}`, string(body))
	assert.Equal(t, int32(1), calls.Load())
}

func TestApplication_RemoteFailureFallsBack(t *testing.T) {
	t.Parallel()

	hf := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model loading", http.StatusServiceUnavailable)
	}))
	t.Cleanup(hf.Close)

	cfg := testConfig(t)
	cfg.Summarizer.HuggingFaceAPIKey = "hf_testkey123"
	cfg.Summarizer.HuggingFaceURL = hf.URL

	_, srv := newTestApp(t, cfg)

	resp, body := post(t, srv.URL+"/generate", `{"notes":"Paris is the capital of France."}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"qa":[{"question":"What is Paris?","answer":"the capital of France"}]}`, string(body))
}

func TestNewApplication_BadDatabaseURL(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	cfg.Database.URL = "mysql://localhost/flashcards"

	log, _ := logger.NewTestLogger()
	_, err := newApplication(context.Background(), cfg, log)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open database")
}

func TestNewSummarizer(t *testing.T) {
	t.Parallel()

	log, _ := logger.NewTestLogger()
	ctx := context.Background()

	t.Run("disabled without key", func(t *testing.T) {
		t.Parallel()

		s, closer, err := newSummarizer(ctx, testConfig(t), log, nil)
		require.NoError(t, err)
		defer closer()
		assert.Nil(t, s)
	})

	t.Run("hugging face", func(t *testing.T) {
		t.Parallel()

		cfg := testConfig(t)
		cfg.Summarizer.HuggingFaceAPIKey = "hf_testkey123"

		s, closer, err := newSummarizer(ctx, cfg, log, nil)
		require.NoError(t, err)
		defer closer()
		assert.IsType(t, &huggingface.Summarizer{}, s)
	})

	t.Run("gemini", func(t *testing.T) {
		t.Parallel()

		cfg := testConfig(t)
		cfg.Summarizer.Provider = config.ProviderGemini
		cfg.Summarizer.GeminiAPIKey = "AIzaTestKey"

		s, closer, err := newSummarizer(ctx, cfg, log, nil)
		require.NoError(t, err)
		defer closer()
		assert.IsType(t, &gemini.Summarizer{}, s)
	})

	t.Run("throttled", func(t *testing.T) {
		t.Parallel()

		cfg := testConfig(t)
		cfg.Summarizer.HuggingFaceAPIKey = "hf_testkey123"
		cfg.Summarizer.RatePerSecond = 2

		s, closer, err := newSummarizer(ctx, cfg, log, nil)
		require.NoError(t, err)
		defer closer()
		assert.IsType(t, &generation.ThrottledSummarizer{}, s)
	})

	t.Run("cached", func(t *testing.T) {
		t.Parallel()

		mr := miniredis.RunT(t)
		cfg := testConfig(t)
		cfg.Summarizer.HuggingFaceAPIKey = "hf_testkey123"
		cfg.Cache.RedisURL = "redis://" + mr.Addr()

		s, closer, err := newSummarizer(ctx, cfg, log, nil)
		require.NoError(t, err)
		defer closer()
		assert.IsType(t, &rediscache.CachedSummarizer{}, s)
	})

	t.Run("unreachable cache is skipped", func(t *testing.T) {
		t.Parallel()

		ln, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)
		addr := ln.Addr().String()
		require.NoError(t, ln.Close())

		cfg := testConfig(t)
		cfg.Summarizer.HuggingFaceAPIKey = "hf_testkey123"
		cfg.Cache.RedisURL = "redis://" + addr

		s, closer, err := newSummarizer(ctx, cfg, log, nil)
		require.NoError(t, err)
		defer closer()
		assert.IsType(t, &huggingface.Summarizer{}, s)
	})
}

func TestServe_GracefulShutdown(t *testing.T) {
	t.Parallel()

	log, logs := logger.NewTestLogger()
	app, err := newApplication(context.Background(), testConfig(t), log)
	require.NoError(t, err)
	t.Cleanup(app.cleanup)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- app.serve(ctx, ln)
	}()

	url := "http://" + ln.Addr().String() + "/health"
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(shutdownTimeout + time.Second):
		t.Fatal("server did not shut down")
	}
	assert.True(t, logs.Contains("server shutdown completed"))
}
