package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/flashnotes/internal/api"
	apiMiddleware "github.com/phrazzld/flashnotes/internal/api/middleware"
	"github.com/phrazzld/flashnotes/internal/web"
)

// setupRouter creates and configures the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(apiMiddleware.Trace(app.logger))
	r.Use(apiMiddleware.Latency(app.metrics))
	r.Use(middleware.Recoverer)

	flashcardHandler := api.NewFlashcardHandler(app.flashcardService, app.pages)

	r.Get("/", flashcardHandler.Index)
	r.Post("/generate", flashcardHandler.Generate)
	r.Post("/save", flashcardHandler.Save)
	r.Get("/api/cards", flashcardHandler.ListCards)

	r.Handle("/static/*", web.StaticHandler())
	r.Handle("/metrics", app.metrics.Handler())

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
