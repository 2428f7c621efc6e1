// Package web embeds the browser front end: the list view template and the
// static script and stylesheet it loads.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"

	"github.com/phrazzld/flashnotes/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Pages renders the server-side HTML views.
type Pages struct {
	index *template.Template
}

// IndexData is the model of the list view.
type IndexData struct {
	Cards []*domain.Flashcard
}

// NewPages parses the embedded templates.
func NewPages() (*Pages, error) {
	index, err := template.ParseFS(templateFS, "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse index template: %w", err)
	}
	return &Pages{index: index}, nil
}

// RenderIndex writes the list view for cards, which are shown in the given
// order. Question and answer text is HTML-escaped.
func (p *Pages) RenderIndex(w io.Writer, cards []*domain.Flashcard) error {
	return p.index.Execute(w, IndexData{Cards: cards})
}

// StaticHandler serves the embedded assets. Mount it under /static/.
func StaticHandler() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		// The directory is embedded at compile time.
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}
