package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/courtamos/tinyapp/internal/platform/models"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = []string{
	"urls_index.html",
	"urls_new.html",
	"urls_show.html",
	"register.html",
	"login.html",
}

// LinkView is a link as the templates see it.
type LinkView struct {
	ShortCode string
	LongURL   string
	ShortURL  string
	CreatedAt time.Time
}

// Page carries everything a template can render. User is nil for anonymous
// visitors.
type Page struct {
	User  *models.User
	Links []LinkView
	Link  *LinkView
	Email string
}

type Renderer struct {
	templates map[string]*template.Template
}

func New() (*Renderer, error) {
	funcs := template.FuncMap{
		"date": func(t time.Time) string { return t.UTC().Format("2006-01-02 15:04") },
	}

	templates := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		tmpl, err := template.New(page).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+page)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", page, err)
		}
		templates[page] = tmpl
	}
	return &Renderer{templates: templates}, nil
}

// Render executes the page into a buffer first so a template failure never
// leaves a half-written response.
func (v *Renderer) Render(w http.ResponseWriter, status int, page string, data *Page) {
	tmpl, ok := v.templates[page]
	if !ok {
		log.Error().Str("page", page).Msg("unknown template")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		log.Error().Err(err).Str("page", page).Msg("render failed")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
