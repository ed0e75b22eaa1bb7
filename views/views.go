// Copyright (c) 2025 Mamajin.
// Licensed under the MIT License. See LICENSE.

// Package views renders the server-side HTML pages from embedded templates.
package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/Mamajin/ku-polls/auth"
	"github.com/Mamajin/ku-polls/models"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page names
const (
	PageIndex   = "index"
	PageDetail  = "detail"
	PageResults = "results"
	PageLogin   = "login"
	PageError   = "error"
)

var pages = []string{PageIndex, PageDetail, PageResults, PageLogin, PageError}

// Notice is a one-line message shown above the page content
type Notice struct {
	Level string `json:"level"`
	Text  string `json:"text"`
}

// Page is what every template receives
type Page struct {
	Title   string
	User    *auth.Identity
	Notices []Notice
	Data    any
}

// QuestionRow is one entry of the poll list
type QuestionRow struct {
	Question models.Question
	CanVote  bool
	Recent   bool
}

type IndexData struct {
	Questions  []QuestionRow
	Page       int
	TotalPages int
	HasPrev    bool
	HasNext    bool
	PrevPage   int
	NextPage   int
}

type DetailData struct {
	Question models.Question
	Choices  []models.Choice
	Selected int64
	Error    string
}

type LoginData struct {
	Username string
	Next     string
	Error    string
}

// Renderer holds the parsed page templates
type Renderer struct {
	pages map[string]*template.Template
}

var funcs = template.FuncMap{
	"humanize": humanize.Time,
	"deref": func(t *time.Time) time.Time {
		if t == nil {
			return time.Time{}
		}
		return *t
	},
	"percent": func(votes, total int) string {
		if total == 0 {
			return "0%"
		}
		return fmt.Sprintf("%.0f%%", float64(votes)*100/float64(total))
	},
}

// New parses every page together with the base layout
func New() (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template, len(pages))}
	for _, name := range pages {
		t, err := template.New(name).Funcs(funcs).ParseFS(templateFS, "templates/base.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s template: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// Render writes page with the given status. The page is rendered into a
// buffer first so a template error still yields a clean 500.
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, page Page) {
	t, ok := r.pages[name]
	if !ok {
		slog.Error("unknown template", "name", name)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "base", page); err != nil {
		slog.Error("failed to render template", "name", name, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}
