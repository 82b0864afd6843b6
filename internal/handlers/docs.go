package handlers

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	ghhtml "github.com/yuin/goldmark/renderer/html"

	"cardsync/internal/contextutil"
)

//go:embed docs/*.md
var docFiles embed.FS

// docPages maps URL slugs to embedded markdown files and page titles.
var docPages = map[string]struct {
	file  string
	title string
}{
	"help":    {"docs/help.md", "ヘルプ"},
	"privacy": {"docs/privacy.md", "プライバシーポリシー"},
	"terms":   {"docs/terms.md", "利用規約"},
}

type docPageData struct {
	Title   string
	Content template.HTML
}

// DocsHandler serves the static documentation pages rendered from embedded
// markdown.
type DocsHandler struct {
	parser   goldmark.Markdown
	template *template.Template
}

// NewDocsHandler creates a new DocsHandler.
func NewDocsHandler() *DocsHandler {
	tmpl := template.Must(template.New("doc").Parse(`<!DOCTYPE html>
<html lang="ja">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{.Title}} - CardSync</title>
  <style>
    body {
      margin: 0 auto;
      max-width: 46rem;
      padding: 2rem 1.25rem;
      font-family: "Hiragino Sans", "Noto Sans JP", sans-serif;
      line-height: 1.8;
      color: #1f2937;
    }
    h1 {
      border-bottom: 2px solid #e5e7eb;
      padding-bottom: 0.5rem;
    }
    h2 {
      margin-top: 2rem;
    }
    a {
      color: #2563eb;
      text-decoration: none;
    }
    a:hover {
      text-decoration: underline;
    }
  </style>
</head>
<body>
  <article>{{.Content}}</article>
</body>
</html>`))

	return &DocsHandler{
		parser: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				extension.Linkify,
			),
			goldmark.WithRendererOptions(
				ghhtml.WithUnsafe(),
			),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
		),
		template: tmpl,
	}
}

// ServeHTTP renders the documentation page named by the {page} URL param.
func (h *DocsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	page, ok := docPages[chi.URLParam(r, "page")]
	if !ok {
		http.Error(w, "page not found", http.StatusNotFound)
		return
	}

	source, err := docFiles.ReadFile(page.file)
	if err != nil {
		logger.ErrorContext(ctx, "failed to read doc page", "file", page.file, "error", err)
		http.Error(w, "failed to load page", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := h.parser.Convert(source, &buf); err != nil {
		logger.ErrorContext(ctx, "failed to render doc page", "file", page.file, "error", err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}

	data := docPageData{
		Title:   page.title,
		Content: template.HTML(buf.String()),
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.template.Execute(w, data); err != nil {
		logger.ErrorContext(ctx, "failed to execute doc template", "file", page.file, "error", err)
	}
}
