package http

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
)

//go:embed web/index.html
var embeddedWeb embed.FS

// pageData is passed to the dashboard page template
type pageData struct {
	AppName string
	Version string
}

// PageHandler serves the dashboard single page and its static assets
type PageHandler struct {
	webDir string
	data   pageData
	logger *slog.Logger
}

// NewPageHandler creates a page handler. index.html under webDir replaces the
// built-in page when present.
func NewPageHandler(webDir, appName, version string, logger *slog.Logger) *PageHandler {
	return &PageHandler{
		webDir: webDir,
		data:   pageData{AppName: appName, Version: version},
		logger: logger.With(slog.String("handler", "page")),
	}
}

// Index handles GET /
func (h *PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	tmpl, err := h.template()
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to load page template", slog.String("error", err.Error()))
		http.Error(w, "Error loading page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	if err := tmpl.Execute(w, h.data); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to render page", slog.String("error", err.Error()))
	}
}

// Static serves files below webDir/static under the /static/ prefix
func (h *PageHandler) Static() http.Handler {
	return http.StripPrefix("/static/", http.FileServer(http.Dir(filepath.Join(h.webDir, "static"))))
}

func (h *PageHandler) template() (*template.Template, error) {
	if h.webDir != "" {
		path := filepath.Join(h.webDir, "index.html")
		if _, err := os.Stat(path); err == nil {
			return template.ParseFiles(path)
		}
	}
	return template.ParseFS(embeddedWeb, "web/index.html")
}
