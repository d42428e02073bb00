package web

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/mudassir044/au-pair-connect-frontend/internal/platform"
)

//go:embed templates/*.html
var templateFS embed.FS

func parseTemplates() *template.Template {
	return template.Must(template.ParseFS(templateFS, "templates/*.html"))
}

// pageData is the payload every template receives.
type pageData struct {
	User    *platform.User
	Flashes []Flash
	Data    map[string]any
}

// pageData assembles the common template payload: the signed-in user when
// the guard injected one, pending flashes, and page-specific data.
func (s *Server) pageData(r *http.Request, data map[string]any) pageData {
	if data == nil {
		data = make(map[string]any)
	}
	return pageData{
		User:    UserFromContext(r.Context()),
		Flashes: s.flashes.Consume(ClientIDFromContext(r.Context())),
		Data:    data,
	}
}

func (s *Server) render(w http.ResponseWriter, name string, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.ExecuteTemplate(w, name, data); err != nil {
		slog.Error("template render failed", "template", name, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
