package app

import (
	"bytes"
	"embed"
	"html/template"
	"log"
	"net/http"

	"github.com/klabast/wb-services/menu-planer/internal/menu"
)

//go:embed templates/*.html
var templateFS embed.FS

var templateFuncs = template.FuncMap{
	"field": cellField,
	"orNothing": func(s string) string {
		if s == "" {
			return TextNothingPlanned
		}
		return s
	},
	"lunch":  func() menu.Meal { return menu.Lunch },
	"dinner": func() menu.Meal { return menu.Dinner },
	"text": func(key string) string {
		switch key {
		case "weekEmpty":
			return TextWeekEmpty
		case "archiveEmpty":
			return TextArchiveEmpty
		}
		return ""
	},
}

func parseTemplates() (*template.Template, error) {
	return template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html")
}

func (s *Server) render(w http.ResponseWriter, name string, data interface{}) {
	s.renderStatus(w, http.StatusOK, name, data)
}

// renderStatus executes into a buffer so a template error still yields a clean 500
func (s *Server) renderStatus(w http.ResponseWriter, status int, name string, data interface{}) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		log.Printf("Error rendering %s: %v", name, err)
		http.Error(w, ErrInternalServer, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		log.Printf("Error writing %s HTML: %v", name, err)
	}
}
