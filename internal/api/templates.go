package api

import (
	"embed"
	"html/template"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/sudeep-search/sudeep/internal/pipeline"
)

//go:embed templates/*.html
var templateFiles embed.FS

var templateFuncs = template.FuncMap{
	"isSentinel":  func(line string) bool { return strings.HasPrefix(line, pipeline.Marker) },
	"splitResult": splitResult,
}

// loadTemplates clones the layout once per page. Panics on syntax errors so
// that startup fails fast.
func loadTemplates() map[string]*template.Template {
	layout := template.Must(
		template.New("layout.html").Funcs(templateFuncs).ParseFS(templateFiles, "templates/layout.html"),
	)

	pages := []string{"home.html", "results.html"}
	result := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		t := template.Must(layout.Clone())
		template.Must(t.ParseFS(templateFiles, "templates/"+page))
		result[page] = t
	}
	return result
}

func (s *Server) render(w http.ResponseWriter, name string, data any) {
	t, ok := s.templates[name]
	if !ok {
		http.Error(w, "template not found", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := t.ExecuteTemplate(w, "layout.html", data); err != nil {
		s.logger.Error("template render failed", zap.String("template", name), zap.Error(err))
	}
}

type resultLine struct {
	URL  string
	Text string
}

// splitResult separates "<url> - <text>" into its parts. Lines without a
// linkable URL keep the whole line as text.
func splitResult(line string) resultLine {
	url, text, found := strings.Cut(line, " - ")
	url = strings.TrimSpace(url)
	if !found || !(strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://")) {
		return resultLine{Text: line}
	}
	return resultLine{URL: url, Text: strings.TrimSpace(text)}
}
