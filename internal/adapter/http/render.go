package http

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"go.uber.org/zap"

	"github.com/andrew-widjaja/yelp-camp/internal/adapter/session"
	"github.com/andrew-widjaja/yelp-camp/internal/campground/domain"
	"github.com/andrew-widjaja/yelp-camp/internal/platform/logger"
)

//go:embed templates
var templateFS embed.FS

var pageTemplates = []string{
	"home",
	"error",
	"campgrounds/index",
	"campgrounds/new",
	"campgrounds/show",
	"campgrounds/edit",
	"users/register",
	"users/login",
}

// Page is the data envelope every template renders with.
type Page struct {
	Title       string
	CurrentUser *domain.User
	Flashes     []session.Flash
	MapboxToken string
	Data        interface{}
}

// Renderer renders server-side HTML pages from templates embedded in the
// binary. Every page is parsed together with the shared layout at startup,
// so a broken template fails the boot instead of a request.
type Renderer struct {
	pages  map[string]*template.Template
	logger *logger.Logger
}

func NewRenderer(log *logger.Logger) (*Renderer, error) {
	funcs := template.FuncMap{
		"truncate": func(s string, n int) string {
			if len(s) <= n {
				return s
			}
			return s[:n] + "..."
		},
	}

	pages := make(map[string]*template.Template, len(pageTemplates))
	for _, name := range pageTemplates {
		t, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFS,
			"templates/layout.html",
			"templates/"+name+".html",
		)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		pages[name] = t
	}

	return &Renderer{
		pages:  pages,
		logger: log.Named("Renderer"),
	}, nil
}

// Render writes the named page. Render failures fall back to a plain 500
// so a template bug never leaks a half-written page.
func (re *Renderer) Render(w http.ResponseWriter, status int, name string, page *Page) {
	t, ok := re.pages[name]
	if !ok {
		re.logger.Error("Unknown template requested", zap.String("template", name))
		http.Error(w, "Oh No, Something Went Wrong!", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout.html", page); err != nil {
		re.logger.Error("Template execution failed", zap.String("template", name), zap.Error(err))
		http.Error(w, "Oh No, Something Went Wrong!", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		re.logger.Warn("Failed to write response", zap.Error(err))
	}
}
