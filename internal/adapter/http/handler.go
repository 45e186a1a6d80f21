package http

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/andrew-widjaja/yelp-camp/internal/platform/logger"
)

// base carries the plumbing every page handler needs: session access for
// flashes, the renderer and the Mapbox token handed to map templates.
type base struct {
	sessions    *SessionManager
	renderer    *Renderer
	mapboxToken string
	logger      *logger.Logger
}

// errorPageData is what the error template renders.
type errorPageData struct {
	Status  int
	Message string
}

func (b *base) page(r *http.Request, title string, data interface{}) *Page {
	return &Page{
		Title:       title,
		CurrentUser: CurrentUserFromContext(r.Context()),
		Flashes:     b.sessions.PopFlashes(r),
		MapboxToken: b.mapboxToken,
		Data:        data,
	}
}

func (b *base) errorPage(w http.ResponseWriter, r *http.Request, status int, message string) {
	b.renderer.Render(w, status, "error", b.page(r, "YelpCamp", errorPageData{
		Status:  status,
		Message: message,
	}))
}

func (b *base) internalError(w http.ResponseWriter, r *http.Request, err error) {
	b.logger.Error("Request failed",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err))
	b.errorPage(w, r, http.StatusInternalServerError, "Oh No, Something Went Wrong!")
}

// HomeHandler serves the landing page and the catch-all not-found page.
type HomeHandler struct {
	base
}

func NewHomeHandler(sessions *SessionManager, renderer *Renderer, mapboxToken string, log *logger.Logger) *HomeHandler {
	return &HomeHandler{base: base{
		sessions:    sessions,
		renderer:    renderer,
		mapboxToken: mapboxToken,
		logger:      log.Named("HomeHandler"),
	}}
}

func (h *HomeHandler) Home(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, http.StatusOK, "home", h.page(r, "YelpCamp", nil))
}

func (h *HomeHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.errorPage(w, r, http.StatusNotFound, "Page Not Found!")
}
