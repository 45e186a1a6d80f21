package http

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/andrew-widjaja/yelp-camp/internal/campground/domain"
	"github.com/andrew-widjaja/yelp-camp/internal/campground/usecase"
	"github.com/andrew-widjaja/yelp-camp/internal/platform/logger"
	"github.com/andrew-widjaja/yelp-camp/internal/platform/metrics"
)

// CampgroundHandler serves the campground pages and mutations.
type CampgroundHandler struct {
	base
	uc      *usecase.CampgroundUsecase
	metrics *metrics.Manager
}

func NewCampgroundHandler(uc *usecase.CampgroundUsecase, sessions *SessionManager, renderer *Renderer, m *metrics.Manager, mapboxToken string, log *logger.Logger) *CampgroundHandler {
	return &CampgroundHandler{
		base: base{
			sessions:    sessions,
			renderer:    renderer,
			mapboxToken: mapboxToken,
			logger:      log.Named("CampgroundHandler"),
		},
		uc:      uc,
		metrics: m,
	}
}

func (h *CampgroundHandler) Index(w http.ResponseWriter, r *http.Request) {
	campgrounds, err := h.uc.ListCampgrounds(r.Context())
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	h.renderer.Render(w, http.StatusOK, "campgrounds/index", h.page(r, "All Campgrounds", campgrounds))
}

func (h *CampgroundHandler) New(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, http.StatusOK, "campgrounds/new", h.page(r, "New Campground", nil))
}

func (h *CampgroundHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		h.errorPage(w, r, http.StatusBadRequest, "Invalid form submission")
		return
	}
	uploads, err := uploadsFromForm(r, "image")
	if err != nil {
		h.internalError(w, r, err)
		return
	}

	c, err := h.uc.CreateCampground(r.Context(), UserIDFromContext(r.Context()), campgroundInputFromForm(r), uploads)
	if err != nil {
		h.presentError(w, r, err, "")
		return
	}

	h.metrics.CampgroundsCreatedTotal.Inc()
	h.sessions.Flash(r, "success", "Successfully made a new campground!")
	http.Redirect(w, r, "/campgrounds/"+c.ID, http.StatusSeeOther)
}

func (h *CampgroundHandler) Show(w http.ResponseWriter, r *http.Request) {
	details, err := h.uc.GetCampground(r.Context(), chi.URLParam(r, "campgroundID"))
	if err != nil {
		h.presentError(w, r, err, "")
		return
	}
	h.renderer.Render(w, http.StatusOK, "campgrounds/show", h.page(r, details.Campground.Title, details))
}

func (h *CampgroundHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "campgroundID")
	details, err := h.uc.GetCampground(r.Context(), id)
	if err != nil {
		h.presentError(w, r, err, id)
		return
	}
	if !domain.CanMutateCampground(UserIDFromContext(r.Context()), details.Campground) {
		h.presentError(w, r, domain.ErrForbidden, id)
		return
	}
	h.renderer.Render(w, http.StatusOK, "campgrounds/edit", h.page(r, "Edit Campground", details))
}

func (h *CampgroundHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "campgroundID")
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		h.errorPage(w, r, http.StatusBadRequest, "Invalid form submission")
		return
	}
	uploads, err := uploadsFromForm(r, "image")
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	deleteFilenames := r.PostForm["deleteImages[]"]

	c, err := h.uc.UpdateCampground(r.Context(), id, UserIDFromContext(r.Context()), campgroundInputFromForm(r), uploads, deleteFilenames)
	if err != nil {
		h.presentError(w, r, err, id)
		return
	}

	h.metrics.CampgroundUpdatesTotal.Inc()
	h.sessions.Flash(r, "success", "Successfully updated campground!")
	http.Redirect(w, r, "/campgrounds/"+c.ID, http.StatusSeeOther)
}

func (h *CampgroundHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "campgroundID")
	if err := h.uc.DeleteCampground(r.Context(), id, UserIDFromContext(r.Context())); err != nil {
		h.presentError(w, r, err, id)
		return
	}

	h.metrics.CampgroundDeletesTotal.Inc()
	h.sessions.Flash(r, "success", "Successfully deleted campground")
	http.Redirect(w, r, "/campgrounds", http.StatusSeeOther)
}

// presentError maps domain errors to the page-flow the user expects:
// validation problems get a 400 page, a missing campground sends them
// back to the index, and authorization problems flash on the campground
// they tried to touch.
func (h *CampgroundHandler) presentError(w http.ResponseWriter, r *http.Request, err error, campgroundID string) {
	var vErr *domain.ValidationError
	switch {
	case errors.As(err, &vErr):
		h.errorPage(w, r, http.StatusBadRequest, vErr.Error())
	case errors.Is(err, domain.ErrInvalidInput):
		h.errorPage(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		h.sessions.Flash(r, "error", "Cannot find that campground!")
		http.Redirect(w, r, "/campgrounds", http.StatusSeeOther)
	case errors.Is(err, domain.ErrForbidden):
		h.sessions.Flash(r, "error", "You do not have permission to do that!")
		target := "/campgrounds"
		if campgroundID != "" {
			target = "/campgrounds/" + campgroundID
		}
		http.Redirect(w, r, target, http.StatusSeeOther)
	case errors.Is(err, domain.ErrUnauthenticated):
		h.sessions.Flash(r, "error", "You must be signed in first!")
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	default:
		h.internalError(w, r, err)
	}
}
