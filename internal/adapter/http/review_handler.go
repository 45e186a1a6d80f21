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

// ReviewHandler serves review creation and deletion on a campground.
type ReviewHandler struct {
	base
	uc      *usecase.ReviewUsecase
	metrics *metrics.Manager
}

func NewReviewHandler(uc *usecase.ReviewUsecase, sessions *SessionManager, renderer *Renderer, m *metrics.Manager, mapboxToken string, log *logger.Logger) *ReviewHandler {
	return &ReviewHandler{
		base: base{
			sessions:    sessions,
			renderer:    renderer,
			mapboxToken: mapboxToken,
			logger:      log.Named("ReviewHandler"),
		},
		uc:      uc,
		metrics: m,
	}
}

func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	campgroundID := chi.URLParam(r, "campgroundID")
	if err := r.ParseForm(); err != nil {
		h.errorPage(w, r, http.StatusBadRequest, "Invalid form submission")
		return
	}

	_, err := h.uc.CreateReview(r.Context(), campgroundID, UserIDFromContext(r.Context()), reviewInputFromForm(r))
	if err != nil {
		h.presentError(w, r, err, campgroundID)
		return
	}

	h.metrics.ReviewsCreatedTotal.Inc()
	h.sessions.Flash(r, "success", "Created new review!")
	http.Redirect(w, r, "/campgrounds/"+campgroundID, http.StatusSeeOther)
}

func (h *ReviewHandler) Delete(w http.ResponseWriter, r *http.Request) {
	campgroundID := chi.URLParam(r, "campgroundID")
	reviewID := chi.URLParam(r, "reviewID")

	if err := h.uc.DeleteReview(r.Context(), campgroundID, reviewID, UserIDFromContext(r.Context())); err != nil {
		h.presentError(w, r, err, campgroundID)
		return
	}

	h.metrics.ReviewDeletesTotal.Inc()
	h.sessions.Flash(r, "success", "Successfully deleted review")
	http.Redirect(w, r, "/campgrounds/"+campgroundID, http.StatusSeeOther)
}

func (h *ReviewHandler) presentError(w http.ResponseWriter, r *http.Request, err error, campgroundID string) {
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
		http.Redirect(w, r, "/campgrounds/"+campgroundID, http.StatusSeeOther)
	case errors.Is(err, domain.ErrUnauthenticated):
		h.sessions.Flash(r, "error", "You must be signed in first!")
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	default:
		h.internalError(w, r, err)
	}
}
