package http

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/andrew-widjaja/yelp-camp/internal/campground/domain"
	"github.com/andrew-widjaja/yelp-camp/internal/campground/usecase"
	"github.com/andrew-widjaja/yelp-camp/internal/platform/logger"
	"github.com/andrew-widjaja/yelp-camp/internal/platform/metrics"
)

// UserHandler serves registration, login and logout. Both login and
// registration rotate the session: the anonymous session is revoked and a
// fresh authenticated one is issued in its place.
type UserHandler struct {
	base
	uc      *usecase.UserUsecase
	metrics *metrics.Manager
}

func NewUserHandler(uc *usecase.UserUsecase, sessions *SessionManager, renderer *Renderer, m *metrics.Manager, mapboxToken string, log *logger.Logger) *UserHandler {
	return &UserHandler{
		base: base{
			sessions:    sessions,
			renderer:    renderer,
			mapboxToken: mapboxToken,
			logger:      log.Named("UserHandler"),
		},
		uc:      uc,
		metrics: m,
	}
}

func (h *UserHandler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	if UserIDFromContext(r.Context()) != "" {
		http.Redirect(w, r, "/campgrounds", http.StatusSeeOther)
		return
	}
	h.renderer.Render(w, http.StatusOK, "users/register", h.page(r, "Register", nil))
}

func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.errorPage(w, r, http.StatusBadRequest, "Invalid form submission")
		return
	}

	user, err := h.uc.Register(r.Context(),
		strings.TrimSpace(r.PostFormValue("username")),
		strings.TrimSpace(r.PostFormValue("email")),
		r.PostFormValue("password"),
	)
	if err != nil {
		var vErr *domain.ValidationError
		switch {
		case errors.As(err, &vErr):
			h.sessions.Flash(r, "error", vErr.Error())
		case errors.Is(err, domain.ErrUserAlreadyExists):
			h.sessions.Flash(r, "error", "A user with the given username or email is already registered")
		default:
			h.internalError(w, r, err)
			return
		}
		http.Redirect(w, r, "/register", http.StatusSeeOther)
		return
	}

	h.metrics.UsersRegisteredTotal.Inc()
	h.startSession(w, r, user.ID, "Welcome to Yelp Camp!", "/campgrounds")
}

func (h *UserHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if UserIDFromContext(r.Context()) != "" {
		http.Redirect(w, r, "/campgrounds", http.StatusSeeOther)
		return
	}
	h.renderer.Render(w, http.StatusOK, "users/login", h.page(r, "Login", nil))
}

func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.errorPage(w, r, http.StatusBadRequest, "Invalid form submission")
		return
	}

	user, err := h.uc.Login(r.Context(),
		strings.TrimSpace(r.PostFormValue("login")),
		r.PostFormValue("password"),
	)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			h.sessions.Flash(r, "error", "Password or username is incorrect")
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		h.internalError(w, r, err)
		return
	}

	returnTo := h.sessions.PopReturnTo(r, "/campgrounds")
	h.startSession(w, r, user.ID, "Welcome back!", returnTo)
}

func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.startSession(w, r, "", "Goodbye!", "/campgrounds")
}

// startSession replaces the current session with a fresh one bound to
// userID ("" logs the visitor out), queues the flash on the new session
// and redirects.
func (h *UserHandler) startSession(w http.ResponseWriter, r *http.Request, userID, flash, redirectTo string) {
	if err := h.sessions.Revoke(r); err != nil {
		h.logger.Warn("Failed to revoke previous session", zap.Error(err))
	}
	sessionID, err := h.sessions.IssueCookie(w, r, userID)
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	h.sessions.FlashSession(r.Context(), sessionID, "success", flash)
	http.Redirect(w, r, redirectTo, http.StatusSeeOther)
}
