package http

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/andrew-widjaja/yelp-camp/internal/adapter/session"
	"github.com/andrew-widjaja/yelp-camp/internal/campground/domain"
	"github.com/andrew-widjaja/yelp-camp/internal/platform/logger"
	"github.com/andrew-widjaja/yelp-camp/internal/platform/metrics"
)

// ContextKey is a dedicated type for context keys to avoid collisions.
type ContextKey string

const (
	// SessionIDCtxKey holds the verified session id for the request.
	SessionIDCtxKey = ContextKey("session_id")
	// UserIDCtxKey holds the authenticated user id, "" when anonymous.
	UserIDCtxKey = ContextKey("user_id")
	// CurrentUserCtxKey holds the loaded *domain.User, nil when anonymous.
	CurrentUserCtxKey = ContextKey("current_user")
)

const sessionCookieName = "yelpcamp_session"

// SessionManager attaches a session to every request. Visitors without a
// valid session cookie get a fresh anonymous one, so flash messages and
// the post-login return URL work before authentication.
type SessionManager struct {
	store         *session.Store
	users         domain.UserRepository
	secureCookies bool
	logger        *logger.Logger
}

func NewSessionManager(store *session.Store, users domain.UserRepository, secureCookies bool, log *logger.Logger) *SessionManager {
	return &SessionManager{
		store:         store,
		users:         users,
		secureCookies: secureCookies,
		logger:        log.Named("SessionManager"),
	}
}

// IssueCookie creates a session for userID ("" for anonymous), sets the
// cookie on the response and returns the new session id.
func (m *SessionManager) IssueCookie(w http.ResponseWriter, r *http.Request, userID string) (string, error) {
	token, sessionID, err := m.store.Issue(r.Context(), userID)
	if err != nil {
		return "", err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.store.TTL() / time.Second),
		HttpOnly: true,
		Secure:   m.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	return sessionID, nil
}

// Middleware resolves the request's session, loading the current user when
// the session is authenticated.
func (m *SessionManager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var sessionID, userID string

		if cookie, err := r.Cookie(sessionCookieName); err == nil {
			sessionID, userID, err = m.store.Verify(r.Context(), cookie.Value)
			if err != nil && !errors.Is(err, domain.ErrUnauthenticated) {
				m.logger.Error("Session verification failed", zap.Error(err))
				http.Error(w, "Oh No, Something Went Wrong!", http.StatusInternalServerError)
				return
			}
		}

		if sessionID == "" {
			var err error
			sessionID, err = m.IssueCookie(w, r, "")
			if err != nil {
				m.logger.Error("Failed to issue anonymous session", zap.Error(err))
				http.Error(w, "Oh No, Something Went Wrong!", http.StatusInternalServerError)
				return
			}
		}

		ctx := context.WithValue(r.Context(), SessionIDCtxKey, sessionID)

		var user *domain.User
		if userID != "" {
			var err error
			user, err = m.users.GetByID(r.Context(), userID)
			if errors.Is(err, domain.ErrNotFound) {
				// Account deleted while the session was live. Degrade to
				// anonymous instead of failing the request.
				userID = ""
			} else if err != nil {
				m.logger.Error("Failed to load session user", zap.Error(err), zap.String("user_id", userID))
				http.Error(w, "Oh No, Something Went Wrong!", http.StatusInternalServerError)
				return
			}
		}

		ctx = context.WithValue(ctx, UserIDCtxKey, userID)
		ctx = context.WithValue(ctx, CurrentUserCtxKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireLogin gates a route to authenticated users. Anonymous visitors
// are sent to the login page with a flash, and for GET requests the
// original URL is remembered for the post-login redirect.
func (m *SessionManager) RequireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if UserIDFromContext(r.Context()) == "" {
			if r.Method == http.MethodGet {
				if err := m.store.SetReturnTo(r.Context(), SessionIDFromContext(r.Context()), r.URL.RequestURI()); err != nil {
					m.logger.Warn("Failed to remember return url", zap.Error(err))
				}
			}
			m.Flash(r, "error", "You must be signed in first!")
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Flash queues a message on the request's session. Failures are logged,
// never surfaced: a lost flash should not break navigation.
func (m *SessionManager) Flash(r *http.Request, kind, message string) {
	sessionID := SessionIDFromContext(r.Context())
	if sessionID == "" {
		return
	}
	if err := m.store.PushFlash(r.Context(), sessionID, kind, message); err != nil {
		m.logger.Warn("Failed to queue flash", zap.Error(err))
	}
}

// FlashSession queues a message on an explicit session id. Used right
// after login and logout, when the request context still points at the
// replaced session.
func (m *SessionManager) FlashSession(ctx context.Context, sessionID, kind, message string) {
	if sessionID == "" {
		return
	}
	if err := m.store.PushFlash(ctx, sessionID, kind, message); err != nil {
		m.logger.Warn("Failed to queue flash", zap.Error(err))
	}
}

// PopFlashes drains the session's flash queue for rendering.
func (m *SessionManager) PopFlashes(r *http.Request) []session.Flash {
	sessionID := SessionIDFromContext(r.Context())
	if sessionID == "" {
		return nil
	}
	flashes, err := m.store.PopFlashes(r.Context(), sessionID)
	if err != nil {
		m.logger.Warn("Failed to read flashes", zap.Error(err))
		return nil
	}
	return flashes
}

// PopReturnTo returns the remembered post-login URL, or fallback.
func (m *SessionManager) PopReturnTo(r *http.Request, fallback string) string {
	sessionID := SessionIDFromContext(r.Context())
	if sessionID == "" {
		return fallback
	}
	url, err := m.store.PopReturnTo(r.Context(), sessionID)
	if err != nil {
		m.logger.Warn("Failed to read return url", zap.Error(err))
		return fallback
	}
	if url == "" || !strings.HasPrefix(url, "/") {
		return fallback
	}
	return url
}

// Revoke terminates the request's session server-side.
func (m *SessionManager) Revoke(r *http.Request) error {
	sessionID := SessionIDFromContext(r.Context())
	if sessionID == "" {
		return nil
	}
	return m.store.Revoke(r.Context(), sessionID)
}

// SessionIDFromContext returns the request's session id.
func SessionIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(SessionIDCtxKey).(string)
	return id
}

// UserIDFromContext returns the authenticated user id, "" when anonymous.
func UserIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(UserIDCtxKey).(string)
	return id
}

// CurrentUserFromContext returns the loaded user, nil when anonymous.
func CurrentUserFromContext(ctx context.Context) *domain.User {
	user, _ := ctx.Value(CurrentUserCtxKey).(*domain.User)
	return user
}

// MethodOverride lets HTML forms express PUT and DELETE through a POST
// with a _method value, read from the query string or an urlencoded body.
func MethodOverride(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			override := r.URL.Query().Get("_method")
			if override == "" && strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
				if err := r.ParseForm(); err == nil {
					override = r.PostForm.Get("_method")
				}
			}
			switch strings.ToUpper(override) {
			case http.MethodPut, http.MethodPatch, http.MethodDelete:
				r.Method = strings.ToUpper(override)
			}
		}
		next.ServeHTTP(w, r)
	})
}

// Metrics records per-route latency and error counts.
func Metrics(m *metrics.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			route := chi.RouteContext(r.Context()).RoutePattern()
			if route == "" {
				route = "unmatched"
			}
			m.HTTPRequestLatency.WithLabelValues(route).Observe(time.Since(start).Seconds())
			switch {
			case ww.Status() >= 500:
				m.HTTPErrorsTotal.WithLabelValues(route, "5xx").Inc()
			case ww.Status() >= 400:
				m.HTTPErrorsTotal.WithLabelValues(route, "4xx").Inc()
			}
		})
	}
}
