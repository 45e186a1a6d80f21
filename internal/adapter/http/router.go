package http

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/andrew-widjaja/yelp-camp/internal/platform/metrics"
)

// NewRouter wires the full HTTP surface. Mutating routes sit behind the
// login gate; everything runs inside the session middleware so flashes
// work for anonymous visitors too.
func NewRouter(
	sessions *SessionManager,
	m *metrics.Manager,
	home *HomeHandler,
	campgrounds *CampgroundHandler,
	reviews *ReviewHandler,
	users *UserHandler,
) *chi.Mux {
	mux := chi.NewRouter()

	mux.Use(chimiddleware.RequestID)
	mux.Use(chimiddleware.RealIP)
	mux.Use(chimiddleware.Recoverer)
	mux.Use(MethodOverride)
	mux.Use(Metrics(m))
	mux.Use(sessions.Middleware)

	mux.Get("/", home.Home)

	mux.Get("/campgrounds", campgrounds.Index)
	mux.Get("/campgrounds/{campgroundID}", campgrounds.Show)

	mux.Group(func(r chi.Router) {
		r.Use(sessions.RequireLogin)

		r.Get("/campgrounds/new", campgrounds.New)
		r.Post("/campgrounds", campgrounds.Create)
		r.Get("/campgrounds/{campgroundID}/edit", campgrounds.Edit)
		r.Put("/campgrounds/{campgroundID}", campgrounds.Update)
		r.Delete("/campgrounds/{campgroundID}", campgrounds.Delete)

		r.Post("/campgrounds/{campgroundID}/reviews", reviews.Create)
		r.Delete("/campgrounds/{campgroundID}/reviews/{reviewID}", reviews.Delete)

		r.Post("/logout", users.Logout)
	})

	mux.Get("/register", users.RegisterForm)
	mux.Post("/register", users.Register)
	mux.Get("/login", users.LoginForm)
	mux.Post("/login", users.Login)

	mux.NotFound(home.NotFound)

	return mux
}
