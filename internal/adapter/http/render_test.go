package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrew-widjaja/yelp-camp/internal/campground/domain"
	"github.com/andrew-widjaja/yelp-camp/internal/platform/logger"
)

func TestRenderer(t *testing.T) {
	re, err := NewRenderer(logger.NewLogger())
	require.NoError(t, err, "every embedded template must parse at startup")

	campground := &domain.Campground{
		ID:          "c1",
		Title:       "Misty Canyon",
		Description: "A quiet spot by the river.",
		Price:       25,
		Location:    "Bend, Oregon",
		Geometry:    domain.GeoPoint{Type: "Point", Coordinates: []float64{-121.3153, 44.0582}},
		Images:      []domain.Image{{URL: "http://blobs/a.png", Filename: "campgrounds/a.png"}},
		AuthorID:    "u1",
	}

	t.Run("Home", func(t *testing.T) {
		rec := httptest.NewRecorder()
		re.Render(rec, http.StatusOK, "home", &Page{Title: "YelpCamp"})
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "YelpCamp")
	})

	t.Run("CampgroundIndex", func(t *testing.T) {
		rec := httptest.NewRecorder()
		re.Render(rec, http.StatusOK, "campgrounds/index", &Page{
			Title: "All Campgrounds",
			Data:  []*domain.Campground{campground},
		})
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Misty Canyon")
		assert.Contains(t, rec.Body.String(), "/campgrounds/c1")
	})

	t.Run("CampgroundShow", func(t *testing.T) {
		rec := httptest.NewRecorder()
		re.Render(rec, http.StatusOK, "campgrounds/show", &Page{
			Title:       campground.Title,
			MapboxToken: "token",
			CurrentUser: &domain.User{ID: "u1", Username: "ana"},
			Data: &domain.CampgroundDetails{
				Campground: campground,
				Author:     &domain.User{ID: "u1", Username: "ana"},
				Reviews: []domain.ReviewWithAuthor{
					{
						Review: &domain.Review{ID: "r1", Rating: 4, Body: "Lovely views.", AuthorID: "u2", CampgroundID: "c1"},
						Author: &domain.User{ID: "u2", Username: "bo"},
					},
				},
			},
		})
		assert.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, "Lovely views.")
		assert.Contains(t, body, "Submitted by ana")
		assert.Contains(t, body, "/campgrounds/c1/reviews", "review form posts to the nested route")
		assert.Contains(t, body, "_method=DELETE", "owner sees the delete form")
	})

	t.Run("HidesOwnerControlsFromOthers", func(t *testing.T) {
		rec := httptest.NewRecorder()
		re.Render(rec, http.StatusOK, "campgrounds/show", &Page{
			Title:       campground.Title,
			CurrentUser: &domain.User{ID: "someone-else", Username: "bo"},
			Data:        &domain.CampgroundDetails{Campground: campground},
		})
		assert.NotContains(t, rec.Body.String(), "/campgrounds/c1/edit")
	})

	t.Run("EscapesUserContent", func(t *testing.T) {
		hostile := *campground
		hostile.Title = `<script>alert("xss")</script>`
		rec := httptest.NewRecorder()
		re.Render(rec, http.StatusOK, "campgrounds/index", &Page{Data: []*domain.Campground{&hostile}})
		assert.NotContains(t, rec.Body.String(), `<script>alert`)
	})

	t.Run("ErrorPage", func(t *testing.T) {
		rec := httptest.NewRecorder()
		re.Render(rec, http.StatusBadRequest, "error", &Page{
			Title: "YelpCamp",
			Data:  errorPageData{Status: http.StatusBadRequest, Message: `"title" is not allowed to be empty`},
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "title")
	})

	t.Run("UnknownTemplate", func(t *testing.T) {
		rec := httptest.NewRecorder()
		re.Render(rec, http.StatusOK, "no/such/page", &Page{})
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}
