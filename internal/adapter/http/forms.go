package http

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/andrew-widjaja/yelp-camp/internal/campground/domain"
	"github.com/andrew-widjaja/yelp-camp/internal/campground/usecase"
)

// maxUploadBytes caps a single form submission, images included.
const maxUploadBytes = 32 << 20

func campgroundInputFromForm(r *http.Request) domain.CampgroundInput {
	in := domain.CampgroundInput{
		Title:       strings.TrimSpace(r.PostFormValue("campground[title]")),
		Description: strings.TrimSpace(r.PostFormValue("campground[description]")),
		Location:    strings.TrimSpace(r.PostFormValue("campground[location]")),
	}
	if raw := strings.TrimSpace(r.PostFormValue("campground[price]")); raw != "" {
		if price, err := strconv.ParseFloat(raw, 64); err == nil {
			in.Price = price
			in.PriceSet = true
		}
	}
	return in
}

func reviewInputFromForm(r *http.Request) domain.ReviewInput {
	in := domain.ReviewInput{
		Body: strings.TrimSpace(r.PostFormValue("review[body]")),
	}
	if rating, err := strconv.ParseInt(r.PostFormValue("review[rating]"), 10, 32); err == nil {
		in.Rating = int32(rating)
	}
	return in
}

func uploadsFromForm(r *http.Request, field string) ([]usecase.Upload, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	headers := r.MultipartForm.File[field]
	uploads := make([]usecase.Upload, 0, len(headers))
	for _, header := range headers {
		if header.Filename == "" || header.Size == 0 {
			continue
		}
		f, err := header.Open()
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, err
		}
		uploads = append(uploads, usecase.Upload{Filename: header.Filename, Data: data})
	}
	return uploads, nil
}
