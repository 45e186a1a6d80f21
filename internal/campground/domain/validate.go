package domain

import (
	"strings"
)

// CampgroundInput is the submitted field set for creating or editing a
// campground. Image presence is enforced by the upload layer, not here.
type CampgroundInput struct {
	Title       string
	Description string
	Price       float64
	PriceSet    bool
	Location    string
}

// ReviewInput is the submitted field set for creating a review.
type ReviewInput struct {
	Rating int32
	Body   string
}

// ValidateCampground checks a campground payload against the structural
// rules. It is a pure function: the returned slice of human-readable
// messages is empty exactly when the payload is valid, and no persistence
// is ever attempted on a non-empty result.
func ValidateCampground(in CampgroundInput) []string {
	var msgs []string
	if strings.TrimSpace(in.Title) == "" {
		msgs = append(msgs, `"title" is not allowed to be empty`)
	}
	if !in.PriceSet {
		msgs = append(msgs, `"price" is required`)
	} else if in.Price < 0 {
		msgs = append(msgs, `"price" must be greater than or equal to 0`)
	}
	if strings.TrimSpace(in.Location) == "" {
		msgs = append(msgs, `"location" is not allowed to be empty`)
	}
	if strings.TrimSpace(in.Description) == "" {
		msgs = append(msgs, `"description" is not allowed to be empty`)
	}
	return msgs
}

// ValidateReview checks a review payload: a non-empty body and an integer
// rating within [1, 5].
func ValidateReview(in ReviewInput) []string {
	var msgs []string
	if in.Rating < 1 || in.Rating > 5 {
		msgs = append(msgs, `"rating" must be between 1 and 5`)
	}
	if strings.TrimSpace(in.Body) == "" {
		msgs = append(msgs, `"body" is not allowed to be empty`)
	}
	return msgs
}
