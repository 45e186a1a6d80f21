package domain

// CanMutateCampground reports whether the acting identity owns the
// campground. The identity must already be authenticated; anonymous
// requests are rejected upstream before ownership is evaluated.
func CanMutateCampground(userID string, c *Campground) bool {
	return c != nil && userID != "" && c.AuthorID == userID
}

// CanMutateReview reports whether the acting identity owns the review.
func CanMutateReview(userID string, r *Review) bool {
	return r != nil && userID != "" && r.AuthorID == userID
}
