package domain

import "context"

// CampgroundRepository defines persistence for campgrounds. Methods operate
// on the clean domain entity without knowledge of database structures.
type CampgroundRepository interface {
	Create(ctx context.Context, c *Campground) error
	FindByID(ctx context.Context, id string) (*Campground, error)
	FindAll(ctx context.Context) ([]*Campground, error)

	// Update replaces the campground's mutable fields (title, description,
	// price, location text, image sequence). Geometry and author are never
	// written by Update.
	Update(ctx context.Context, c *Campground) error

	// DeleteWithReviews deletes the campground and every review in its
	// review set as one transactional unit. A review must never outlive its
	// parent; partial completion is reported as an error.
	DeleteWithReviews(ctx context.Context, id string) error
}

// ReviewRepository defines persistence for reviews. Creation and deletion
// maintain the parent campground's review set in the same transactional
// unit as the review document itself.
type ReviewRepository interface {
	// CreateForCampground inserts the review and appends its id to the
	// parent campground's review set. A missing parent aborts with
	// ErrNotFound.
	CreateForCampground(ctx context.Context, campgroundID string, r *Review) error

	GetByID(ctx context.Context, id string) (*Review, error)

	// FindByIDs resolves reviews for display, preserving the order of ids.
	FindByIDs(ctx context.Context, ids []string) ([]*Review, error)

	// DeleteForCampground removes the review id from the parent's review
	// set and deletes the review document; both complete or neither does.
	DeleteForCampground(ctx context.Context, campgroundID, reviewID string) error
}

// UserRepository defines persistence for registered users.
type UserRepository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByLogin(ctx context.Context, login string) (*User, error)

	// GetByIDs resolves a set of users keyed by id, for display.
	GetByIDs(ctx context.Context, ids []string) (map[string]*User, error)
}
