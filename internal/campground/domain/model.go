package domain

import (
	"time"
)

// GeoPoint is the GeoJSON point derived from a campground's location text
// at creation time. It is never re-derived afterwards, even when the
// location text is edited.
type GeoPoint struct {
	Type        string
	Coordinates []float64 // [longitude, latitude]
}

// Image is one uploaded photo, as returned by the blob store.
type Image struct {
	URL      string
	Filename string
}

// Campground is the core listing entity. AuthorID is set once at creation
// and never reassigned. ReviewIDs keeps insertion order for display.
type Campground struct {
	ID          string
	Title       string
	Description string
	Price       float64
	Location    string
	Geometry    GeoPoint
	Images      []Image
	AuthorID    string
	ReviewIDs   []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Review is a rated comment scoped to exactly one campground. AuthorID is
// set once at creation and never reassigned. CampgroundID is a
// back-reference kept for integrity checks; the campground's ReviewIDs set
// is authoritative.
type Review struct {
	ID           string
	Rating       int32
	Body         string
	AuthorID     string
	CampgroundID string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// User is a registered identity. Password holds only the bcrypt hash.
type User struct {
	ID        string
	Username  string
	Email     string
	Password  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CampgroundDetails is a campground resolved for display: its author and
// its reviews, each review with its own author resolved.
type CampgroundDetails struct {
	Campground *Campground
	Author     *User
	Reviews    []ReviewWithAuthor
}

// ReviewWithAuthor pairs a review with its resolved author for display.
type ReviewWithAuthor struct {
	Review *Review
	Author *User
}
