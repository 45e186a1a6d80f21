package mongodb

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/andrew-widjaja/yelp-camp/internal/campground/domain"
)

// Database document shapes and converters. The domain entities carry no
// bson tags; all mapping to MongoDB structures happens here.

type geoPointDocument struct {
	Type        string    `bson:"type"`
	Coordinates []float64 `bson:"coordinates"`
}

type imageDocument struct {
	URL      string `bson:"url"`
	Filename string `bson:"filename"`
}

type campgroundDocument struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty"`
	Title       string               `bson:"title"`
	Description string               `bson:"description"`
	Price       float64              `bson:"price"`
	Location    string               `bson:"location"`
	Geometry    geoPointDocument     `bson:"geometry"`
	Images      []imageDocument      `bson:"images"`
	AuthorID    primitive.ObjectID   `bson:"author"`
	Reviews     []primitive.ObjectID `bson:"reviews"`
	CreatedAt   time.Time            `bson:"created_at"`
	UpdatedAt   time.Time            `bson:"updated_at"`
}

type reviewDocument struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Rating       int32              `bson:"rating"`
	Body         string             `bson:"body"`
	AuthorID     primitive.ObjectID `bson:"author"`
	CampgroundID primitive.ObjectID `bson:"campground_id"`
	CreatedAt    time.Time          `bson:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at"`
}

type userDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Username  string             `bson:"username"`
	Email     string             `bson:"email"`
	Password  string             `bson:"password"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

func objectIDFromHex(kind, id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: invalid %s id %q", domain.ErrNotFound, kind, id)
	}
	return oid, nil
}

func objectIDsFromHex(kind string, ids []string) ([]primitive.ObjectID, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := objectIDFromHex(kind, id)
		if err != nil {
			return nil, err
		}
		oids = append(oids, oid)
	}
	return oids, nil
}

func fromDomainCampground(c *domain.Campground) (*campgroundDocument, error) {
	if c == nil {
		return nil, nil
	}

	var docID primitive.ObjectID
	if c.ID != "" {
		var err error
		docID, err = primitive.ObjectIDFromHex(c.ID)
		if err != nil {
			return nil, fmt.Errorf("fromDomainCampground: invalid id %q: %w", c.ID, err)
		}
	}

	authorID, err := primitive.ObjectIDFromHex(c.AuthorID)
	if err != nil {
		return nil, fmt.Errorf("fromDomainCampground: invalid author id %q: %w", c.AuthorID, err)
	}

	reviews, err := objectIDsFromHex("review", c.ReviewIDs)
	if err != nil {
		return nil, err
	}

	images := make([]imageDocument, 0, len(c.Images))
	for _, img := range c.Images {
		images = append(images, imageDocument{URL: img.URL, Filename: img.Filename})
	}

	return &campgroundDocument{
		ID:          docID,
		Title:       c.Title,
		Description: c.Description,
		Price:       c.Price,
		Location:    c.Location,
		Geometry: geoPointDocument{
			Type:        c.Geometry.Type,
			Coordinates: c.Geometry.Coordinates,
		},
		Images:    images,
		AuthorID:  authorID,
		Reviews:   reviews,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}, nil
}

func (d *campgroundDocument) toDomain() *domain.Campground {
	if d == nil {
		return nil
	}

	images := make([]domain.Image, 0, len(d.Images))
	for _, img := range d.Images {
		images = append(images, domain.Image{URL: img.URL, Filename: img.Filename})
	}

	reviewIDs := make([]string, 0, len(d.Reviews))
	for _, rid := range d.Reviews {
		reviewIDs = append(reviewIDs, rid.Hex())
	}

	return &domain.Campground{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Description: d.Description,
		Price:       d.Price,
		Location:    d.Location,
		Geometry: domain.GeoPoint{
			Type:        d.Geometry.Type,
			Coordinates: d.Geometry.Coordinates,
		},
		Images:    images,
		AuthorID:  d.AuthorID.Hex(),
		ReviewIDs: reviewIDs,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func fromDomainReview(r *domain.Review) (*reviewDocument, error) {
	if r == nil {
		return nil, nil
	}

	var docID primitive.ObjectID
	if r.ID != "" {
		var err error
		docID, err = primitive.ObjectIDFromHex(r.ID)
		if err != nil {
			return nil, fmt.Errorf("fromDomainReview: invalid id %q: %w", r.ID, err)
		}
	}

	authorID, err := primitive.ObjectIDFromHex(r.AuthorID)
	if err != nil {
		return nil, fmt.Errorf("fromDomainReview: invalid author id %q: %w", r.AuthorID, err)
	}

	var campgroundID primitive.ObjectID
	if r.CampgroundID != "" {
		campgroundID, err = primitive.ObjectIDFromHex(r.CampgroundID)
		if err != nil {
			return nil, fmt.Errorf("fromDomainReview: invalid campground id %q: %w", r.CampgroundID, err)
		}
	}

	return &reviewDocument{
		ID:           docID,
		Rating:       r.Rating,
		Body:         r.Body,
		AuthorID:     authorID,
		CampgroundID: campgroundID,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}, nil
}

func (d *reviewDocument) toDomain() *domain.Review {
	if d == nil {
		return nil
	}
	return &domain.Review{
		ID:           d.ID.Hex(),
		Rating:       d.Rating,
		Body:         d.Body,
		AuthorID:     d.AuthorID.Hex(),
		CampgroundID: d.CampgroundID.Hex(),
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

func fromDomainUser(u *domain.User) (*userDocument, error) {
	if u == nil {
		return nil, nil
	}

	var docID primitive.ObjectID
	if u.ID != "" {
		var err error
		docID, err = primitive.ObjectIDFromHex(u.ID)
		if err != nil {
			return nil, fmt.Errorf("fromDomainUser: invalid id %q: %w", u.ID, err)
		}
	}

	return &userDocument{
		ID:        docID,
		Username:  u.Username,
		Email:     u.Email,
		Password:  u.Password,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}, nil
}

func (d *userDocument) toDomain() *domain.User {
	if d == nil {
		return nil
	}
	return &domain.User{
		ID:        d.ID.Hex(),
		Username:  d.Username,
		Email:     d.Email,
		Password:  d.Password,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}
