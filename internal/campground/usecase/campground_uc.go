package usecase

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/andrew-widjaja/yelp-camp/internal/campground/domain"
	"github.com/andrew-widjaja/yelp-camp/internal/platform/logger"
)

// Geocoder resolves a free-text location to a single geographic point
// (the first result).
type Geocoder interface {
	Forward(ctx context.Context, query string) (domain.GeoPoint, error)
}

// BlobStorage stores uploaded images and returns stable {url, filename}
// pairs; Destroy removes an image by its filename.
type BlobStorage interface {
	Store(ctx context.Context, filename string, data []byte) (domain.Image, error)
	Destroy(ctx context.Context, filename string) error
}

// EventPublisher emits application events. Publish failures are
// non-critical for every use case in this package: the event is logged
// and dropped.
type EventPublisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
}

// Upload is one file received by the HTTP layer.
type Upload struct {
	Filename string
	Data     []byte
}

// CampgroundUsecase implements the campground lifecycle: validated
// creation with geocoding and image attachment, display resolution,
// owner-only updates, and owner-only cascading deletion.
type CampgroundUsecase struct {
	repo       domain.CampgroundRepository
	reviewRepo domain.ReviewRepository
	userRepo   domain.UserRepository
	geocoder   Geocoder
	storage    BlobStorage
	events     EventPublisher
	logger     *logger.Logger
}

func NewCampgroundUsecase(
	repo domain.CampgroundRepository,
	reviewRepo domain.ReviewRepository,
	userRepo domain.UserRepository,
	geocoder Geocoder,
	storage BlobStorage,
	events EventPublisher,
	log *logger.Logger,
) *CampgroundUsecase {
	return &CampgroundUsecase{
		repo:       repo,
		reviewRepo: reviewRepo,
		userRepo:   userRepo,
		geocoder:   geocoder,
		storage:    storage,
		events:     events,
		logger:     log.Named("CampgroundUsecase"),
	}
}

// CreateCampground validates the payload, geocodes the location, stores
// the uploads and persists the campground owned by authorID. Geocoding
// happens only here; the resulting point is immutable afterwards.
func (uc *CampgroundUsecase) CreateCampground(ctx context.Context, authorID string, in domain.CampgroundInput, uploads []Upload) (*domain.Campground, error) {
	if authorID == "" {
		return nil, domain.ErrUnauthenticated
	}
	if msgs := domain.ValidateCampground(in); len(msgs) > 0 {
		return nil, &domain.ValidationError{Messages: msgs}
	}

	uc.logger.Info("Creating campground",
		zap.String("author_id", authorID),
		zap.String("title", in.Title))

	point, err := uc.geocoder.Forward(ctx, in.Location)
	if err != nil {
		uc.logger.Error("Geocoding failed", zap.Error(err), zap.String("location", in.Location))
		return nil, err
	}

	images := make([]domain.Image, 0, len(uploads))
	for _, upload := range uploads {
		img, err := uc.storage.Store(ctx, upload.Filename, upload.Data)
		if err != nil {
			uc.logger.Error("Image upload failed", zap.Error(err), zap.String("filename", upload.Filename))
			return nil, err
		}
		images = append(images, img)
	}

	c := &domain.Campground{
		Title:       in.Title,
		Description: in.Description,
		Price:       in.Price,
		Location:    in.Location,
		Geometry:    point,
		Images:      images,
		AuthorID:    authorID,
		ReviewIDs:   []string{},
	}
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, err
	}

	uc.publish(ctx, "campground.created", map[string]interface{}{
		"campground_id": c.ID,
		"author_id":     c.AuthorID,
		"title":         c.Title,
		"created_at":    c.CreatedAt.Format(time.RFC3339Nano),
	})

	uc.logger.Info("Campground created", zap.String("campground_id", c.ID))
	return c, nil
}

// GetCampground fetches a campground resolved for display: its author and
// its full review set, each review with its own author.
func (uc *CampgroundUsecase) GetCampground(ctx context.Context, id string) (*domain.CampgroundDetails, error) {
	c, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	author, err := uc.userRepo.GetByID(ctx, c.AuthorID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	reviews, err := uc.reviewRepo.FindByIDs(ctx, c.ReviewIDs)
	if err != nil {
		return nil, err
	}

	authorIDs := make([]string, 0, len(reviews))
	seen := make(map[string]bool, len(reviews))
	for _, r := range reviews {
		if !seen[r.AuthorID] {
			seen[r.AuthorID] = true
			authorIDs = append(authorIDs, r.AuthorID)
		}
	}
	reviewAuthors, err := uc.userRepo.GetByIDs(ctx, authorIDs)
	if err != nil {
		return nil, err
	}

	resolved := make([]domain.ReviewWithAuthor, 0, len(reviews))
	for _, r := range reviews {
		resolved = append(resolved, domain.ReviewWithAuthor{
			Review: r,
			Author: reviewAuthors[r.AuthorID],
		})
	}

	return &domain.CampgroundDetails{
		Campground: c,
		Author:     author,
		Reviews:    resolved,
	}, nil
}

// ListCampgrounds returns every campground for the index page.
func (uc *CampgroundUsecase) ListCampgrounds(ctx context.Context) ([]*domain.Campground, error) {
	return uc.repo.FindAll(ctx)
}

// UpdateCampground merges scalar fields, appends newly uploaded images and
// removes images listed in deleteFilenames (from the blob store first,
// then from the sequence). The geographic point is never re-derived here,
// even when the location text changes.
func (uc *CampgroundUsecase) UpdateCampground(ctx context.Context, id, userID string, in domain.CampgroundInput, uploads []Upload, deleteFilenames []string) (*domain.Campground, error) {
	if userID == "" {
		return nil, domain.ErrUnauthenticated
	}

	c, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domain.CanMutateCampground(userID, c) {
		uc.logger.Warn("Forbidden campground update",
			zap.String("campground_id", id),
			zap.String("owner_id", c.AuthorID),
			zap.String("user_id", userID))
		return nil, domain.ErrForbidden
	}

	if msgs := domain.ValidateCampground(in); len(msgs) > 0 {
		return nil, &domain.ValidationError{Messages: msgs}
	}

	c.Title = in.Title
	c.Description = in.Description
	c.Price = in.Price
	c.Location = in.Location

	for _, upload := range uploads {
		img, err := uc.storage.Store(ctx, upload.Filename, upload.Data)
		if err != nil {
			uc.logger.Error("Image upload failed", zap.Error(err), zap.String("filename", upload.Filename))
			return nil, err
		}
		c.Images = append(c.Images, img)
	}

	if len(deleteFilenames) > 0 {
		doomed := make(map[string]bool, len(deleteFilenames))
		for _, filename := range deleteFilenames {
			if err := uc.storage.Destroy(ctx, filename); err != nil {
				uc.logger.Error("Image removal failed", zap.Error(err), zap.String("filename", filename))
				return nil, err
			}
			doomed[filename] = true
		}
		kept := c.Images[:0]
		for _, img := range c.Images {
			if !doomed[img.Filename] {
				kept = append(kept, img)
			}
		}
		c.Images = kept
	}

	if err := uc.repo.Update(ctx, c); err != nil {
		return nil, err
	}

	uc.publish(ctx, "campground.updated", map[string]interface{}{
		"campground_id": c.ID,
		"author_id":     c.AuthorID,
		"updated_at":    c.UpdatedAt.Format(time.RFC3339Nano),
	})

	uc.logger.Info("Campground updated", zap.String("campground_id", c.ID))
	return c, nil
}

// DeleteCampground deletes the campground and cascades to its reviews as
// one unit, then cleans up its image blobs best-effort.
func (uc *CampgroundUsecase) DeleteCampground(ctx context.Context, id, userID string) error {
	if userID == "" {
		return domain.ErrUnauthenticated
	}

	c, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !domain.CanMutateCampground(userID, c) {
		uc.logger.Warn("Forbidden campground delete",
			zap.String("campground_id", id),
			zap.String("owner_id", c.AuthorID),
			zap.String("user_id", userID))
		return domain.ErrForbidden
	}

	if err := uc.repo.DeleteWithReviews(ctx, id); err != nil {
		return err
	}

	// Blob cleanup happens after the transactional delete; a stray object
	// in the bucket is preferable to a half-deleted campground.
	for _, img := range c.Images {
		if err := uc.storage.Destroy(ctx, img.Filename); err != nil {
			uc.logger.Warn("Failed to remove image blob after campground delete",
				zap.Error(err),
				zap.String("filename", img.Filename))
		}
	}

	uc.publish(ctx, "campground.deleted", map[string]interface{}{
		"campground_id": id,
		"author_id":     c.AuthorID,
		"review_count":  len(c.ReviewIDs),
		"deleted_at":    time.Now().UTC().Format(time.RFC3339Nano),
	})

	uc.logger.Info("Campground deleted",
		zap.String("campground_id", id),
		zap.Int("cascaded_reviews", len(c.ReviewIDs)))
	return nil
}

func (uc *CampgroundUsecase) publish(ctx context.Context, subject string, data map[string]interface{}) {
	if uc.events == nil {
		return
	}
	if err := uc.events.Publish(ctx, subject, data); err != nil {
		uc.logger.Warn("Failed to publish event", zap.String("subject", subject), zap.Error(err))
	}
}
