package usecase

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/andrew-widjaja/yelp-camp/internal/campground/domain"
	"github.com/andrew-widjaja/yelp-camp/internal/platform/logger"
)

// ReviewUsecase implements review creation and owner-only deletion,
// keeping a campground's review set consistent with the reviews that
// actually exist.
type ReviewUsecase struct {
	repo   domain.ReviewRepository
	events EventPublisher
	logger *logger.Logger
}

func NewReviewUsecase(repo domain.ReviewRepository, events EventPublisher, log *logger.Logger) *ReviewUsecase {
	return &ReviewUsecase{
		repo:   repo,
		events: events,
		logger: log.Named("ReviewUsecase"),
	}
}

// CreateReview validates the payload and attaches a new review, authored
// by authorID, to the campground. Persisting the review and registering
// it on the campground happen as one unit.
func (uc *ReviewUsecase) CreateReview(ctx context.Context, campgroundID, authorID string, in domain.ReviewInput) (*domain.Review, error) {
	if authorID == "" {
		return nil, domain.ErrUnauthenticated
	}
	if msgs := domain.ValidateReview(in); len(msgs) > 0 {
		return nil, &domain.ValidationError{Messages: msgs}
	}

	r := &domain.Review{
		Rating:   in.Rating,
		Body:     in.Body,
		AuthorID: authorID,
	}
	if err := uc.repo.CreateForCampground(ctx, campgroundID, r); err != nil {
		return nil, err
	}

	uc.publish(ctx, "review.created", map[string]interface{}{
		"review_id":     r.ID,
		"campground_id": campgroundID,
		"author_id":     authorID,
		"rating":        r.Rating,
		"created_at":    r.CreatedAt.Format(time.RFC3339Nano),
	})

	uc.logger.Info("Review created",
		zap.String("review_id", r.ID),
		zap.String("campground_id", campgroundID))
	return r, nil
}

// DeleteReview removes a review its author no longer wants, detaching it
// from the campground and deleting it as one unit. The review must belong
// to the campground named in the request.
func (uc *ReviewUsecase) DeleteReview(ctx context.Context, campgroundID, reviewID, userID string) error {
	if userID == "" {
		return domain.ErrUnauthenticated
	}

	r, err := uc.repo.GetByID(ctx, reviewID)
	if err != nil {
		return err
	}
	if r.CampgroundID != campgroundID {
		return fmt.Errorf("%w: review %s does not belong to campground %s", domain.ErrNotFound, reviewID, campgroundID)
	}
	if !domain.CanMutateReview(userID, r) {
		uc.logger.Warn("Forbidden review delete",
			zap.String("review_id", reviewID),
			zap.String("owner_id", r.AuthorID),
			zap.String("user_id", userID))
		return domain.ErrForbidden
	}

	if err := uc.repo.DeleteForCampground(ctx, campgroundID, reviewID); err != nil {
		return err
	}

	uc.publish(ctx, "review.deleted", map[string]interface{}{
		"review_id":     reviewID,
		"campground_id": campgroundID,
		"author_id":     r.AuthorID,
		"deleted_at":    time.Now().UTC().Format(time.RFC3339Nano),
	})

	uc.logger.Info("Review deleted",
		zap.String("review_id", reviewID),
		zap.String("campground_id", campgroundID))
	return nil
}

func (uc *ReviewUsecase) publish(ctx context.Context, subject string, data map[string]interface{}) {
	if uc.events == nil {
		return
	}
	if err := uc.events.Publish(ctx, subject, data); err != nil {
		uc.logger.Warn("Failed to publish event", zap.String("subject", subject), zap.Error(err))
	}
}
