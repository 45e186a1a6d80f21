package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/andrew-widjaja/yelp-camp/internal/campground/domain"
	"github.com/andrew-widjaja/yelp-camp/internal/platform/logger"
)

func newReviewFixture() (*ReviewUsecase, *MockReviewRepository, *MockEventPublisher) {
	repo := new(MockReviewRepository)
	events := new(MockEventPublisher)
	return NewReviewUsecase(repo, events, logger.NewLogger()), repo, events
}

func TestReviewUsecase_CreateReview(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		uc, repo, events := newReviewFixture()

		repo.On("CreateForCampground", mock.Anything, "c1", mock.AnythingOfType("*domain.Review")).Return(nil).Once()
		events.On("Publish", mock.Anything, "review.created", mock.Anything).Return(nil).Once()

		r, err := uc.CreateReview(ctx, "c1", "u1", domain.ReviewInput{Rating: 4, Body: "Lovely views."})
		require.NoError(t, err)

		assert.Equal(t, "u1", r.AuthorID)
		assert.Equal(t, int32(4), r.Rating)
		repo.AssertExpectations(t)
	})

	t.Run("RatingOutOfRange", func(t *testing.T) {
		uc, repo, _ := newReviewFixture()

		_, err := uc.CreateReview(ctx, "c1", "u1", domain.ReviewInput{Rating: 6, Body: "Too good."})
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)

		var vErr *domain.ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Contains(t, vErr.Messages, `"rating" must be between 1 and 5`)

		repo.AssertNotCalled(t, "CreateForCampground", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("AnonymousCaller", func(t *testing.T) {
		uc, repo, _ := newReviewFixture()

		_, err := uc.CreateReview(ctx, "c1", "", domain.ReviewInput{Rating: 4, Body: "Nice."})
		assert.ErrorIs(t, err, domain.ErrUnauthenticated)
		repo.AssertNotCalled(t, "CreateForCampground", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("MissingCampground", func(t *testing.T) {
		uc, repo, _ := newReviewFixture()

		repo.On("CreateForCampground", mock.Anything, "ghost", mock.AnythingOfType("*domain.Review")).
			Return(domain.ErrNotFound).Once()

		_, err := uc.CreateReview(ctx, "ghost", "u1", domain.ReviewInput{Rating: 4, Body: "Nice."})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestReviewUsecase_DeleteReview(t *testing.T) {
	ctx := context.Background()
	review := &domain.Review{ID: "r1", AuthorID: "owner", CampgroundID: "c1"}

	t.Run("Success", func(t *testing.T) {
		uc, repo, events := newReviewFixture()

		repo.On("GetByID", mock.Anything, "r1").Return(review, nil).Once()
		repo.On("DeleteForCampground", mock.Anything, "c1", "r1").Return(nil).Once()
		events.On("Publish", mock.Anything, "review.deleted", mock.Anything).Return(nil).Once()

		require.NoError(t, uc.DeleteReview(ctx, "c1", "r1", "owner"))
		repo.AssertExpectations(t)
	})

	t.Run("NonAuthorForbidden", func(t *testing.T) {
		uc, repo, _ := newReviewFixture()

		repo.On("GetByID", mock.Anything, "r1").Return(review, nil).Once()

		err := uc.DeleteReview(ctx, "c1", "r1", "intruder")
		assert.ErrorIs(t, err, domain.ErrForbidden)
		repo.AssertNotCalled(t, "DeleteForCampground", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("WrongCampground", func(t *testing.T) {
		uc, repo, _ := newReviewFixture()

		repo.On("GetByID", mock.Anything, "r1").Return(review, nil).Once()

		err := uc.DeleteReview(ctx, "other-campground", "r1", "owner")
		assert.ErrorIs(t, err, domain.ErrNotFound)
		repo.AssertNotCalled(t, "DeleteForCampground", mock.Anything, mock.Anything, mock.Anything)
	})
}
