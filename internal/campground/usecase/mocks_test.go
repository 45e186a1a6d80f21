package usecase

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/andrew-widjaja/yelp-camp/internal/campground/domain"
)

type MockCampgroundRepository struct{ mock.Mock }

func (m *MockCampgroundRepository) Create(ctx context.Context, c *domain.Campground) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}
func (m *MockCampgroundRepository) FindByID(ctx context.Context, id string) (*domain.Campground, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Campground), args.Error(1)
}
func (m *MockCampgroundRepository) FindAll(ctx context.Context) ([]*domain.Campground, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Campground), args.Error(1)
}
func (m *MockCampgroundRepository) Update(ctx context.Context, c *domain.Campground) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}
func (m *MockCampgroundRepository) DeleteWithReviews(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockReviewRepository struct{ mock.Mock }

func (m *MockReviewRepository) CreateForCampground(ctx context.Context, campgroundID string, r *domain.Review) error {
	args := m.Called(ctx, campgroundID, r)
	return args.Error(0)
}
func (m *MockReviewRepository) GetByID(ctx context.Context, id string) (*domain.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Review), args.Error(1)
}
func (m *MockReviewRepository) FindByIDs(ctx context.Context, ids []string) ([]*domain.Review, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Review), args.Error(1)
}
func (m *MockReviewRepository) DeleteForCampground(ctx context.Context, campgroundID, reviewID string) error {
	args := m.Called(ctx, campgroundID, reviewID)
	return args.Error(0)
}

type MockUserRepository struct{ mock.Mock }

func (m *MockUserRepository) Create(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}
func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepository) GetByLogin(ctx context.Context, login string) (*domain.User, error) {
	args := m.Called(ctx, login)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepository) GetByIDs(ctx context.Context, ids []string) (map[string]*domain.User, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]*domain.User), args.Error(1)
}

type MockGeocoder struct{ mock.Mock }

func (m *MockGeocoder) Forward(ctx context.Context, query string) (domain.GeoPoint, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(domain.GeoPoint), args.Error(1)
}

type MockBlobStorage struct{ mock.Mock }

func (m *MockBlobStorage) Store(ctx context.Context, filename string, data []byte) (domain.Image, error) {
	args := m.Called(ctx, filename, data)
	return args.Get(0).(domain.Image), args.Error(1)
}
func (m *MockBlobStorage) Destroy(ctx context.Context, filename string) error {
	args := m.Called(ctx, filename)
	return args.Error(0)
}

type MockEventPublisher struct{ mock.Mock }

func (m *MockEventPublisher) Publish(ctx context.Context, subject string, data interface{}) error {
	args := m.Called(ctx, subject, data)
	return args.Error(0)
}

type MockWelcomeMailer struct{ mock.Mock }

func (m *MockWelcomeMailer) SendWelcomeEmail(toEmail, username string) error {
	args := m.Called(toEmail, username)
	return args.Error(0)
}
