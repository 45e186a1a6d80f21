package usecase

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/andrew-widjaja/yelp-camp/internal/campground/domain"
	"github.com/andrew-widjaja/yelp-camp/internal/platform/logger"
)

func newUserFixture() (*UserUsecase, *MockUserRepository, *MockWelcomeMailer, *MockEventPublisher) {
	repo := new(MockUserRepository)
	mailer := new(MockWelcomeMailer)
	events := new(MockEventPublisher)
	return NewUserUsecase(repo, mailer, events, logger.NewLogger()), repo, mailer, events
}

func TestUserUsecase_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		uc, repo, mailer, events := newUserFixture()

		repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).Return(nil).Once()
		mailer.On("SendWelcomeEmail", "ana@example.com", "ana").Return(nil).Once()
		events.On("Publish", mock.Anything, "user.registered", mock.Anything).Return(nil).Once()

		u, err := uc.Register(ctx, "ana", "ana@example.com", "hunter2")
		require.NoError(t, err)

		assert.Equal(t, "ana", u.Username)
		assert.NotEqual(t, "hunter2", u.Password, "password must be stored hashed")
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("hunter2")))
		mailer.AssertExpectations(t)
	})

	t.Run("DuplicateUser", func(t *testing.T) {
		uc, repo, mailer, _ := newUserFixture()

		repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).
			Return(domain.ErrUserAlreadyExists).Once()

		_, err := uc.Register(ctx, "ana", "ana@example.com", "hunter2")
		assert.ErrorIs(t, err, domain.ErrUserAlreadyExists)
		mailer.AssertNotCalled(t, "SendWelcomeEmail", mock.Anything, mock.Anything)
	})

	t.Run("InvalidInput", func(t *testing.T) {
		uc, repo, _, _ := newUserFixture()

		_, err := uc.Register(ctx, "", "not-an-email", "")
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("MailFailureDoesNotFailRegistration", func(t *testing.T) {
		uc, repo, mailer, events := newUserFixture()

		repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).Return(nil).Once()
		mailer.On("SendWelcomeEmail", "ana@example.com", "ana").
			Return(fmt.Errorf("smtp unreachable")).Once()
		events.On("Publish", mock.Anything, "user.registered", mock.Anything).Return(nil).Once()

		_, err := uc.Register(ctx, "ana", "ana@example.com", "hunter2")
		assert.NoError(t, err)
	})
}

func TestUserUsecase_Login(t *testing.T) {
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	require.NoError(t, err)
	stored := &domain.User{ID: "u1", Username: "ana", Email: "ana@example.com", Password: string(hash)}

	t.Run("Success", func(t *testing.T) {
		uc, repo, _, _ := newUserFixture()

		repo.On("GetByLogin", mock.Anything, "ana").Return(stored, nil).Once()

		u, err := uc.Login(ctx, "ana", "hunter2")
		require.NoError(t, err)
		assert.Equal(t, "u1", u.ID)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		uc, repo, _, _ := newUserFixture()

		repo.On("GetByLogin", mock.Anything, "ana").Return(stored, nil).Once()

		_, err := uc.Login(ctx, "ana", "wrong")
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("UnknownUser", func(t *testing.T) {
		uc, repo, _, _ := newUserFixture()

		repo.On("GetByLogin", mock.Anything, "ghost").Return(nil, domain.ErrNotFound).Once()

		_, err := uc.Login(ctx, "ghost", "hunter2")
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials,
			"unknown user and wrong password must be indistinguishable")
	})
}
