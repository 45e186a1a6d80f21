package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/andrew-widjaja/yelp-camp/internal/campground/domain"
	"github.com/andrew-widjaja/yelp-camp/internal/platform/logger"
)

// WelcomeMailer greets newly registered users. Failures are non-critical.
type WelcomeMailer interface {
	SendWelcomeEmail(toEmail, username string) error
}

// UserUsecase implements registration and credential verification.
// Passwords are stored as bcrypt hashes and never leave this package in
// plain form.
type UserUsecase struct {
	repo   domain.UserRepository
	mailer WelcomeMailer
	events EventPublisher
	logger *logger.Logger
}

func NewUserUsecase(repo domain.UserRepository, mailer WelcomeMailer, events EventPublisher, log *logger.Logger) *UserUsecase {
	return &UserUsecase{
		repo:   repo,
		mailer: mailer,
		events: events,
		logger: log.Named("UserUsecase"),
	}
}

// Register creates an account with a unique username and email. The
// welcome email is best-effort and never fails the registration.
func (uc *UserUsecase) Register(ctx context.Context, username, email, password string) (*domain.User, error) {
	if msgs := validateRegistration(username, email, password); len(msgs) > 0 {
		return nil, &domain.ValidationError{Messages: msgs}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		uc.logger.Error("Failed to hash password", zap.Error(err))
		return nil, err
	}

	u := &domain.User{
		Username: username,
		Email:    email,
		Password: string(hash),
	}
	if err := uc.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	if uc.mailer != nil {
		if err := uc.mailer.SendWelcomeEmail(u.Email, u.Username); err != nil {
			uc.logger.Warn("Failed to send welcome email",
				zap.String("user_id", u.ID),
				zap.Error(err))
		}
	}

	uc.publish(ctx, "user.registered", map[string]interface{}{
		"user_id":       u.ID,
		"username":      u.Username,
		"registered_at": u.CreatedAt.Format(time.RFC3339Nano),
	})

	uc.logger.Info("User registered", zap.String("user_id", u.ID), zap.String("username", u.Username))
	return u, nil
}

// Login verifies the credentials and returns the matching user. Unknown
// logins and wrong passwords are indistinguishable to the caller.
func (uc *UserUsecase) Login(ctx context.Context, login, password string) (*domain.User, error) {
	u, err := uc.repo.GetByLogin(ctx, login)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		uc.logger.Debug("Password mismatch", zap.String("user_id", u.ID))
		return nil, domain.ErrInvalidCredentials
	}

	uc.logger.Info("User logged in", zap.String("user_id", u.ID))
	return u, nil
}

func validateRegistration(username, email, password string) []string {
	var msgs []string
	if strings.TrimSpace(username) == "" {
		msgs = append(msgs, `"username" is not allowed to be empty`)
	}
	if strings.TrimSpace(email) == "" {
		msgs = append(msgs, `"email" is not allowed to be empty`)
	} else if !strings.Contains(email, "@") {
		msgs = append(msgs, `"email" must be a valid email`)
	}
	if password == "" {
		msgs = append(msgs, `"password" is not allowed to be empty`)
	}
	return msgs
}

func (uc *UserUsecase) publish(ctx context.Context, subject string, data map[string]interface{}) {
	if uc.events == nil {
		return
	}
	if err := uc.events.Publish(ctx, subject, data); err != nil {
		uc.logger.Warn("Failed to publish event", zap.String("subject", subject), zap.Error(err))
	}
}
