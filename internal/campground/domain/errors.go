package domain

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound indicates that a requested entity was not found.
	ErrNotFound = errors.New("entity not found")
	// ErrForbidden indicates that the user is not authorized to perform the action.
	ErrForbidden = errors.New("action forbidden")
	// ErrUnauthenticated indicates that the request carries no authenticated identity.
	ErrUnauthenticated = errors.New("must be signed in")
	// ErrInvalidInput indicates that the provided input data is invalid.
	ErrInvalidInput = errors.New("invalid input data")
	// ErrInvalidCredentials indicates a failed username/password check.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrUserAlreadyExists indicates a registration with a taken email or username.
	ErrUserAlreadyExists = errors.New("a user with that email or username already exists")
	// ErrUpstream indicates a failure in an external collaborator
	// (geocoder, blob store, mail).
	ErrUpstream = errors.New("upstream dependency error")
	// ErrIntegrity indicates that a cascade or review-set mutation could not
	// be completed as a whole. It is always surfaced, never swallowed.
	ErrIntegrity = errors.New("integrity violation")
	// ErrRepository indicates a generic data persistence error.
	ErrRepository = errors.New("repository error")
)

// ValidationError carries the ordered, human-readable field error messages
// produced by payload validation. It unwraps to ErrInvalidInput so callers
// can match it with errors.Is.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, ",")
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}
