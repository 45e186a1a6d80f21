package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validCampgroundInput() CampgroundInput {
	return CampgroundInput{
		Title:       "Misty Canyon",
		Description: "A quiet spot by the river.",
		Price:       25,
		PriceSet:    true,
		Location:    "Bend, Oregon",
	}
}

func TestValidateCampground(t *testing.T) {
	t.Run("ValidInput", func(t *testing.T) {
		assert.Empty(t, ValidateCampground(validCampgroundInput()))
	})

	t.Run("ZeroPriceIsValid", func(t *testing.T) {
		in := validCampgroundInput()
		in.Price = 0
		assert.Empty(t, ValidateCampground(in))
	})

	t.Run("EmptyTitle", func(t *testing.T) {
		in := validCampgroundInput()
		in.Title = "   "
		msgs := ValidateCampground(in)
		assert.Equal(t, []string{`"title" is not allowed to be empty`}, msgs)
	})

	t.Run("NegativePrice", func(t *testing.T) {
		in := validCampgroundInput()
		in.Price = -1
		msgs := ValidateCampground(in)
		assert.Equal(t, []string{`"price" must be greater than or equal to 0`}, msgs)
	})

	t.Run("MissingPrice", func(t *testing.T) {
		in := validCampgroundInput()
		in.PriceSet = false
		msgs := ValidateCampground(in)
		assert.Equal(t, []string{`"price" is required`}, msgs)
	})

	t.Run("AllFieldsMissing", func(t *testing.T) {
		msgs := ValidateCampground(CampgroundInput{})
		assert.Equal(t, []string{
			`"title" is not allowed to be empty`,
			`"price" is required`,
			`"location" is not allowed to be empty`,
			`"description" is not allowed to be empty`,
		}, msgs)
	})
}

func TestValidateReview(t *testing.T) {
	t.Run("ValidInput", func(t *testing.T) {
		assert.Empty(t, ValidateReview(ReviewInput{Rating: 5, Body: "Great place!"}))
	})

	t.Run("RatingTooHigh", func(t *testing.T) {
		msgs := ValidateReview(ReviewInput{Rating: 6, Body: "Great place!"})
		assert.Equal(t, []string{`"rating" must be between 1 and 5`}, msgs)
	})

	t.Run("RatingTooLow", func(t *testing.T) {
		msgs := ValidateReview(ReviewInput{Rating: 0, Body: "Great place!"})
		assert.Equal(t, []string{`"rating" must be between 1 and 5`}, msgs)
	})

	t.Run("EmptyBody", func(t *testing.T) {
		msgs := ValidateReview(ReviewInput{Rating: 3, Body: " "})
		assert.Equal(t, []string{`"body" is not allowed to be empty`}, msgs)
	})

	t.Run("MessageOrderIsStable", func(t *testing.T) {
		msgs := ValidateReview(ReviewInput{})
		assert.Equal(t, []string{
			`"rating" must be between 1 and 5`,
			`"body" is not allowed to be empty`,
		}, msgs)
	})
}

func TestValidationError(t *testing.T) {
	err := &ValidationError{Messages: []string{"first", "second"}}
	assert.Equal(t, "first,second", err.Error())
	assert.ErrorIs(t, err, ErrInvalidInput)
}
