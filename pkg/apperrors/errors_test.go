package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFieldError_Is(t *testing.T) {
	err := fmt.Errorf("create car: %w", NewFieldError("manufacturer", "Select a valid choice."))

	assert.ErrorIs(t, err, ErrValidationFailed)
	assert.NotErrorIs(t, err, ErrAlreadyExists)

	fe, ok := AsFieldError(err)
	if assert.True(t, ok) {
		assert.Equal(t, "manufacturer", fe.Field)
		assert.Equal(t, "manufacturer: Select a valid choice.", fe.Error())
	}
}

func TestConflictError_MatchesBoth(t *testing.T) {
	err := NewConflictError("username", "A user with that username already exists.")

	assert.ErrorIs(t, err, ErrAlreadyExists)
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestAsFieldError_Plain(t *testing.T) {
	_, ok := AsFieldError(errors.New("boom"))
	assert.False(t, ok)
}
