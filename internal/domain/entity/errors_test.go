package entity

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationError_Error(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		message  string
		expected string
	}{
		{
			name:     "required field error",
			field:    "image_name",
			message:  "image name is required",
			expected: "validation error on field 'image_name': image name is required",
		},
		{
			name:     "empty field name",
			field:    "",
			message:  "test message",
			expected: "validation error on field '': test message",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := &ValidationError{Field: tt.field, Message: tt.message}
			assert.Equal(t, tt.expected, err.Error())
		})
	}
}

func TestValidationError_IsValidationFailed(t *testing.T) {
	var err error = &ValidationError{Field: "image_name", Message: "bad"}

	assert.True(t, errors.Is(err, ErrValidationFailed))
	assert.False(t, errors.Is(err, ErrNotFound))

	var vErr *ValidationError
	assert.True(t, errors.As(err, &vErr))
	assert.Equal(t, "image_name", vErr.Field)
}

func TestSentinelErrors_Distinct(t *testing.T) {
	assert.NotEqual(t, ErrNotFound, ErrInvalidInput)
	assert.NotEqual(t, ErrInvalidInput, ErrValidationFailed)
	assert.Equal(t, "entity not found", ErrNotFound.Error())
}
