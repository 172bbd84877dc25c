package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationError(t *testing.T) {
	err := NewValidationError("test_field", "test message", "test_value")

	assert.Equal(t, "test_field", err.Field)
	assert.Equal(t, "test message", err.Message)
	assert.Equal(t, "test_value", err.Value)
	assert.Equal(t, "validation error on field 'test_field': test message", err.Error())
}

func TestValidationErrors(t *testing.T) {
	var errs ValidationErrors
	assert.Equal(t, "validation failed", errs.Error())

	errs = append(errs, *NewValidationError("field1", "message1", nil))
	assert.Equal(t, "validation failed: field1 message1", errs.Error())

	errs = append(errs, *NewValidationError("field2", "message2", nil))
	assert.Equal(t, "validation failed: 2 field errors", errs.Error())
}

func TestNewValidationErrorWithRule(t *testing.T) {
	err := NewValidationErrorWithRule("test_field", "test message", "required", "test_value")

	assert.Equal(t, "required", err.Rule)
	assert.Equal(t, "test_field", err.Field)
}

func TestSingleMatchesAsValidationErrors(t *testing.T) {
	wrapped := fmt.Errorf("create quiz: %w", Single("questions[0].points", "must be positive", "points", -1))

	var ve ValidationErrors
	require.True(t, errors.As(wrapped, &ve))
	require.Len(t, ve, 1)
	assert.Equal(t, "points", ve[0].Rule)
}

func TestToValidationErrors(t *testing.T) {
	type payload struct {
		Title    string `validate:"required"`
		Duration int    `validate:"gt=0"`
	}

	err := validator.New().Struct(payload{})
	require.Error(t, err)

	errs := ToValidationErrors(err)
	require.Len(t, errs, 2)
	assert.Equal(t, "is required", errs[0].Message)
	assert.Equal(t, "must be greater than 0", errs[1].Message)
	assert.Equal(t, "gt", errs[1].Rule)
}

func TestToValidationErrorsIgnoresOtherErrors(t *testing.T) {
	assert.Empty(t, ToValidationErrors(errors.New("boom")))
}
