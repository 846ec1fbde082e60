package validator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type batchRequest struct {
	IDs   []string `json:"ids" validate:"required,max=2"`
	Email string   `json:"email,omitempty" validate:"omitempty,email"`
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		input   batchRequest
		field   string
		message string
	}{
		{name: "valid", input: batchRequest{IDs: []string{"a"}}},
		{name: "missing ids", input: batchRequest{}, field: "ids", message: "is required"},
		{name: "too many ids", input: batchRequest{IDs: []string{"a", "b", "c"}}, field: "ids", message: "must contain at most 2 items"},
		{name: "bad email", input: batchRequest{IDs: []string{"a"}, Email: "nope"}, field: "email", message: "must be a valid email address"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.input)
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.True(t, IsValidationError(err))

			var verrs ValidationErrors
			require.True(t, errors.As(err, &verrs))
			require.Len(t, verrs, 1)
			assert.Equal(t, tt.field, verrs[0].Field)
			assert.Equal(t, tt.message, verrs[0].Message)
		})
	}
}

func TestValidationErrors_Error(t *testing.T) {
	err := ValidationErrors{
		{Field: "ids", Message: "is required"},
		{Field: "email", Message: "must be a valid email address"},
	}
	assert.Equal(t, "ids: is required; email: must be a valid email address", err.Error())
	assert.False(t, IsValidationError(errors.New("other")))
}
