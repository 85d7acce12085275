package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// signupForm mirrors the shape of the API's request structs.
type signupForm struct {
	Email    string `validate:"required,email"`
	Name     string `validate:"required,min=1,max=255"`
	Password string `validate:"required,min=8"`
}

type verifyForm struct {
	Email string `validate:"required,email"`
	Code  string `validate:"required,len=6"`
}

func TestValidateStruct(t *testing.T) {
	t.Run("valid input passes", func(t *testing.T) {
		err := ValidateStruct(&signupForm{
			Email:    "ada@example.com",
			Name:     "Ada",
			Password: "hunter2secret",
		})
		assert.NoError(t, err)
	})

	t.Run("missing required field", func(t *testing.T) {
		err := ValidateStruct(&signupForm{
			Email:    "ada@example.com",
			Password: "hunter2secret",
		})
		require.Error(t, err)
		assert.True(t, IsValidationError(err))

		fields := GetValidationFields(err)
		assert.Equal(t, "Name is required", fields["Name"])
	})

	t.Run("malformed email", func(t *testing.T) {
		err := ValidateStruct(&signupForm{
			Email:    "not-an-email",
			Name:     "Ada",
			Password: "hunter2secret",
		})
		require.Error(t, err)

		fields := GetValidationFields(err)
		assert.Equal(t, "Email must be a valid email", fields["Email"])
	})

	t.Run("password below minimum length", func(t *testing.T) {
		err := ValidateStruct(&signupForm{
			Email:    "ada@example.com",
			Name:     "Ada",
			Password: "short",
		})
		require.Error(t, err)

		fields := GetValidationFields(err)
		assert.Equal(t, "Password must be at least 8", fields["Password"])
	})

	t.Run("verification code length", func(t *testing.T) {
		err := ValidateStruct(&verifyForm{
			Email: "ada@example.com",
			Code:  "1234",
		})
		require.Error(t, err)

		fields := GetValidationFields(err)
		assert.Equal(t, "Code must be exactly 6 characters", fields["Code"])
	})

	t.Run("multiple failures report every field", func(t *testing.T) {
		err := ValidateStruct(&signupForm{Password: "short"})
		require.Error(t, err)

		validationErr, ok := err.(*ValidationError)
		require.True(t, ok)

		assert.Equal(t, "Validation failed", validationErr.Message)
		assert.Contains(t, validationErr.Fields, "Email")
		assert.Contains(t, validationErr.Fields, "Name")
		assert.Contains(t, validationErr.Fields, "Password")
	})
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{
		Message: "Validation failed",
		Fields:  map[string]string{"Domain": "Domain is required"},
	}

	assert.Equal(t, "Validation failed", err.Error())
}

func TestIsValidationError(t *testing.T) {
	assert.True(t, IsValidationError(&ValidationError{Message: "Validation failed"}))
	assert.False(t, IsValidationError(assert.AnError))
}

func TestGetValidationFields(t *testing.T) {
	t.Run("returns the field map", func(t *testing.T) {
		fields := map[string]string{"SkillLevel": "SkillLevel is required"}
		err := &ValidationError{Message: "Validation failed", Fields: fields}

		assert.Equal(t, fields, GetValidationFields(err))
	})

	t.Run("nil for other errors", func(t *testing.T) {
		assert.Nil(t, GetValidationFields(assert.AnError))
	})
}
