package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Title  string `json:"title" validate:"required,min=1,max=255"`
	Email  string `json:"email" validate:"omitempty,email"`
	Rating int    `json:"rating" validate:"omitempty,gte=1,lte=5"`
}

func TestValidate_Valid(t *testing.T) {
	err := Validate(sampleRequest{Title: "The Boys in the Boat", Email: "ada@example.com", Rating: 4})
	assert.NoError(t, err)
}

func TestValidate_ReportsJSONFieldNames(t *testing.T) {
	err := Validate(sampleRequest{Email: "not-an-email", Rating: 9})
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)

	fields := valErr.Fields()
	assert.Contains(t, fields, "title")
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "rating")
	assert.Equal(t, "is required", fields["title"])
	assert.Equal(t, "must be a valid email address", fields["email"])
}

func TestValidate_ErrorMessageListsFields(t *testing.T) {
	err := Validate(sampleRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "title")
	assert.Contains(t, err.Error(), "is required")
}
