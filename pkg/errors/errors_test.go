package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotFound(t *testing.T) {
	err := NotFound("book", "9780143127741")

	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, http.StatusNotFound, err.Status)
	assert.Contains(t, err.Message, "book")
	assert.Contains(t, err.Message, "9780143127741")
}

func TestAlreadyExists(t *testing.T) {
	err := AlreadyExists("book", "isbn", "9780143127741")

	assert.ErrorIs(t, err, ErrAlreadyExists)
	assert.Equal(t, http.StatusConflict, err.Status)
}

func TestConflict(t *testing.T) {
	err := Conflict("book is already checked out")

	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, http.StatusConflict, err.Status)
	assert.Equal(t, "book is already checked out", err.Message)
}

func TestInvalidInput(t *testing.T) {
	err := InvalidInput("isbn is required")

	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, http.StatusBadRequest, err.Status)
}

func TestWrappedSentinelSurvivesFmtErrorf(t *testing.T) {
	err := fmt.Errorf("get book: %w", ErrNotFound)

	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, http.StatusNotFound, HTTPStatus(err))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", ErrNotFound, http.StatusNotFound},
		{"already exists", ErrAlreadyExists, http.StatusConflict},
		{"conflict", ErrConflict, http.StatusConflict},
		{"invalid input", ErrInvalidInput, http.StatusBadRequest},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
		{"app error", NotFound("book", "x"), http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := Internal(cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, http.StatusInternalServerError, err.Status)
}
