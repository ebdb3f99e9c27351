package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCode(t *testing.T) {
	wrapped := fmt.Errorf("add task: %w: title is required", ErrValidation)

	assert.Equal(t, http.StatusBadRequest, StatusCode(wrapped))
	assert.Equal(t, http.StatusNotFound, StatusCode(ErrTaskNotFound))
	assert.Equal(t, http.StatusInternalServerError, StatusCode(errors.New("boom")))
	assert.True(t, errors.Is(wrapped, ErrValidation))
}

func TestPublicMessage(t *testing.T) {
	clientErr := fmt.Errorf("%w: deadline must use YYYY-MM-DD", ErrValidation)
	serverErr := fmt.Errorf("insert task: %w: %w", ErrPersistence, errors.New("disk I/O error"))

	assert.Equal(t, "validation failed: deadline must use YYYY-MM-DD", PublicMessage(clientErr))
	assert.Equal(t, "persistence failure", PublicMessage(serverErr))
	assert.Equal(t, "internal error", PublicMessage(errors.New("boom")))
}
