package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError_Is(t *testing.T) {
	t.Run("matches sentinel by code", func(t *testing.T) {
		err := NewDomainError("NOT_FOUND", "Task not found")
		assert.True(t, errors.Is(err, ErrNotFound))
		assert.False(t, errors.Is(err, ErrConflict))
	})

	t.Run("matches through fmt wrapping", func(t *testing.T) {
		err := fmt.Errorf("load task: %w", ErrNotFound)
		assert.True(t, IsNotFound(err))
	})

	t.Run("does not match plain errors", func(t *testing.T) {
		assert.False(t, errors.Is(errors.New("NOT_FOUND"), ErrNotFound))
	})
}

func TestWrapDomainError(t *testing.T) {
	cause := errors.New("connection refused")
	err := WrapDomainError("EXTERNAL_SERVICE_ERROR", "Geocoding failed", cause)

	assert.Equal(t, "Geocoding failed: connection refused", err.Error())
	assert.True(t, errors.Is(err, cause))
	assert.True(t, errors.Is(err, ErrExternalService))

	var de *DomainError
	assert.True(t, errors.As(fmt.Errorf("wrapped: %w", err), &de))
	assert.Equal(t, "EXTERNAL_SERVICE_ERROR", de.Code)
}
