package dto

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeErrorCode(t *testing.T) {
	tests := []struct {
		domain string
		public string
		status int
	}{
		{"NOT_FOUND", ErrCodeNotFound, http.StatusNotFound},
		{"INVALID_PROGRESS", ErrCodeValidation, http.StatusBadRequest},
		{"INVALID_DATE_RANGE", ErrCodeValidation, http.StatusBadRequest},
		{"INVALID_STATE", ErrCodeInvalidState, http.StatusUnprocessableEntity},
		{"TASK_DELETED", ErrCodeInvalidState, http.StatusUnprocessableEntity},
		{"CONFLICT", ErrCodeConflict, http.StatusConflict},
		{"ALREADY_EXISTS", ErrCodeAlreadyExists, http.StatusConflict},
		{"CONCURRENT_MODIFICATION", ErrCodeConcurrencyConflict, http.StatusConflict},
		{"UNAUTHORIZED", ErrCodeUnauthorized, http.StatusUnauthorized},
		{"FORBIDDEN", ErrCodeForbidden, http.StatusForbidden},
		{"LICENSE_USER_LIMIT", "ERR_LICENSE_USER_LIMIT", http.StatusForbidden},
		{"LICENSE_EXPIRED", "ERR_LICENSE_EXPIRED", http.StatusForbidden},
		{"EXTERNAL_SERVICE_ERROR", ErrCodeExternalService, http.StatusBadGateway},
		{"PASSWORD_HASH_ERROR", ErrCodeInternal, http.StatusInternalServerError},
		{"SOMETHING_NEW", ErrCodeInternal, http.StatusInternalServerError},
		{ErrCodeRateLimited, ErrCodeRateLimited, http.StatusTooManyRequests},
	}
	for _, tt := range tests {
		t.Run(tt.domain, func(t *testing.T) {
			code := NormalizeErrorCode(tt.domain)
			assert.Equal(t, tt.public, code)
			assert.Equal(t, tt.status, GetHTTPStatus(code))
		})
	}
}

func TestGetHTTPStatus_UnknownIs500(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, GetHTTPStatus("ERR_WHATEVER"))
}

func TestNewSuccessResponseWithMeta(t *testing.T) {
	resp := NewSuccessResponseWithMeta([]int{1, 2}, 45, 2, 20)
	require.NotNil(t, resp.Meta)
	assert.True(t, resp.Success)
	assert.Equal(t, 3, resp.Meta.TotalPages)

	assert.Equal(t, 0, NewMeta(0, 1, 20).TotalPages)
	assert.Equal(t, 1, NewMeta(5, 1, 0).TotalPages)
}

func TestErrorEnvelopeJSON(t *testing.T) {
	resp := NewValidationErrorResponse("Request validation failed", "req-1", []ValidationDetail{
		{Field: "progress", Message: "Must be at most 100"},
	})
	raw, err := json.Marshal(resp)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, false, got["success"])
	assert.NotContains(t, got, "data")
	errObj := got["error"].(map[string]any)
	assert.Equal(t, ErrCodeValidation, errObj["code"])
	assert.Equal(t, "req-1", errObj["request_id"])
	assert.Len(t, errObj["details"], 1)
}
