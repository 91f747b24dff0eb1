package dto

import (
	"net/http"
	"strings"
)

// Public error codes
const (
	ErrCodeInternal            = "ERR_INTERNAL"
	ErrCodeValidation          = "ERR_VALIDATION"
	ErrCodeBadRequest          = "ERR_BAD_REQUEST"
	ErrCodeUnauthorized        = "ERR_UNAUTHORIZED"
	ErrCodeTokenExpired        = "ERR_TOKEN_EXPIRED"
	ErrCodeTokenInvalid        = "ERR_TOKEN_INVALID"
	ErrCodeTokenRevoked        = "ERR_TOKEN_REVOKED"
	ErrCodeForbidden           = "ERR_FORBIDDEN"
	ErrCodeNotFound            = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists       = "ERR_ALREADY_EXISTS"
	ErrCodeConflict            = "ERR_CONFLICT"
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
	ErrCodeInvalidState        = "ERR_INVALID_STATE"
	ErrCodeExternalService     = "ERR_EXTERNAL_SERVICE"
	ErrCodeRateLimited         = "ERR_RATE_LIMITED"
)

// licensePrefix marks license enforcement failures, all reported as 403
const licensePrefix = "ERR_LICENSE_"

// ErrorCodeHTTPStatus maps public codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:            http.StatusInternalServerError,
	ErrCodeValidation:          http.StatusBadRequest,
	ErrCodeBadRequest:          http.StatusBadRequest,
	ErrCodeUnauthorized:        http.StatusUnauthorized,
	ErrCodeTokenExpired:        http.StatusUnauthorized,
	ErrCodeTokenInvalid:        http.StatusUnauthorized,
	ErrCodeTokenRevoked:        http.StatusUnauthorized,
	ErrCodeForbidden:           http.StatusForbidden,
	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConflict:            http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,
	ErrCodeInvalidState:        http.StatusUnprocessableEntity,
	ErrCodeExternalService:     http.StatusBadGateway,
	ErrCodeRateLimited:         http.StatusTooManyRequests,
}

// domainCodes maps domain error codes that are not INVALID_* field errors
var domainCodes = map[string]string{
	"NOT_FOUND":               ErrCodeNotFound,
	"ALREADY_EXISTS":          ErrCodeAlreadyExists,
	"CONFLICT":                ErrCodeConflict,
	"HAS_USERS":               ErrCodeConflict,
	"HAS_CHILDREN":            ErrCodeConflict,
	"CONCURRENCY_CONFLICT":    ErrCodeConcurrencyConflict,
	"CONCURRENT_MODIFICATION": ErrCodeConcurrencyConflict,
	"OPTIMISTIC_LOCK_ERROR":   ErrCodeConcurrencyConflict,
	"OPTIMISTIC_LOCK_FAILED":  ErrCodeConcurrencyConflict,
	"VERSION_CONFLICT":        ErrCodeConcurrencyConflict,
	"INVALID_STATE":           ErrCodeInvalidState,
	"ALREADY_DELETED":         ErrCodeInvalidState,
	"TASK_DELETED":            ErrCodeInvalidState,
	"NO_HOME_BRANCH":          ErrCodeInvalidState,
	"UNAUTHORIZED":            ErrCodeUnauthorized,
	"FORBIDDEN":               ErrCodeForbidden,
	"EXTERNAL_SERVICE_ERROR":  ErrCodeExternalService,
	"VALIDATION_ERROR":        ErrCodeValidation,
	"BAD_REQUEST":             ErrCodeBadRequest,
	"INTERNAL_ERROR":          ErrCodeInternal,
	"PASSWORD_HASH_ERROR":     ErrCodeInternal,
}

// NormalizeErrorCode converts a domain error code to its public form.
// INVALID_* codes other than INVALID_STATE are field errors and become
// ERR_VALIDATION; LICENSE_* codes keep their name under the ERR_ prefix.
// Codes already in public form are returned unchanged.
func NormalizeErrorCode(code string) string {
	if strings.HasPrefix(code, "ERR_") {
		return code
	}
	if public, ok := domainCodes[code]; ok {
		return public
	}
	switch {
	case strings.HasPrefix(code, "INVALID_"):
		return ErrCodeValidation
	case strings.HasPrefix(code, "LICENSE_"):
		return "ERR_" + code
	}
	return ErrCodeInternal
}

// GetHTTPStatus returns the HTTP status of a public code; unknown codes are 500
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	if strings.HasPrefix(code, licensePrefix) {
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}
