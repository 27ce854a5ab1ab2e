package dto

import "net/http"

// codeToHTTPStatus maps domain error codes to HTTP status codes
var codeToHTTPStatus = map[string]int{
	// Validation errors
	"INVALID_AMOUNT":      http.StatusBadRequest,
	"INVALID_PASSWORD":    http.StatusBadRequest,
	"EMPTY_SELECTION":     http.StatusBadRequest,
	"ALLOCATION_MISMATCH": http.StatusBadRequest,
	"VALIDATION_ERROR":    http.StatusBadRequest,

	// Allocation preconditions
	"UNSORTED_INSTALLMENTS": http.StatusBadRequest,

	// Authentication errors
	"INVALID_CREDENTIALS": http.StatusUnauthorized,
	"TOKEN_EXPIRED":       http.StatusUnauthorized,
	"TOKEN_INVALID":       http.StatusUnauthorized,
	"TOKEN_MAX_REFRESH":   http.StatusUnauthorized,
	"UNAUTHORIZED":        http.StatusUnauthorized,

	// Authorization errors
	"ACCOUNT_LOCKED":      http.StatusForbidden,
	"ACCOUNT_DEACTIVATED": http.StatusForbidden,
	"ACCOUNT_INACTIVE":    http.StatusForbidden,
	"FORBIDDEN":           http.StatusForbidden,

	// Not found
	"NOT_FOUND":      http.StatusNotFound,
	"USER_NOT_FOUND": http.StatusNotFound,

	// Conflicts
	"ALREADY_EXISTS":       http.StatusConflict,
	"CONCURRENCY_CONFLICT": http.StatusConflict,
	"STALE_BALANCE":        http.StatusConflict,

	// Business rule violations
	"INVALID_STATE":       http.StatusUnprocessableEntity,
	"HAS_ACTIVE_LOANS":    http.StatusUnprocessableEntity,
	"HAS_PAYMENTS":        http.StatusUnprocessableEntity,
	"CLIENT_INACTIVE":     http.StatusUnprocessableEntity,
	"LOAN_NOT_ACTIVE":     http.StatusUnprocessableEntity,
	"INVALID_INSTALLMENT": http.StatusUnprocessableEntity,
	"ALREADY_DEACTIVATED": http.StatusUnprocessableEntity,
	"ALREADY_ACTIVE":      http.StatusUnprocessableEntity,

	// Server errors
	"INTERNAL_ERROR":      http.StatusInternalServerError,
	"PASSWORD_HASH_ERROR": http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for a domain error code
func GetHTTPStatus(code string) int {
	if status, ok := codeToHTTPStatus[code]; ok {
		return status
	}
	if len(code) > 8 && code[:8] == "INVALID_" {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
