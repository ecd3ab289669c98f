package dto

import "net/http"

// Error code constants shared between the domain layer and the HTTP
// surface. Domain errors carry these codes directly.

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "INTERNAL"
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "BAD_REQUEST"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "INVALID_INPUT"
	// ErrCodeMissingField is used when a required field is missing
	ErrCodeMissingField = "MISSING_FIELD"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "NOT_FOUND"
	// ErrCodeAlreadyExists is used when trying to create a duplicate resource
	ErrCodeAlreadyExists = "ALREADY_EXISTS"
	// ErrCodeConcurrencyConflict is used when optimistic locking fails
	ErrCodeConcurrencyConflict = "CONCURRENCY_CONFLICT"
)

// Tax validation error codes
const (
	// ErrCodeInvalidGSTIN is used when a registration number fails
	// structural or checksum validation
	ErrCodeInvalidGSTIN = "INVALID_GSTIN"
	// ErrCodeInvalidState is used when a state code is not a known jurisdiction
	ErrCodeInvalidState = "INVALID_STATE"
	// ErrCodeInvalidTaxRate is used when a rate is outside the schedule
	ErrCodeInvalidTaxRate = "INVALID_TAX_RATE"
	// ErrCodeInvalidAmount is used when a monetary amount is invalid
	ErrCodeInvalidAmount = "INVALID_AMOUNT"
)

// Business rule error codes
const (
	// ErrCodeInvalidStatus is used when an operation is invalid for the
	// current lifecycle status
	ErrCodeInvalidStatus = "INVALID_STATUS"
	// ErrCodeUnclassifiableSupply is used when the supply jurisdiction
	// cannot be determined at finalisation
	ErrCodeUnclassifiableSupply = "UNCLASSIFIABLE_SUPPLY"
	// ErrCodePostingFailed is used when a ledger posting cannot be confirmed
	ErrCodePostingFailed = "POSTING_FAILED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	// General errors
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	// Input errors -> 400 Bad Request
	ErrCodeBadRequest:     http.StatusBadRequest,
	ErrCodeInvalidInput:   http.StatusBadRequest,
	ErrCodeMissingField:   http.StatusBadRequest,
	ErrCodeInvalidGSTIN:   http.StatusBadRequest,
	ErrCodeInvalidState:   http.StatusBadRequest,
	ErrCodeInvalidTaxRate: http.StatusBadRequest,
	ErrCodeInvalidAmount:  http.StatusBadRequest,

	// Resource errors
	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,

	// Business rule errors -> 422 Unprocessable Entity
	ErrCodeInvalidStatus:        http.StatusUnprocessableEntity,
	ErrCodeUnclassifiableSupply: http.StatusUnprocessableEntity,
	ErrCodePostingFailed:        http.StatusUnprocessableEntity,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Returns 500 Internal Server Error if the error code is not found.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
