package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// WithField returns a copy of the error annotated with the offending field
func (e *DomainError) WithField(field string) *DomainError {
	return &DomainError{Code: e.Code, Message: e.Message, Field: field}
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewFieldError creates a new domain error tied to a specific input field
func NewFieldError(code, message, field string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Field:   field,
	}
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrInvalidStatus       = NewDomainError("INVALID_STATUS", "Operation not allowed in current status")
	ErrUnclassifiable      = NewDomainError("UNCLASSIFIABLE_SUPPLY", "Supply jurisdiction cannot be determined")
	ErrPostingFailed       = NewDomainError("POSTING_FAILED", "Ledger posting could not be confirmed")
)
