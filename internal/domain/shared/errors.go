package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrUnauthorized        = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrForbidden           = NewDomainError("FORBIDDEN", "Access to this resource is forbidden")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
)

// Receipt submission errors. These are the four invalid-call conditions of the
// payment flow; an unallocated remainder is valid data, not an error.
var (
	ErrInvalidAmount      = NewDomainError("INVALID_AMOUNT", "Amount must be positive at currency precision")
	ErrAllocationMismatch = NewDomainError("ALLOCATION_MISMATCH", "Sum of imputations does not match the declared payment total")
	ErrStaleBalance       = NewDomainError("STALE_BALANCE", "An imputed amount exceeds the installment's current balance")
	ErrEmptySelection     = NewDomainError("EMPTY_SELECTION", "A receipt requires at least one imputation")
)
