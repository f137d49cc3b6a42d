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

// Error codes shared across the engine. Handlers map these to HTTP statuses;
// the application layer never returns raw storage errors past ErrCodeStorage.
const (
	ErrCodeNotFound       = "NOT_FOUND"
	ErrCodeValidation     = "VALIDATION_ERROR"
	ErrCodeAlreadyDecided = "ALREADY_DECIDED"
	ErrCodeStorage        = "STORAGE_ERROR"
	ErrCodeInvalidState   = "INVALID_STATE"
	ErrCodeConflict       = "CONCURRENCY_CONFLICT"
)

// Common domain errors
var (
	ErrNotFound            = NewDomainError(ErrCodeNotFound, "Resource not found")
	ErrAlreadyDecided      = NewDomainError(ErrCodeAlreadyDecided, "Return has already been decided")
	ErrInvalidState        = NewDomainError(ErrCodeInvalidState, "Operation not allowed in current state")
	ErrConcurrencyConflict = NewDomainError(ErrCodeConflict, "Resource was modified by another process")
)

// NewValidationError creates a validation error with the given message.
// Validation errors are always surfaced before any write.
func NewValidationError(message string) *DomainError {
	return NewDomainError(ErrCodeValidation, message)
}

// NewStorageError wraps an infrastructure failure without leaking the driver
// message to callers. The original error stays behind the storage boundary.
func NewStorageError() *DomainError {
	return NewDomainError(ErrCodeStorage, "Storage operation failed, the request may be retried")
}

// IsValidation reports whether err is a validation-kind domain error.
func IsValidation(err error) bool {
	de, ok := err.(*DomainError)
	return ok && de.Code == ErrCodeValidation
}

// IsAlreadyDecided reports whether err signals a lost decision race.
func IsAlreadyDecided(err error) bool {
	de, ok := err.(*DomainError)
	return ok && de.Code == ErrCodeAlreadyDecided
}
