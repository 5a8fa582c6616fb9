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
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrCrossTenant         = NewDomainError("CROSS_TENANT", "Referenced resource belongs to another tenant")
	ErrDuplicateRequest    = NewDomainError("DUPLICATE_REQUEST", "Request with this idempotency key was already processed")
)

// TransientError indicates an infrastructure failure that exhausted its retries.
// CommitStateUnknown is false when the atomic unit of work guarantees nothing
// was applied; it is true only when the final commit outcome could not be observed.
type TransientError struct {
	Cause              error
	CommitStateUnknown bool
}

// Error implements the error interface
func (e *TransientError) Error() string {
	if e.Cause != nil {
		return "transient failure: " + e.Cause.Error()
	}
	return "transient failure"
}

// Unwrap returns the underlying cause
func (e *TransientError) Unwrap() error {
	return e.Cause
}

// NewTransientError wraps an infrastructure error after retries are exhausted
func NewTransientError(cause error, commitStateUnknown bool) *TransientError {
	return &TransientError{Cause: cause, CommitStateUnknown: commitStateUnknown}
}
