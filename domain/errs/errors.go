package errs

import "errors"

// Error taxonomy shared by the store, the service and the HTTP layer.
// Callers wrap these with fmt.Errorf("...: %w", ...) and match with errors.Is.
var (
	// ErrNotFound id absent on get/update/delete
	ErrNotFound = errors.New("todo not found")

	// ErrValidation missing or malformed request field
	ErrValidation = errors.New("validation failed")

	// ErrStorageUnavailable connectivity loss or any other store failure
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// ValidationError carries the offending field so handlers can echo it back.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Reason
}

// Unwrap lets errors.Is(err, ErrValidation) match.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NewValidationError builds a ValidationError for field.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// Storage wraps a driver error as ErrStorageUnavailable, keeping the cause for logs.
func Storage(op string, cause error) error {
	if cause == nil {
		return nil
	}
	return &storageError{op: op, cause: cause}
}

type storageError struct {
	op    string
	cause error
}

func (e *storageError) Error() string {
	return e.op + ": " + ErrStorageUnavailable.Error() + ": " + e.cause.Error()
}

func (e *storageError) Is(target error) bool {
	return target == ErrStorageUnavailable
}

func (e *storageError) Unwrap() error {
	return e.cause
}
