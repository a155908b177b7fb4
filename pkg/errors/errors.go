package custom_error

import (
	"errors"
	"fmt"
)

// ValidationError rejects a request before any write happens.
type ValidationError struct {
	message string
}

func (e *ValidationError) Error() string {
	return e.message
}

func NewValidation(format string, args ...interface{}) *ValidationError {
	return &ValidationError{message: fmt.Sprintf(format, args...)}
}

// PreconditionError means a record was no longer in the state the requested
// transition expects, typically a stale selection or a concurrent actor. The
// operation is safe to retry after re-reading.
type PreconditionError struct {
	message string
}

func (e *PreconditionError) Error() string {
	return e.message
}

func NewPrecondition(format string, args ...interface{}) *PreconditionError {
	return &PreconditionError{message: fmt.Sprintf(format, args...)}
}

// ForbiddenError is a server-side policy rejection. Hiding a button in the
// client is not enforcement; services return this regardless of what the UI
// showed.
type ForbiddenError struct {
	message string
}

func (e *ForbiddenError) Error() string {
	return e.message
}

func NewForbidden(format string, args ...interface{}) *ForbiddenError {
	return &ForbiddenError{message: fmt.Sprintf(format, args...)}
}

type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

func NewNotFound(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

type UniqueViolationError struct {
	message string
	code    string // PostgreSQL error code (e.g., "23505")
}

type ForeignKeyViolationError struct {
	message string
	code    string // PostgreSQL error code (e.g., "23503")
}

func (f *ForeignKeyViolationError) Error() string {
	return fmt.Sprintf("%s (code: %s)", f.message, f.code)
}

func (e *UniqueViolationError) Error() string {
	return fmt.Sprintf("%s (code: %s)", e.message, e.code)
}

func WrapDBError(message, code string) error {
	switch code {
	case "23505":
		return &UniqueViolationError{
			message: message,
			code:    code,
		}
	case "23503":
		return &ForeignKeyViolationError{
			message: "Value is already used by other resources " + message,
			code:    code,
		}
	default:
		return fmt.Errorf("uncategorized error occurred with code %s: %s", code, message)
	}
}

func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

func IsPrecondition(err error) bool {
	var target *PreconditionError
	return errors.As(err, &target)
}

func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

func IsForbidden(err error) bool {
	var target *ForbiddenError
	return errors.As(err, &target)
}
