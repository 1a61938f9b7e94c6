package shared

import "fmt"

// Error kinds surfaced by the service layer. The HTTP layer maps these to
// status codes; services never map to statuses themselves.

// ValidationError indicates malformed input: bad rank configuration, invalid
// season dates, missing required fields. Never retried.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// NewValidationError formats a new ValidationError.
func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// ConflictError indicates the request clashes with existing state, e.g. a
// duplicate deck name within a group.
type ConflictError struct {
	Msg string
}

func (e *ConflictError) Error() string { return e.Msg }

func NewConflictError(format string, args ...any) *ConflictError {
	return &ConflictError{Msg: fmt.Sprintf(format, args...)}
}

// NotFoundError indicates a referenced entity does not exist.
type NotFoundError struct {
	Msg string
}

func (e *NotFoundError) Error() string { return e.Msg }

func NewNotFoundError(format string, args ...any) *NotFoundError {
	return &NotFoundError{Msg: fmt.Sprintf(format, args...)}
}

// PermissionError indicates the acting user lacks the required role.
type PermissionError struct {
	Msg string
}

func (e *PermissionError) Error() string { return e.Msg }

func NewPermissionError(format string, args ...any) *PermissionError {
	return &PermissionError{Msg: fmt.Sprintf(format, args...)}
}
